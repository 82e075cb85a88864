package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"tx-inspector-sol/internal/types"
)

func TestAddTransferDisplayCap(t *testing.T) {
	st := NewAnalysisState()
	for i := 0; i < MaxDisplayTransfers+20; i++ {
		st.AddTransfer(Transfer{From: "a", To: "b", Lamports: 10, FromSigner: true})
	}
	// 展示列表封顶，计数与金额合计不受影响
	assert.Len(t, st.Transfers, MaxDisplayTransfers)
	assert.Equal(t, MaxDisplayTransfers+20, st.TransferCount)
	assert.Equal(t, uint64((MaxDisplayTransfers+20)*10), st.SignerSentLamports)
}

func TestAddTransferSignerSum(t *testing.T) {
	st := NewAnalysisState()
	st.AddTransfer(Transfer{Lamports: 100, FromSigner: true})
	st.AddTransfer(Transfer{Lamports: 999, FromSigner: false}) // 非签名者支出不计
	st.AddTransfer(Transfer{Lamports: math.MaxUint64, FromSigner: true})

	assert.Equal(t, uint64(math.MaxUint64), st.SignerSentLamports)
	assert.Equal(t, 3, st.TransferCount)
}

func TestWarnings(t *testing.T) {
	st := NewAnalysisState()
	assert.False(t, st.HasWarning(WarnTokenAmountUnreadable))

	st.AddWarning(WarnTokenAmountUnreadable, "x")
	assert.True(t, st.HasWarning(WarnTokenAmountUnreadable))
	assert.False(t, st.HasWarning(WarnUnknownProgram))
}

func TestUnknownProgramDedupAndRetract(t *testing.T) {
	st := NewAnalysisState()
	p1, p2 := types.Pubkey{0x01}, types.Pubkey{0x02}

	st.AddUnknownProgram(p1)
	st.AddUnknownProgram(p1) // 重复添加去重
	st.AddUnknownProgram(p2)
	assert.Len(t, st.UnknownPrograms(), 2)

	st.RetractUnknownProgram(p1)
	assert.Equal(t, []types.Pubkey{p2}, st.UnknownPrograms())

	st.RetractUnknownProgram(p1) // 撤回不存在的程序是 no-op
	assert.Len(t, st.UnknownPrograms(), 1)
}

func TestAddActionCounters(t *testing.T) {
	st := NewAnalysisState()
	st.AddAction(OpaqueAction{Impact: ImpactConfidential})
	st.AddAction(OpaqueAction{Impact: ImpactStorageCompression})
	st.AddAction(OpaqueAction{Impact: ImpactNone})

	assert.Equal(t, 1, st.ConfidentialOps)
	assert.Equal(t, 1, st.StorageOps)
	assert.Len(t, st.Actions, 3)
	assert.False(t, st.HasHybridAction())

	st.AddAction(OpaqueAction{Impact: ImpactHybrid})
	assert.True(t, st.HasHybridAction())
	// Hybrid 不计入任一单项计数
	assert.Equal(t, 1, st.ConfidentialOps)
	assert.Equal(t, 1, st.StorageOps)
}

func TestPublicValueMovement(t *testing.T) {
	assert.False(t, NewAnalysisState().PublicValueMovement())

	st := NewAnalysisState()
	st.SawSystemTransfer = true
	assert.True(t, st.PublicValueMovement())

	st = NewAnalysisState()
	st.SawTokenInstruction = true
	assert.True(t, st.PublicValueMovement())

	st = NewAnalysisState()
	st.AddTransfer(Transfer{Lamports: 1})
	assert.True(t, st.PublicValueMovement())
}

func TestPrivacyImpactString(t *testing.T) {
	assert.Equal(t, "none", ImpactNone.String())
	assert.Equal(t, "storage_compression", ImpactStorageCompression.String())
	assert.Equal(t, "hybrid", ImpactHybrid.String())
	assert.Equal(t, "confidential", ImpactConfidential.String())
	assert.Equal(t, "unknown", PrivacyImpact(99).String())
}
