package signing

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tx-inspector-sol/internal/logic/core"
	"tx-inspector-sol/internal/types"
)

func TestBuildSummary(t *testing.T) {
	tx := unsignedTx(types.Pubkey{0x11})
	a := &core.Analysis{
		PrivacyLevel:         core.PrivacyHybrid,
		BaseFeeLamports:      5000,
		PriorityFeeLamports:  2000,
		PriorityFeeEstimated: true,
		TotalFeeLamports:     7000,
		SignerSentLamports:   1500,
		MaxTotalCostLamports: 8500,
		IsFeePayer:           true,
		Transfers:            []core.Transfer{{From: "a", To: "b", Lamports: 1500, FromSigner: true}},
		TransferCount:        1,
		Warnings:             []core.Warning{{Code: core.WarnUnknownProgram, Message: "unknown program invoked: x"}},
		Notices:              []string{"note"},
		Actions:              []core.Action{core.OpaqueAction{ProtocolName: "p", Desc: "d", Impact: core.ImpactConfidential}},
		ConfidentialOps:      1,
		HasTokenInstruction:  true,
	}

	s := BuildSummary(tx, a, true)

	assert.Equal(t, "hybrid", s.PrivacyLevel)
	assert.Equal(t, uint64(7000), s.TotalFeeLamports)
	assert.Equal(t, uint64(8500), s.MaxTotalCostLamports)
	assert.True(t, s.PriorityFeeEstimated)
	assert.True(t, s.IsFeePayer)
	assert.True(t, s.Signed)
	assert.True(t, s.HasTokenAssets)
	assert.Equal(t, 1, s.TransferCount)

	require.Len(t, s.Warnings, 1)
	assert.Equal(t, "unknown_program: unknown program invoked: x", s.Warnings[0])
	require.Len(t, s.Actions, 1)
	assert.Equal(t, "[p] d (impact: confidential)", s.Actions[0])

	// 交易字节可从摘要中原样还原
	raw, err := base64.StdEncoding.DecodeString(s.TransactionBase64)
	require.NoError(t, err)
	assert.Equal(t, tx.Serialize(), raw)

	// JSON 形态使用 camelCase 字段
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"privacyLevel":"hybrid"`)
	assert.Contains(t, string(out), `"maxTotalCostLamports":8500`)
}
