package analyzer

import (
	"encoding/binary"
	"fmt"

	sdksystem "github.com/blocto/solana-go-sdk/program/system"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"tx-inspector-sol/internal/consts"
	"tx-inspector-sol/internal/logic/core"
	"tx-inspector-sol/internal/logic/resolver"
	"tx-inspector-sol/internal/types"
	"tx-inspector-sol/internal/wire"
)

// classifyNative 遍历顶层指令，对白名单程序做静态分发。
// 未识别的程序先累积，待扩展认领后再决定是否产出 unknown_program 警告。
func classifyNative(msg *wire.Message, accounts *resolver.Resolved, signer types.Pubkey, st *core.AnalysisState) {
	for _, ix := range msg.Instructions {
		program, ok := accounts.At(int(ix.ProgramIDIndex))
		if !ok {
			// 程序地址在缺失的地址表里，LookupTablesNotProvided 已先行警告
			continue
		}
		switch program {
		case consts.SystemProgram:
			classifySystemInstruction(ix, accounts, signer, st)
		case consts.ComputeBudgetProgram:
			classifyComputeBudgetInstruction(ix, st)
		case consts.TokenProgram, consts.TokenProgram2022:
			classifyTokenInstruction(ix, st)
		default:
			st.AddUnknownProgram(program)
		}
	}
}

// classifySystemInstruction 仅识别 Transfer（LE u32 tag=2 + LE u64 lamports）。
// 其余 System 指令与本引擎的资金视角无关，静默跳过。
func classifySystemInstruction(ix wire.CompiledInstruction, accounts *resolver.Resolved, signer types.Pubkey, st *core.AnalysisState) {
	if len(ix.Data) < 12 {
		return
	}
	tag := binary.LittleEndian.Uint32(ix.Data[:4])
	if tag != uint32(sdksystem.InstructionTransfer) {
		return
	}
	if len(ix.Accounts) < 2 {
		return
	}
	lamports := binary.LittleEndian.Uint64(ix.Data[4:12])

	fromIdx, toIdx := int(ix.Accounts[0]), int(ix.Accounts[1])
	fromKey, fromOk := accounts.At(fromIdx)

	st.SawSystemTransfer = true
	st.AddTransfer(core.Transfer{
		From:       accounts.Display(fromIdx),
		To:         accounts.Display(toIdx),
		Lamports:   lamports,
		FromSigner: fromOk && fromKey == signer,
	})
}

// classifyComputeBudgetInstruction 提取 compute budget 参数：
// tag 2 = SetComputeUnitLimit(u32)，tag 3 = SetComputeUnitPrice(u64 micro-lamports)。
// 其他 tag 或长度不足一律 no-op。
func classifyComputeBudgetInstruction(ix wire.CompiledInstruction, st *core.AnalysisState) {
	if len(ix.Data) == 0 {
		return
	}
	switch ix.Data[0] {
	case 2:
		if len(ix.Data) >= 5 {
			st.ComputeUnitLimit = binary.LittleEndian.Uint32(ix.Data[1:5])
			st.HasComputeUnitLimit = true
		}
	case 3:
		if len(ix.Data) >= 9 {
			st.ComputeUnitPriceMicro = binary.LittleEndian.Uint64(ix.Data[1:9])
			st.HasComputeUnitPrice = true
		}
	}
}

// classifyTokenInstruction 对 SPL Token / Token-2022 只做在场检测；
// 离线场景拿不到账户状态，金额无法可靠读取，遇到转账类指令提示一次。
func classifyTokenInstruction(ix wire.CompiledInstruction, st *core.AnalysisState) {
	st.SawTokenInstruction = true

	if len(ix.Data) == 0 || st.HasWarning(core.WarnTokenAmountUnreadable) {
		return
	}
	switch ix.Data[0] {
	case byte(sdktoken.InstructionTransfer), byte(sdktoken.InstructionTransferChecked):
		st.AddWarning(core.WarnTokenAmountUnreadable,
			"token transfer detected; amount not readable offline")
	}
}

// warnUnknownPrograms 将扩展认领后仍然未知的程序逐个转为警告
func warnUnknownPrograms(st *core.AnalysisState) {
	for _, p := range st.UnknownPrograms() {
		st.Warnings = append(st.Warnings, core.Warning{
			Code:    core.WarnUnknownProgram,
			Message: fmt.Sprintf("unknown program invoked: %s", p),
			Program: p,
		})
	}
}
