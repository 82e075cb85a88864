package analyzer

import (
	"fmt"
	"strings"

	"tx-inspector-sol/internal/logic/core"
	"tx-inspector-sol/internal/logic/extension"
	"tx-inspector-sol/internal/logic/resolver"
	"tx-inspector-sol/internal/types"
	"tx-inspector-sol/internal/wire"
	"tx-inspector-sol/pkg/logger"
)

// Analyze 是分析入口：对一笔已解析的交易计算费用、转账、警告与隐私等级。
// 纯计算、无 I/O；AnalysisState 为本次调用独有，不同交易可并行分析。
// reg 为 nil 时仅做原生分类。
func Analyze(tx *wire.Transaction, accounts *resolver.Resolved, signer types.Pubkey, reg *extension.Registry) *core.Analysis {
	msg := &tx.Message
	st := core.NewAnalysisState()

	if accounts.TablesMissing {
		names := make([]string, 0, len(accounts.MissingTables))
		for _, t := range accounts.MissingTables {
			names = append(names, t.String())
		}
		st.AddWarning(core.WarnLookupTablesNotProvided,
			fmt.Sprintf("lookup tables not provided: %s; dynamic accounts shown as placeholders", strings.Join(names, ", ")))
	}

	classifyNative(msg, accounts, signer, st)
	runExtensions(msg, accounts, signer, reg, st)
	warnUnknownPrograms(st)

	// 钓鱼启发式：钱包不应被要求签一笔并不需要它签名的交易
	if !isRequiredSigner(msg, accounts, signer) {
		st.AddWarning(core.WarnSignerNotRequired,
			fmt.Sprintf("signer %s is not a required signer of this transaction", signer))
	}

	a := &core.Analysis{
		Transfers:           st.Transfers,
		TransferCount:       st.TransferCount,
		Warnings:            st.Warnings,
		Notices:             st.Notices,
		Actions:             st.Actions,
		ConfidentialOps:     st.ConfidentialOps,
		StorageOps:          st.StorageOps,
		HasTokenInstruction: st.SawTokenInstruction,
	}
	computeFees(msg.Header, st, a)
	a.PrivacyLevel = decidePrivacyLevel(st)
	a.IsFeePayer = len(accounts.Keys) > 0 && accounts.Keys[0] == signer
	return a
}

// isRequiredSigner 判断 signer 是否位于前 NumRequiredSignatures 个已解析账户中
func isRequiredSigner(msg *wire.Message, accounts *resolver.Resolved, signer types.Pubkey) bool {
	required := int(msg.Header.NumRequiredSignatures)
	for i := 0; i < required && i < len(accounts.Keys); i++ {
		if accounts.Keys[i] == signer {
			return true
		}
	}
	return false
}

// runExtensions 逐个咨询注册的协议分析器：
//   - 检出顶层直接调用 → 完整 Analyze + 追加 notice，并撤回其程序集的未知标记；
//   - 程序仅出现在账户列表中 → 低置信度 CPI 警告（不做完整解码）。
func runExtensions(msg *wire.Message, accounts *resolver.Resolved, signer types.Pubkey, reg *extension.Registry, st *core.AnalysisState) {
	for _, a := range reg.Analyzers() {
		programs, err := a.SupportedPrograms()
		if err != nil {
			// 登记时已校验过；此处兜底，禁用而不中断
			logger.Errorf("[analyzer] extension %s unavailable: %v", a.Name(), err)
			continue
		}

		if a.Detect(msg, accounts) {
			a.Analyze(msg, accounts, signer, st)
			a.EnrichNotice(st)
			for _, p := range programs {
				st.RetractUnknownProgram(p)
			}
			continue
		}

		var matched []string
		for _, p := range programs {
			if accounts.Contains(p) {
				desc, ok := a.ProgramDescription(p)
				if !ok {
					desc = a.Name()
				}
				matched = append(matched, fmt.Sprintf("%s (%s)", p, desc))
			}
		}
		if len(matched) > 0 {
			st.AddWarning(core.WarnCPINotAnalyzed,
				fmt.Sprintf("possible cross-program invocation of %s; inner instructions not analyzed",
					strings.Join(matched, ", ")))
		}
	}
}
