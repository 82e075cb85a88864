package core

import (
	"tx-inspector-sol/internal/types"
)

// MaxDisplayTransfers 是物化进展示列表的转账条数上限（防资源耗尽）。
// 超限的转账仍计入条数与金额合计，只是不再展开。
const MaxDisplayTransfers = 50

// AnalysisState 是单笔交易的可变累加器，生命周期不跨调用、不跨 goroutine。
// 原生分类器与扩展分析器都向它写入，最终由引擎折叠为 Analysis。
type AnalysisState struct {
	Transfers     []Transfer
	TransferCount int

	SignerSentLamports uint64 // 饱和累加

	ComputeUnitLimit      uint32
	HasComputeUnitLimit   bool
	ComputeUnitPriceMicro uint64
	HasComputeUnitPrice   bool

	SawSystemTransfer   bool
	SawTokenInstruction bool

	unknownPrograms []types.Pubkey

	Warnings []Warning
	Notices  []string
	Actions  []Action

	ConfidentialOps int
	StorageOps      int
}

func NewAnalysisState() *AnalysisState {
	return &AnalysisState{}
}

// AddTransfer 记录一条转账：金额合计永远累加（饱和），列表物化受上限约束
func (s *AnalysisState) AddTransfer(t Transfer) {
	s.TransferCount++
	if t.FromSigner {
		s.SignerSentLamports = SaturatingAdd64(s.SignerSentLamports, t.Lamports)
	}
	if len(s.Transfers) < MaxDisplayTransfers {
		s.Transfers = append(s.Transfers, t)
	}
}

func (s *AnalysisState) AddWarning(code WarningCode, message string) {
	s.Warnings = append(s.Warnings, Warning{Code: code, Message: message})
}

// HasWarning 判断某类警告是否已存在（用于单笔交易内的去重提示）
func (s *AnalysisState) HasWarning(code WarningCode) bool {
	for _, w := range s.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func (s *AnalysisState) AddNotice(notice string) {
	s.Notices = append(s.Notices, notice)
}

// AddUnknownProgram 按地址去重累积未知程序（n 很小，线性扫描即可）
func (s *AnalysisState) AddUnknownProgram(program types.Pubkey) {
	for _, p := range s.unknownPrograms {
		if p == program {
			return
		}
	}
	s.unknownPrograms = append(s.unknownPrograms, program)
}

// RetractUnknownProgram 撤回某个程序的未知标记（扩展声明认识该程序时调用）
func (s *AnalysisState) RetractUnknownProgram(program types.Pubkey) {
	kept := s.unknownPrograms[:0]
	for _, p := range s.unknownPrograms {
		if p != program {
			kept = append(kept, p)
		}
	}
	s.unknownPrograms = kept
}

// UnknownPrograms 返回仍未被任何扩展认领的程序
func (s *AnalysisState) UnknownPrograms() []types.Pubkey {
	return s.unknownPrograms
}

// AddAction 登记一个扩展动作并按其隐私影响累加计数
func (s *AnalysisState) AddAction(a Action) {
	s.Actions = append(s.Actions, a)
	switch a.PrivacyImpact() {
	case ImpactConfidential:
		s.ConfidentialOps++
	case ImpactStorageCompression:
		s.StorageOps++
	}
}

// HasHybridAction 判断是否有扩展动作直接报告 Hybrid 影响
func (s *AnalysisState) HasHybridAction() bool {
	for _, a := range s.Actions {
		if a.PrivacyImpact() == ImpactHybrid {
			return true
		}
	}
	return false
}

// PublicValueMovement 判定是否发生了公开的价值移动：
// 见到原生系统转账、或任一 SPL Token 指令、或存在已记录的转账。
func (s *AnalysisState) PublicValueMovement() bool {
	return s.SawSystemTransfer || s.SawTokenInstruction || s.TransferCount > 0
}
