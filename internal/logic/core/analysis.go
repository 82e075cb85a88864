package core

import (
	"tx-inspector-sol/internal/types"
)

// PrivacyImpact 是单个协议动作对隐私的影响档位
type PrivacyImpact uint8

const (
	ImpactNone PrivacyImpact = iota
	ImpactStorageCompression
	ImpactHybrid
	ImpactConfidential
)

func (p PrivacyImpact) String() string {
	switch p {
	case ImpactNone:
		return "none"
	case ImpactStorageCompression:
		return "storage_compression"
	case ImpactHybrid:
		return "hybrid"
	case ImpactConfidential:
		return "confidential"
	default:
		return "unknown"
	}
}

// PrivacyLevel 是整笔交易的隐私等级结论
type PrivacyLevel string

const (
	PrivacyPublic       PrivacyLevel = "public"
	PrivacyCompressed   PrivacyLevel = "compressed"
	PrivacyHybrid       PrivacyLevel = "hybrid"
	PrivacyConfidential PrivacyLevel = "confidential"
)

// Action 是扩展协议解码出的一次操作。不同协议的动作共存于同一列表，
// 仅通过这三个操作消费（避免反射分发）。
type Action interface {
	Protocol() string
	Description() string
	PrivacyImpact() PrivacyImpact
}

// OpaqueAction 承载“检测到但未能完整解码”的动作：
// 协议名 / 描述 / 影响以纯数据形式保留，部分解码降级到这里而非报错。
type OpaqueAction struct {
	ProtocolName string
	Desc         string
	Impact       PrivacyImpact
}

func (a OpaqueAction) Protocol() string             { return a.ProtocolName }
func (a OpaqueAction) Description() string          { return a.Desc }
func (a OpaqueAction) PrivacyImpact() PrivacyImpact { return a.Impact }

type WarningCode string

const (
	WarnLookupTablesNotProvided      WarningCode = "lookup_tables_not_provided"
	WarnUnknownProgram               WarningCode = "unknown_program"
	WarnTokenAmountUnreadable        WarningCode = "token_amount_unreadable"
	WarnSignerNotRequired            WarningCode = "signer_not_required"
	WarnMalformedProtocolInstruction WarningCode = "malformed_protocol_instruction"
	WarnCPINotAnalyzed               WarningCode = "cpi_not_analyzed"
)

// Warning 软性提示，累积呈现给签名者，绝不中断分析。
// Program 仅对 unknown_program 有效，供扩展按程序撤回。
type Warning struct {
	Code    WarningCode  `json:"code"`
	Message string       `json:"message"`
	Program types.Pubkey `json:"-"`
}

// Transfer 一条已识别的原生 SOL 转账记录（展示形态，占位符合法）
type Transfer struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Lamports   uint64 `json:"lamports"`
	FromSigner bool   `json:"fromSigner"`
}

// Analysis 是一次分析调用的最终产出，构建后归调用方独占。
type Analysis struct {
	Transfers     []Transfer
	TransferCount int // 含超出展示上限的部分

	BaseFeeLamports      uint64
	PriorityFeeLamports  uint64
	PriorityFeeEstimated bool
	TotalFeeLamports     uint64
	SignerSentLamports   uint64
	MaxTotalCostLamports uint64

	Warnings []Warning
	Notices  []string
	Actions  []Action

	PrivacyLevel    PrivacyLevel
	ConfidentialOps int
	StorageOps      int

	IsFeePayer          bool
	HasTokenInstruction bool
}
