package signing

import (
	"encoding/base64"
	"fmt"

	"tx-inspector-sol/internal/logic/core"
	"tx-inspector-sol/internal/wire"
)

// SigningSummary 是面向展示/审计的扁平结果（JSON 序列化或人读渲染）。
// 字段沿用 camelCase，与交易 JSON 形态一致。
type SigningSummary struct {
	PrivacyLevel string `json:"privacyLevel"`

	BaseFeeLamports      uint64 `json:"baseFeeLamports"`
	PriorityFeeLamports  uint64 `json:"priorityFeeLamports"`
	PriorityFeeEstimated bool   `json:"priorityFeeEstimated"`
	TotalFeeLamports     uint64 `json:"totalFeeLamports"`
	SignerSentLamports   uint64 `json:"signerSentLamports"`
	MaxTotalCostLamports uint64 `json:"maxTotalCostLamports"`
	IsFeePayer           bool   `json:"isFeePayer"`

	Transfers     []core.Transfer `json:"transfers,omitempty"`
	TransferCount int             `json:"transferCount"`

	Warnings []string `json:"warnings,omitempty"`
	Notices  []string `json:"notices,omitempty"`
	Actions  []string `json:"actions,omitempty"`

	ConfidentialOps int  `json:"confidentialOps"`
	StorageOps      int  `json:"storageOps"`
	HasTokenAssets  bool `json:"hasTokenAssets"`

	Signed            bool   `json:"signed"`
	TransactionBase64 string `json:"transactionBase64"`
}

// BuildSummary 把 Analysis 与（可能已签名的）交易折叠成扁平摘要
func BuildSummary(tx *wire.Transaction, a *core.Analysis, signed bool) SigningSummary {
	s := SigningSummary{
		PrivacyLevel:         string(a.PrivacyLevel),
		BaseFeeLamports:      a.BaseFeeLamports,
		PriorityFeeLamports:  a.PriorityFeeLamports,
		PriorityFeeEstimated: a.PriorityFeeEstimated,
		TotalFeeLamports:     a.TotalFeeLamports,
		SignerSentLamports:   a.SignerSentLamports,
		MaxTotalCostLamports: a.MaxTotalCostLamports,
		IsFeePayer:           a.IsFeePayer,
		Transfers:            a.Transfers,
		TransferCount:        a.TransferCount,
		ConfidentialOps:      a.ConfidentialOps,
		StorageOps:           a.StorageOps,
		HasTokenAssets:       a.HasTokenInstruction,
		Signed:               signed,
		TransactionBase64:    base64.StdEncoding.EncodeToString(tx.Serialize()),
	}
	for _, w := range a.Warnings {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%s: %s", w.Code, w.Message))
	}
	s.Notices = append(s.Notices, a.Notices...)
	for _, act := range a.Actions {
		s.Actions = append(s.Actions, fmt.Sprintf("[%s] %s (impact: %s)",
			act.Protocol(), act.Description(), act.PrivacyImpact()))
	}
	return s
}
