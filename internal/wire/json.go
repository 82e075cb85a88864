package wire

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"tx-inspector-sol/internal/types"
)

// JSON 形态采用 Solana RPC 习惯的 camelCase 字段与 base58 字符串编码。
// 主要服务于文本输入（internal/input）与结果展示。

type jsonHeader struct {
	NumRequiredSignatures       uint8 `json:"numRequiredSignatures"`
	NumReadonlySignedAccounts   uint8 `json:"numReadonlySignedAccounts"`
	NumReadonlyUnsignedAccounts uint8 `json:"numReadonlyUnsignedAccounts"`
}

type jsonInstruction struct {
	ProgramIDIndex uint8   `json:"programIdIndex"`
	Accounts       []uint8 `json:"accounts"`
	Data           string  `json:"data"` // base58 编码的指令数据
}

type jsonLookup struct {
	AccountKey      string  `json:"accountKey"`
	WritableIndexes []uint8 `json:"writableIndexes"`
	ReadonlyIndexes []uint8 `json:"readonlyIndexes"`
}

type jsonMessage struct {
	Version             string            `json:"version,omitempty"` // "legacy" / "v0"，缺省按 lookups 推断
	Header              jsonHeader        `json:"header"`
	AccountKeys         []string          `json:"accountKeys"`
	RecentBlockhash     string            `json:"recentBlockhash"`
	Instructions        []jsonInstruction `json:"instructions"`
	AddressTableLookups []jsonLookup      `json:"addressTableLookups,omitempty"`
}

type jsonTransaction struct {
	Signatures []string    `json:"signatures"`
	Message    jsonMessage `json:"message"`
}

func (tx *Transaction) MarshalJSON() ([]byte, error) {
	jt := jsonTransaction{
		Signatures: make([]string, 0, len(tx.Signatures)),
		Message: jsonMessage{
			Version: tx.Message.Version.String(),
			Header: jsonHeader{
				NumRequiredSignatures:       tx.Message.Header.NumRequiredSignatures,
				NumReadonlySignedAccounts:   tx.Message.Header.NumReadonlySignedAccounts,
				NumReadonlyUnsignedAccounts: tx.Message.Header.NumReadonlyUnsignedAccounts,
			},
			AccountKeys:     make([]string, 0, len(tx.Message.AccountKeys)),
			RecentBlockhash: tx.Message.RecentBlockhash.String(),
			Instructions:    make([]jsonInstruction, 0, len(tx.Message.Instructions)),
		},
	}
	for _, sig := range tx.Signatures {
		jt.Signatures = append(jt.Signatures, sig.String())
	}
	for _, key := range tx.Message.AccountKeys {
		jt.Message.AccountKeys = append(jt.Message.AccountKeys, key.String())
	}
	for _, ix := range tx.Message.Instructions {
		jt.Message.Instructions = append(jt.Message.Instructions, jsonInstruction{
			ProgramIDIndex: ix.ProgramIDIndex,
			Accounts:       ix.Accounts,
			Data:           base58.Encode(ix.Data),
		})
	}
	for _, lk := range tx.Message.AddressTableLookups {
		jt.Message.AddressTableLookups = append(jt.Message.AddressTableLookups, jsonLookup{
			AccountKey:      lk.TableKey.String(),
			WritableIndexes: lk.WritableIndexes,
			ReadonlyIndexes: lk.ReadonlyIndexes,
		})
	}
	return json.Marshal(jt)
}

func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var jt jsonTransaction
	if err := json.Unmarshal(data, &jt); err != nil {
		return fmt.Errorf("unmarshal transaction json: %w", err)
	}

	out := Transaction{
		Signatures: make([]types.Signature, 0, len(jt.Signatures)),
		Message: Message{
			Header: MessageHeader{
				NumRequiredSignatures:       jt.Message.Header.NumRequiredSignatures,
				NumReadonlySignedAccounts:   jt.Message.Header.NumReadonlySignedAccounts,
				NumReadonlyUnsignedAccounts: jt.Message.Header.NumReadonlyUnsignedAccounts,
			},
			AccountKeys:  make([]types.Pubkey, 0, len(jt.Message.AccountKeys)),
			Instructions: make([]CompiledInstruction, 0, len(jt.Message.Instructions)),
		},
	}

	switch jt.Message.Version {
	case "", "legacy":
		out.Message.Version = MessageVersionLegacy
		// version 字段缺省但带 lookups 时按 v0 处理
		if len(jt.Message.AddressTableLookups) > 0 {
			out.Message.Version = MessageVersionV0
		}
	case "v0", "0":
		out.Message.Version = MessageVersionV0
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, jt.Message.Version)
	}

	for i, s := range jt.Signatures {
		sig, err := types.SignatureFromBase58(s)
		if err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
		out.Signatures = append(out.Signatures, sig)
	}
	for i, s := range jt.Message.AccountKeys {
		key, err := types.TryPubkeyFromBase58(s)
		if err != nil {
			return fmt.Errorf("account key %d: %w", i, err)
		}
		out.Message.AccountKeys = append(out.Message.AccountKeys, key)
	}
	blockhash, err := types.HashFromBase58(jt.Message.RecentBlockhash)
	if err != nil {
		return fmt.Errorf("recent blockhash: %w", err)
	}
	out.Message.RecentBlockhash = blockhash

	for i, jix := range jt.Message.Instructions {
		data := []byte{}
		if jix.Data != "" { // base58 库视空串为非法输入
			data, err = base58.Decode(jix.Data)
			if err != nil {
				return fmt.Errorf("instruction %d data: %w", i, err)
			}
		}
		accounts := jix.Accounts
		if accounts == nil {
			accounts = []uint8{}
		}
		out.Message.Instructions = append(out.Message.Instructions, CompiledInstruction{
			ProgramIDIndex: jix.ProgramIDIndex,
			Accounts:       accounts,
			Data:           data,
		})
	}

	if len(jt.Message.AddressTableLookups) > 0 {
		out.Message.AddressTableLookups = make([]AddressTableLookup, 0, len(jt.Message.AddressTableLookups))
		for i, jlk := range jt.Message.AddressTableLookups {
			key, err := types.TryPubkeyFromBase58(jlk.AccountKey)
			if err != nil {
				return fmt.Errorf("lookup table %d key: %w", i, err)
			}
			writable := jlk.WritableIndexes
			if writable == nil {
				writable = []uint8{}
			}
			readonly := jlk.ReadonlyIndexes
			if readonly == nil {
				readonly = []uint8{}
			}
			out.Message.AddressTableLookups = append(out.Message.AddressTableLookups, AddressTableLookup{
				TableKey:        key,
				WritableIndexes: writable,
				ReadonlyIndexes: readonly,
			})
		}
	}

	if err := out.Message.Validate(); err != nil {
		return err
	}
	*tx = out
	return nil
}
