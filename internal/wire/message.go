package wire

import (
	"errors"
	"fmt"

	"tx-inspector-sol/internal/codec"
	"tx-inspector-sol/internal/types"
)

// 版本字节：最高位置位表示 versioned message，低 7 位为版本号（当前仅支持 0）
const versionPrefixMask = 0x80

var (
	ErrUnsupportedVersion  = errors.New("wire: unsupported message version")
	ErrDuplicateAccountKey = errors.New("wire: duplicate account key")
	ErrIndexOutOfBounds    = errors.New("wire: instruction index out of bounds")
	ErrTrailingBytes       = errors.New("wire: trailing bytes after transaction")
)

type MessageVersion uint8

const (
	MessageVersionLegacy MessageVersion = iota
	MessageVersionV0
)

func (v MessageVersion) String() string {
	switch v {
	case MessageVersionLegacy:
		return "legacy"
	case MessageVersionV0:
		return "v0"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
}

// MessageHeader 描述账户列表的签名/只读分段。
// 账户列表前 NumRequiredSignatures 个为签名者。
type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

// CompiledInstruction 中的索引均指向“已解析”账户列表
//（静态 keys ++ 查表 writable ++ 查表 readonly），而非仅静态部分。
type CompiledInstruction struct {
	ProgramIDIndex uint8
	Accounts       []uint8
	Data           []byte
}

// AddressTableLookup 声明从某个链上地址表中按下标借用的账户。
// 表内容需由外部解析后合并（见 logic/resolver）。
type AddressTableLookup struct {
	TableKey        types.Pubkey
	WritableIndexes []uint8
	ReadonlyIndexes []uint8
}

// Message 表示 Legacy 或 V0 布局的交易消息。
// Legacy 时 AddressTableLookups 恒为空。解析后不可变。
type Message struct {
	Version             MessageVersion
	Header              MessageHeader
	AccountKeys         []types.Pubkey // 静态账户列表
	RecentBlockhash     types.Hash
	Instructions        []CompiledInstruction
	AddressTableLookups []AddressTableLookup
}

// LookupAccountCount 返回地址表声明借用的账户总数
func (m *Message) LookupAccountCount() int {
	total := 0
	for _, lk := range m.AddressTableLookups {
		total += len(lk.WritableIndexes) + len(lk.ReadonlyIndexes)
	}
	return total
}

// ResolvedAccountCount 返回静态账户 + 查表账户的逻辑总数，
// 指令索引的合法上界（即使表内容尚未提供也已确定）。
func (m *Message) ResolvedAccountCount() int {
	return len(m.AccountKeys) + m.LookupAccountCount()
}

// IsSignerIndex 判断已解析账户列表中下标 idx 是否为必要签名者
func (m *Message) IsSignerIndex(idx int) bool {
	return idx >= 0 && idx < int(m.Header.NumRequiredSignatures)
}

// deserializeMessage 从游标当前位置解析一条消息（含版本字节分发）。
// 任何截断或非法编码返回 error；调用方负责事后索引校验。
func deserializeMessage(cur *codec.Cursor) (Message, error) {
	var msg Message

	first, err := cur.PeekU8()
	if err != nil {
		return msg, fmt.Errorf("read message prefix: %w", err)
	}
	if first&versionPrefixMask != 0 {
		_, _ = cur.ReadU8() // 已 Peek 成功，不会失败
		version := first &^ byte(versionPrefixMask)
		if version != 0 {
			return msg, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
		}
		msg.Version = MessageVersionV0
	} else {
		msg.Version = MessageVersionLegacy
	}

	if msg.Header.NumRequiredSignatures, err = cur.ReadU8(); err != nil {
		return msg, fmt.Errorf("read header: %w", err)
	}
	if msg.Header.NumReadonlySignedAccounts, err = cur.ReadU8(); err != nil {
		return msg, fmt.Errorf("read header: %w", err)
	}
	if msg.Header.NumReadonlyUnsignedAccounts, err = cur.ReadU8(); err != nil {
		return msg, fmt.Errorf("read header: %w", err)
	}

	numKeys, err := cur.ReadShortVecLen()
	if err != nil {
		return msg, fmt.Errorf("decode account key count: %w", err)
	}
	// 先按剩余空间裁剪预分配上限，防止伪造长度导致超额分配
	if numKeys > cur.Remaining()/32 {
		return msg, fmt.Errorf("account keys: %w", codec.ErrShortBuffer)
	}
	msg.AccountKeys = make([]types.Pubkey, 0, numKeys)
	for i := 0; i < numKeys; i++ {
		key, err := cur.ReadPubkey()
		if err != nil {
			return msg, fmt.Errorf("read account key %d: %w", i, err)
		}
		msg.AccountKeys = append(msg.AccountKeys, key)
	}

	if msg.RecentBlockhash, err = cur.ReadHash(); err != nil {
		return msg, fmt.Errorf("read recent blockhash: %w", err)
	}

	numIxs, err := cur.ReadShortVecLen()
	if err != nil {
		return msg, fmt.Errorf("decode instruction count: %w", err)
	}
	if numIxs > cur.Remaining() {
		return msg, fmt.Errorf("instructions: %w", codec.ErrShortBuffer)
	}
	msg.Instructions = make([]CompiledInstruction, 0, numIxs)
	for i := 0; i < numIxs; i++ {
		ix, err := deserializeInstruction(cur)
		if err != nil {
			return msg, fmt.Errorf("read instruction %d: %w", i, err)
		}
		msg.Instructions = append(msg.Instructions, ix)
	}

	if msg.Version == MessageVersionV0 {
		numLookups, err := cur.ReadShortVecLen()
		if err != nil {
			return msg, fmt.Errorf("decode lookup table count: %w", err)
		}
		if numLookups > cur.Remaining()/32 {
			return msg, fmt.Errorf("lookup tables: %w", codec.ErrShortBuffer)
		}
		msg.AddressTableLookups = make([]AddressTableLookup, 0, numLookups)
		for i := 0; i < numLookups; i++ {
			lk, err := deserializeLookup(cur)
			if err != nil {
				return msg, fmt.Errorf("read lookup table %d: %w", i, err)
			}
			msg.AddressTableLookups = append(msg.AddressTableLookups, lk)
		}
	}
	return msg, nil
}

func deserializeInstruction(cur *codec.Cursor) (CompiledInstruction, error) {
	var ix CompiledInstruction

	programIdx, err := cur.ReadU8()
	if err != nil {
		return ix, fmt.Errorf("read program index: %w", err)
	}
	ix.ProgramIDIndex = programIdx

	numAccounts, err := cur.ReadShortVecLen()
	if err != nil {
		return ix, fmt.Errorf("decode account index count: %w", err)
	}
	accountBytes, err := cur.ReadBytes(numAccounts)
	if err != nil {
		return ix, fmt.Errorf("read account indexes: %w", err)
	}
	ix.Accounts = make([]uint8, numAccounts)
	copy(ix.Accounts, accountBytes)

	dataLen, err := cur.ReadShortVecLen()
	if err != nil {
		return ix, fmt.Errorf("decode data length: %w", err)
	}
	data, err := cur.ReadBytes(dataLen)
	if err != nil {
		return ix, fmt.Errorf("read data: %w", err)
	}
	ix.Data = make([]byte, dataLen)
	copy(ix.Data, data)
	return ix, nil
}

func deserializeLookup(cur *codec.Cursor) (AddressTableLookup, error) {
	var lk AddressTableLookup

	key, err := cur.ReadPubkey()
	if err != nil {
		return lk, fmt.Errorf("read table key: %w", err)
	}
	lk.TableKey = key

	numWritable, err := cur.ReadShortVecLen()
	if err != nil {
		return lk, fmt.Errorf("decode writable index count: %w", err)
	}
	writable, err := cur.ReadBytes(numWritable)
	if err != nil {
		return lk, fmt.Errorf("read writable indexes: %w", err)
	}
	lk.WritableIndexes = make([]uint8, numWritable)
	copy(lk.WritableIndexes, writable)

	numReadonly, err := cur.ReadShortVecLen()
	if err != nil {
		return lk, fmt.Errorf("decode readonly index count: %w", err)
	}
	readonly, err := cur.ReadBytes(numReadonly)
	if err != nil {
		return lk, fmt.Errorf("read readonly indexes: %w", err)
	}
	lk.ReadonlyIndexes = make([]uint8, numReadonly)
	copy(lk.ReadonlyIndexes, readonly)
	return lk, nil
}

// Serialize 输出消息的线上字节（即签名对象）。逐字节可逆，见 transaction.go 的反向实现。
func (m *Message) Serialize() []byte {
	out := make([]byte, 0, m.estimateSize())
	if m.Version == MessageVersionV0 {
		out = append(out, versionPrefixMask|0)
	}
	out = append(out,
		m.Header.NumRequiredSignatures,
		m.Header.NumReadonlySignedAccounts,
		m.Header.NumReadonlyUnsignedAccounts,
	)
	out = codec.AppendShortVecLen(out, len(m.AccountKeys))
	for _, key := range m.AccountKeys {
		out = append(out, key[:]...)
	}
	out = append(out, m.RecentBlockhash[:]...)
	out = codec.AppendShortVecLen(out, len(m.Instructions))
	for _, ix := range m.Instructions {
		out = append(out, ix.ProgramIDIndex)
		out = codec.AppendShortVecLen(out, len(ix.Accounts))
		out = append(out, ix.Accounts...)
		out = codec.AppendShortVecLen(out, len(ix.Data))
		out = append(out, ix.Data...)
	}
	if m.Version == MessageVersionV0 {
		out = codec.AppendShortVecLen(out, len(m.AddressTableLookups))
		for _, lk := range m.AddressTableLookups {
			out = append(out, lk.TableKey[:]...)
			out = codec.AppendShortVecLen(out, len(lk.WritableIndexes))
			out = append(out, lk.WritableIndexes...)
			out = codec.AppendShortVecLen(out, len(lk.ReadonlyIndexes))
			out = append(out, lk.ReadonlyIndexes...)
		}
	}
	return out
}

func (m *Message) estimateSize() int {
	size := 1 + 3 + 3 + len(m.AccountKeys)*32 + 32 + 3
	for _, ix := range m.Instructions {
		size += 1 + 3 + len(ix.Accounts) + 3 + len(ix.Data)
	}
	for _, lk := range m.AddressTableLookups {
		size += 32 + 3 + len(lk.WritableIndexes) + 3 + len(lk.ReadonlyIndexes)
	}
	return size
}

// Validate 校验解析后的不变量：
//  1. 静态账户列表无重复（n ≤ ~64，O(n²) 扫描足够）；
//  2. 所有指令的 program/account 下标落在已解析账户数之内。
func (m *Message) Validate() error {
	keys := m.AccountKeys
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[i] == keys[j] {
				return fmt.Errorf("%w: %s at %d and %d", ErrDuplicateAccountKey, keys[i], i, j)
			}
		}
	}

	resolved := m.ResolvedAccountCount()
	for i, ix := range m.Instructions {
		if int(ix.ProgramIDIndex) >= resolved {
			return fmt.Errorf("%w: instruction %d program index %d >= %d",
				ErrIndexOutOfBounds, i, ix.ProgramIDIndex, resolved)
		}
		for _, acc := range ix.Accounts {
			if int(acc) >= resolved {
				return fmt.Errorf("%w: instruction %d account index %d >= %d",
					ErrIndexOutOfBounds, i, acc, resolved)
			}
		}
	}
	return nil
}
