package wire

import (
	"errors"
	"fmt"

	"tx-inspector-sol/internal/codec"
	"tx-inspector-sol/internal/types"
)

var ErrSignerNotFound = errors.New("wire: signer is not a required signer of this transaction")

// Transaction 是一次解析产生的不可变值对象；
// 唯一允许的原地修改是签名槽位的写入（见 PlaceSignature）。
type Transaction struct {
	Signatures []types.Signature
	Message    Message
}

// DeserializeTransaction 从线上字节解析完整交易。
// 结构解析完成后执行 Message.Validate 的索引/去重校验；
// 任何截断、越界、不支持版本均返回 error，绝不 panic。
func DeserializeTransaction(data []byte) (*Transaction, error) {
	cur := codec.NewCursor(data)

	sigCount, err := cur.ReadShortVecLen()
	if err != nil {
		return nil, fmt.Errorf("decode signature count: %w", err)
	}
	if sigCount > cur.Remaining()/types.SignatureLen {
		return nil, fmt.Errorf("signatures: %w", codec.ErrShortBuffer)
	}
	sigs := make([]types.Signature, 0, sigCount)
	for i := 0; i < sigCount; i++ {
		raw, err := cur.ReadBytes(types.SignatureLen)
		if err != nil {
			return nil, fmt.Errorf("read signature %d: %w", i, err)
		}
		var sig types.Signature
		copy(sig[:], raw)
		sigs = append(sigs, sig)
	}

	msg, err := deserializeMessage(cur)
	if err != nil {
		return nil, err
	}
	if cur.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingBytes, cur.Remaining())
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return &Transaction{Signatures: sigs, Message: msg}, nil
}

// Serialize 输出交易的线上字节，和 DeserializeTransaction 逐字节互逆
func (tx *Transaction) Serialize() []byte {
	msgBytes := tx.Message.Serialize()
	out := make([]byte, 0, 3+len(tx.Signatures)*types.SignatureLen+len(msgBytes))
	out = codec.AppendShortVecLen(out, len(tx.Signatures))
	for _, sig := range tx.Signatures {
		out = append(out, sig[:]...)
	}
	return append(out, msgBytes...)
}

// SignerSlot 返回 signer 对应的签名槽位下标；
// 仅在 signer 位于前 NumRequiredSignatures 个静态账户中时有效。
func (tx *Transaction) SignerSlot(signer types.Pubkey) (int, error) {
	required := int(tx.Message.Header.NumRequiredSignatures)
	if required > len(tx.Message.AccountKeys) {
		required = len(tx.Message.AccountKeys)
	}
	for i := 0; i < required; i++ {
		if tx.Message.AccountKeys[i] == signer {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrSignerNotFound, signer)
}

// PlaceSignature 将签名写入 signer 对应的槽位（必要时扩展签名列表到要求长度）
func (tx *Transaction) PlaceSignature(signer types.Pubkey, sig types.Signature) error {
	slot, err := tx.SignerSlot(signer)
	if err != nil {
		return err
	}
	for len(tx.Signatures) < int(tx.Message.Header.NumRequiredSignatures) {
		tx.Signatures = append(tx.Signatures, types.Signature{})
	}
	tx.Signatures[slot] = sig
	return nil
}
