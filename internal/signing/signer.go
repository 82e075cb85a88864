package signing

import (
	"fmt"

	"tx-inspector-sol/internal/types"
	"tx-inspector-sol/internal/wire"
)

// Signer 是外部签名能力：对消息字节产生一个 Ed25519 签名。
// 密钥保管、助记词派生与签名原语均由宿主实现，本模块不触碰。
type Signer interface {
	Pubkey() types.Pubkey
	Sign(message []byte) (types.Signature, error)
}

// Verifier 是外部验签能力
type Verifier func(message []byte, sig types.Signature, key types.Pubkey) bool

// SignTransaction 序列化消息、调用签名器，并把签名原地写入
// signer 对应的签名槽位。signer 不是必要签名者时返回错误、交易不变。
// 同一 Transaction 值不得被并发签名。
func SignTransaction(tx *wire.Transaction, signer Signer) (types.Signature, error) {
	// 先确认槽位存在再做昂贵的签名调用
	if _, err := tx.SignerSlot(signer.Pubkey()); err != nil {
		return types.Signature{}, err
	}

	msgBytes := tx.Message.Serialize()
	sig, err := signer.Sign(msgBytes)
	if err != nil {
		return types.Signature{}, fmt.Errorf("sign message: %w", err)
	}
	if err := tx.PlaceSignature(signer.Pubkey(), sig); err != nil {
		return types.Signature{}, err
	}
	return sig, nil
}

// VerifySignature 用外部验签能力核对某签名者槽位上的签名
func VerifySignature(tx *wire.Transaction, signer types.Pubkey, verify Verifier) (bool, error) {
	slot, err := tx.SignerSlot(signer)
	if err != nil {
		return false, err
	}
	if slot >= len(tx.Signatures) || tx.Signatures[slot].IsZero() {
		return false, nil
	}
	return verify(tx.Message.Serialize(), tx.Signatures[slot], signer), nil
}
