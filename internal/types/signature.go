package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// SignatureLen 是 Ed25519 签名固定长度（字节）
const SignatureLen = 64

type Signature [SignatureLen]byte

func (s Signature) String() string {
	return base58.Encode(s[:])
}

// IsZero 判断签名槽位是否仍为空（未签名的占位值）
func (s Signature) IsZero() bool {
	return s == Signature{}
}

func SignatureFromBase58(str string) (Signature, error) {
	var s Signature
	data, err := base58.Decode(str)
	if err != nil {
		return s, fmt.Errorf("failed to decode base58 signature: %w", err)
	}
	if len(data) != SignatureLen {
		return s, fmt.Errorf("invalid signature length: got %d, want %d", len(data), SignatureLen)
	}
	copy(s[:], data)
	return s, nil
}

func SignatureFromBytes(data []byte) (Signature, error) {
	var s Signature
	if len(data) != SignatureLen {
		return s, fmt.Errorf("invalid signature length: got %d, want %d", len(data), SignatureLen)
	}
	copy(s[:], data)
	return s, nil
}
