package codec

import "errors"

// Solana compact-u16（shortvec）编码：
// 长度按 7 bit 一组小端排列，除最后一字节外均置 0x80 续读位。
// u16 值域最多占用 3 字节，第 3 字节仍带续读位视为非法编码。
const maxShortVecBytes = 3

var (
	ErrShortVecTruncated = errors.New("shortvec: truncated continuation sequence")
	ErrShortVecTooLong   = errors.New("shortvec: encoding exceeds 3 bytes")
)

// AppendShortVecLen 将长度 n 的 shortvec 编码追加到 dst 并返回
func AppendShortVecLen(dst []byte, n int) []byte {
	v := uint32(n)
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v == 0 {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

// EncodeShortVecLen 返回长度 n 的 shortvec 编码（1~3 字节）
func EncodeShortVecLen(n int) []byte {
	return AppendShortVecLen(make([]byte, 0, maxShortVecBytes), n)
}

// DecodeShortVecLen 从 buf 头部解码一个 shortvec 长度。
// 返回解出的值与消耗的字节数；编码超过 3 字节或续读位悬空时返回错误，绝不越界。
func DecodeShortVecLen(buf []byte) (int, int, error) {
	value := 0
	for i := 0; i < maxShortVecBytes; i++ {
		if i >= len(buf) {
			return 0, 0, ErrShortVecTruncated
		}
		b := buf[i]
		value |= int(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, ErrShortVecTooLong
}
