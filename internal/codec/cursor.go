package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"tx-inspector-sol/internal/types"
)

// ErrShortBuffer 表示读取越过剩余缓冲区边界（输入被截断或长度前缀不可信）
var ErrShortBuffer = errors.New("codec: short buffer")

// Cursor 是面向不可信二进制输入的前向游标读取器。
// 所有 Read/Skip 方法先做剩余长度检查再切片，任何失败返回 error，绝不 panic。
// 底层 buf 只读共享，不做拷贝；需要留存的数据由调用方自行 copy。
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// require 校验剩余空间是否足够读取 n 字节
func (c *Cursor) require(n int) error {
	if n < 0 || c.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, c.pos, c.Remaining())
	}
	return nil
}

func (c *Cursor) ReadU8() (byte, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// PeekU8 读取下一字节但不前进游标
func (c *Cursor) PeekU8() (byte, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	return c.buf[c.pos], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	if err := c.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

// ReadBytes 返回底层缓冲区的只读视图，不拷贝
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) Skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

func (c *Cursor) ReadPubkey() (types.Pubkey, error) {
	var p types.Pubkey
	b, err := c.ReadBytes(32)
	if err != nil {
		return p, err
	}
	copy(p[:], b)
	return p, nil
}

func (c *Cursor) ReadHash() (types.Hash, error) {
	var h types.Hash
	b, err := c.ReadBytes(32)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

// ReadShortVecLen 从当前位置解码一个 shortvec 长度并前进
func (c *Cursor) ReadShortVecLen() (int, error) {
	n, size, err := DecodeShortVecLen(c.buf[c.pos:])
	if err != nil {
		return 0, fmt.Errorf("at offset %d: %w", c.pos, err)
	}
	c.pos += size
	return n, nil
}
