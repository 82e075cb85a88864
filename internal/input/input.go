package input

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mr-tron/base58"

	"tx-inspector-sol/internal/wire"
)

// MaxInputSize 原始输入上限（1 MiB）。交易本身不过 1232 字节，
// 上限只为防住把整块磁盘喂进来的误用/滥用。
const MaxInputSize = 1 << 20

var (
	ErrTooLarge   = errors.New("input: raw input exceeds size limit")
	ErrUndetected = errors.New("input: not valid transaction json, base64 or base58")
)

// Kind 标识检测出的文本形态
type Kind string

const (
	KindJSON   Kind = "json"
	KindBase64 Kind = "base64"
	KindBase58 Kind = "base58"
)

// Detect 自动识别三种文本形态并解析交易，检测顺序固定：
//  1. 结构化 JSON（camelCase 字段）；
//  2. 线上字节的 base64（长度 %4==0、字符集合法、可解码）；
//  3. JSON 文本的 base58。
func Detect(raw []byte) (*wire.Transaction, Kind, error) {
	if len(raw) > MaxInputSize {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(raw))
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, "", ErrUndetected
	}

	// JSON 文本不可能同时是合法 base64/base58，直接定型
	if trimmed[0] == '{' {
		var tx wire.Transaction
		if err := json.Unmarshal(trimmed, &tx); err != nil {
			return nil, KindJSON, fmt.Errorf("parse transaction json: %w", err)
		}
		return &tx, KindJSON, nil
	}

	if isBase64Shaped(trimmed) {
		if decoded, err := base64.StdEncoding.DecodeString(string(trimmed)); err == nil {
			tx, err := wire.DeserializeTransaction(decoded)
			if err == nil {
				return tx, KindBase64, nil
			}
			// base64 形状成立但内容不是交易：继续尝试 base58
		}
	}

	decoded, err := base58.Decode(string(trimmed))
	if err != nil {
		return nil, "", ErrUndetected
	}
	var tx wire.Transaction
	if err := json.Unmarshal(decoded, &tx); err != nil {
		return nil, KindBase58, fmt.Errorf("parse base58-wrapped json: %w", err)
	}
	return &tx, KindBase58, nil
}

// ReadFile 读取输入文件，先查大小再读，避免读入超限内容
func ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat input file: %w", err)
	}
	if info.Size() > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return data, nil
}

func isBase64Shaped(data []byte) bool {
	if len(data)%4 != 0 {
		return false
	}
	for _, c := range data {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '+', c == '/', c == '=':
		default:
			return false
		}
	}
	return true
}
