// Package proof 把用户输入的证明文本和公开输入转换为验证合约需要的参数
package proof

import (
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/weisyn/zkverify/client/core/zkerrors"
)

// Format 证明文本格式
type Format string

const (
	FormatAuto    Format = "auto"    // 自动识别：0x前缀→hex，'{'开头→snarkjs，其余→原始文本
	FormatHex     Format = "hex"     // 0x前缀的十六进制字节
	FormatText    Format = "text"    // 原始文本的UTF-8字节
	FormatSnarkJS Format = "snarkjs" // snarkjs Groth16 proof.json
)

// ParseFormat 解析格式名，空字符串视为 auto
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatHex, FormatText, FormatSnarkJS:
		return f, nil
	default:
		return "", zkerrors.New(zkerrors.KindInvalidProofEncoding, "proof.parseFormat", "unknown proof format "+s, nil)
	}
}

// Encoder 证明编码器
// 每次提交都应重新调用 Encode，编码结果不缓存
type Encoder struct {
	format Format
}

// NewEncoder 创建证明编码器
func NewEncoder(format Format) *Encoder {
	if format == "" {
		format = FormatAuto
	}
	return &Encoder{format: format}
}

// Encode 把证明文本编码为合约期望的字节
func (e *Encoder) Encode(text string) ([]byte, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, invalidProof("proof is empty", nil)
	}

	format := e.format
	if format == FormatAuto {
		format = detectFormat(trimmed)
	}

	switch format {
	case FormatHex:
		return decodeHex(trimmed)
	case FormatSnarkJS:
		return encodeSnarkJS([]byte(trimmed))
	case FormatText:
		if !utf8.ValidString(text) {
			return nil, invalidProof("proof text is not valid UTF-8", nil)
		}
		return []byte(text), nil
	default:
		return nil, invalidProof("unknown proof format "+string(format), nil)
	}
}

// detectFormat 根据文本前缀识别格式
func detectFormat(trimmed string) Format {
	switch {
	case strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X"):
		return FormatHex
	case strings.HasPrefix(trimmed, "{"):
		return FormatSnarkJS
	default:
		return FormatText
	}
}

// decodeHex 解码0x前缀的十六进制文本
func decodeHex(trimmed string) ([]byte, error) {
	data, err := hexutil.Decode(trimmed)
	if err != nil {
		return nil, invalidProof("malformed hex proof", err)
	}
	if len(data) == 0 {
		return nil, invalidProof("hex proof has no bytes", nil)
	}
	return data, nil
}

func invalidProof(reason string, err error) error {
	return zkerrors.New(zkerrors.KindInvalidProofEncoding, "proof.encode", reason, err)
}
