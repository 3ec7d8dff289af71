package symmetric

import (
	"strings"

	"github.com/zhangsob/zeed/csp/softimpl/mode"
	"github.com/zhangsob/zeed/csp/softimpl/padding"
	"github.com/zhangsob/zeed/csp/softimpl/seed"
	"github.com/zhangsob/zeed/errors"
)

/* ------------------------------------------------------------------------------------------ */

const (
	SEED = "SEED"
)

/* ------------------------------------------------------------------------------------------ */

// Option 可以组合使用的开关。
type Option uint32

const (
	// None 清除所有开关。
	None Option = 0
	// DecryptEmptyPaddingOK 解密时最后一个分组没有合法的填充长度也不报错，什么都不去掉。
	DecryptEmptyPaddingOK Option = 1 << 0
	// DecodeIgnoreWhitespace 文本解码时忽略空白字符，否则空白字符视为非法字符。
	DecodeIgnoreWhitespace Option = 1 << 1
)

func (o Option) String() string {
	if o == None {
		return "NONE"
	}
	var names []string
	if o&DecryptEmptyPaddingOK != 0 {
		names = append(names, "DECRYPT_EMPTY_PADDING_OK")
	}
	if o&DecodeIgnoreWhitespace != 0 {
		names = append(names, "DECODE_IGNORE_WHITESPACE")
	}
	return strings.Join(names, "|")
}

// ParseOption 给定开关的名字（不区分大小写），返回对应的 Option。
func ParseOption(name string) (Option, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "NONE":
		return None, nil
	case "DECRYPT_EMPTY_PADDING_OK":
		return DecryptEmptyPaddingOK, nil
	case "DECODE_IGNORE_WHITESPACE":
		return DecodeIgnoreWhitespace, nil
	default:
		return None, errors.Newf(errors.KindConfig, "the supported options contain [NONE, DECRYPT_EMPTY_PADDING_OK, DECODE_IGNORE_WHITESPACE], but got \"%s\"", name)
	}
}

/* ------------------------------------------------------------------------------------------ */

// SEEDModeOpts 加解密选项。IV 在 CBC 模式下是初始向量，在 CTR 模式下是初始计数器，为空时使用 16 个 0x00。
type SEEDModeOpts struct {
	Mode    mode.Mode
	Padding padding.Scheme
	IV      []byte
	Options Option
}

/* ------------------------------------------------------------------------------------------ */

// SEEDKeyDerivOpts 以 Arg 为消息对原密钥做 HMAC，派生出同样长度的新密钥。
type SEEDKeyDerivOpts struct {
	Arg []byte
}

func (opts *SEEDKeyDerivOpts) Algorithm() string {
	return SEED
}

func (opts *SEEDKeyDerivOpts) Argument() []byte {
	return opts.Arg
}

/* ------------------------------------------------------------------------------------------ */

// SEEDKeyImportOpts 导入 []byte 或 string 形式的密钥。
// KeySize 为 0 时，[]byte 按长度推断位数，string 按 128 位处理。
type SEEDKeyImportOpts struct {
	KeySize    seed.KeySize
	Exportable bool
}

func (opts *SEEDKeyImportOpts) Algorithm() string {
	return SEED
}

/* ------------------------------------------------------------------------------------------ */

// SEEDPEMKeyImportOpts 导入 utils.SEEDToPEM 生成的 PEM 密钥。
type SEEDPEMKeyImportOpts struct {
	Exportable bool
}

func (opts *SEEDPEMKeyImportOpts) Algorithm() string {
	return SEED
}
