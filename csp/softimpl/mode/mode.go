// Package mode 把单分组变换包装成带链接状态的工作模式：ECB、CBC、CTR。
package mode

import (
	"crypto/cipher"
	"strings"

	"github.com/zhangsob/zeed/errors"
)

// Mode 分组密码的工作模式。
type Mode int

const (
	ECB Mode = iota
	CBC
	CTR
)

func (m Mode) String() string {
	switch m {
	case ECB:
		return "ECB"
	case CBC:
		return "CBC"
	case CTR:
		return "CTR"
	default:
		return "UNKNOWN"
	}
}

// Valid 判断工作模式是否受支持。
func (m Mode) Valid() bool {
	return m == ECB || m == CBC || m == CTR
}

// Chained 返回 true 表示该模式需要初始向量或计数器。
func (m Mode) Chained() bool {
	return m == CBC || m == CTR
}

// ParseMode 给定工作模式的名字（不区分大小写），返回对应的 Mode。
func ParseMode(name string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ECB":
		return ECB, nil
	case "CBC":
		return CBC, nil
	case "CTR":
		return CTR, nil
	default:
		return 0, errors.Newf(errors.KindUnsupportedMode, "the supported modes contain [ECB, CBC, CTR], but got \"%s\"", name)
	}
}

// NewEncrypter 返回一个加密方向的 cipher.BlockMode，链接状态在多次 CryptBlocks 调用之间保持。
// seed 对 CBC 而言是初始向量，对 CTR 而言是初始计数器，对 ECB 无意义；seed 为空时使用 16 个 0x00。
func NewEncrypter(m Mode, b cipher.Block, seed []byte) (cipher.BlockMode, error) {
	seed, err := chainingSeed(m, b, seed)
	if err != nil {
		return nil, err
	}

	switch m {
	case ECB:
		return &ecbEncrypter{b: b}, nil
	case CBC:
		return cipher.NewCBCEncrypter(b, seed), nil
	default:
		return newCTR(b, seed), nil
	}
}

// NewDecrypter 返回一个解密方向的 cipher.BlockMode。CBC 解密时新的链接状态是刚消费的密文而不是明文。
func NewDecrypter(m Mode, b cipher.Block, seed []byte) (cipher.BlockMode, error) {
	seed, err := chainingSeed(m, b, seed)
	if err != nil {
		return nil, err
	}

	switch m {
	case ECB:
		return &ecbDecrypter{b: b}, nil
	case CBC:
		return cipher.NewCBCDecrypter(b, seed), nil
	default:
		// CTR 的两个方向完全相同：加密计数器得到密钥流，再与数据异或。
		return newCTR(b, seed), nil
	}
}

// chainingSeed 校验并复制初始向量或计数器，调用方之后修改 seed 不会影响进行中的流。
func chainingSeed(m Mode, b cipher.Block, seed []byte) ([]byte, error) {
	if !m.Valid() {
		return nil, errors.Newf(errors.KindUnsupportedMode, "the supported modes contain [ECB, CBC, CTR], but got \"%d\"", int(m))
	}
	if b == nil {
		return nil, errors.New(errors.KindKeyLength, "invalid block cipher, nil block cipher")
	}

	bs := b.BlockSize()
	if !m.Chained() {
		return nil, nil
	}
	if len(seed) == 0 {
		return make([]byte, bs), nil
	}
	if len(seed) != bs {
		if m == CBC {
			return nil, errors.Newf(errors.KindIVLength, "InitialVector length != %d", bs)
		}
		return nil, errors.Newf(errors.KindCounterLength, "Counter length != %d", bs)
	}
	return append([]byte(nil), seed...), nil
}

/* ------------------------------------------------------------------------------------------ */

type ecbEncrypter struct {
	b cipher.Block
}

func (x *ecbEncrypter) BlockSize() int {
	return x.b.BlockSize()
}

func (x *ecbEncrypter) CryptBlocks(dst, src []byte) {
	checkBlocks(x.b.BlockSize(), dst, src)
	bs := x.b.BlockSize()
	for i := 0; i < len(src); i += bs {
		x.b.Encrypt(dst[i:i+bs], src[i:i+bs])
	}
}

type ecbDecrypter struct {
	b cipher.Block
}

func (x *ecbDecrypter) BlockSize() int {
	return x.b.BlockSize()
}

func (x *ecbDecrypter) CryptBlocks(dst, src []byte) {
	checkBlocks(x.b.BlockSize(), dst, src)
	bs := x.b.BlockSize()
	for i := 0; i < len(src); i += bs {
		x.b.Decrypt(dst[i:i+bs], src[i:i+bs])
	}
}

func checkBlocks(bs int, dst, src []byte) {
	if len(src)%bs != 0 {
		panic("mode: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("mode: output smaller than input")
	}
}
