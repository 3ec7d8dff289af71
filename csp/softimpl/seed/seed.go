// Package seed 实现 KISA 标准化的 SEED 分组密码（RFC 4269），分组长度 128 位，密钥长度 128 位或 256 位。
//
// NewCipher 返回的 cipher.Block 只处理单个 16 字节分组，工作模式、填充与流式处理由 mode、padding、session 包负责。
package seed

import (
	"crypto/cipher"
	"encoding/binary"

	"github.com/zhangsob/zeed/errors"
)

// BlockSize SEED 的分组长度（字节）。
const BlockSize = 16

// KeySize 表示密钥的位数。
type KeySize int

const (
	KeySize128 KeySize = 128
	KeySize256 KeySize = 256
)

// Bytes 返回该位数对应的密钥字节数。
func (ks KeySize) Bytes() int {
	return int(ks) / 8
}

// Valid 判断密钥位数是否受支持。
func (ks KeySize) Valid() bool {
	return ks == KeySize128 || ks == KeySize256
}

func (ks KeySize) String() string {
	switch ks {
	case KeySize128:
		return "SEED128"
	case KeySize256:
		return "SEED256"
	default:
		return "SEED?"
	}
}

type seedCipher struct {
	rk []uint32
}

// NewCipher 根据密钥长度（16 或 32 字节）选择 SEED-128 或 SEED-256。
func NewCipher(key []byte) (cipher.Block, error) {
	switch len(key) {
	case KeySize128.Bytes():
		return NewCipherWithKeySize(key, KeySize128)
	case KeySize256.Bytes():
		return NewCipherWithKeySize(key, KeySize256)
	default:
		return nil, errors.Newf(errors.KindKeyLength, "invalid SEED key, the length of the key must be 16 or 32, but got \"%d\"", len(key))
	}
}

// NewCipherWithKeySize 按照指定的密钥位数派生子密钥，密钥长度必须与位数严格一致。
func NewCipherWithKeySize(key []byte, ks KeySize) (cipher.Block, error) {
	if !ks.Valid() {
		return nil, errors.Newf(errors.KindUnsupportedKeySize, "the supported key sizes contain [128, 256], but got \"%d\"", int(ks))
	}
	if len(key) == 0 {
		return nil, errors.New(errors.KindKeyLength, "invalid SEED key, nil key")
	}
	if len(key) != ks.Bytes() {
		return nil, errors.Newf(errors.KindKeyLength, "invalid SEED key, the length of the key must be \"%d\", but got \"%d\"", ks.Bytes(), len(key))
	}

	c := &seedCipher{}
	if ks == KeySize128 {
		c.rk = expandKey128(key)
	} else {
		c.rk = expandKey256(key)
	}
	return c, nil
}

func (c *seedCipher) BlockSize() int {
	return BlockSize
}

func (c *seedCipher) Encrypt(dst, src []byte) {
	checkBlock(dst, src)
	l0 := binary.BigEndian.Uint32(src[0:])
	l1 := binary.BigEndian.Uint32(src[4:])
	r0 := binary.BigEndian.Uint32(src[8:])
	r1 := binary.BigEndian.Uint32(src[12:])

	for i := 0; i+3 < len(c.rk); i += 4 {
		l0, l1 = round(l0, l1, r0, r1, c.rk[i], c.rk[i+1])
		r0, r1 = round(r0, r1, l0, l1, c.rk[i+2], c.rk[i+3])
	}

	putBlock(dst, r0, r1, l0, l1)
}

func (c *seedCipher) Decrypt(dst, src []byte) {
	checkBlock(dst, src)
	l0 := binary.BigEndian.Uint32(src[0:])
	l1 := binary.BigEndian.Uint32(src[4:])
	r0 := binary.BigEndian.Uint32(src[8:])
	r1 := binary.BigEndian.Uint32(src[12:])

	for i := len(c.rk); i > 3; i -= 4 {
		l0, l1 = round(l0, l1, r0, r1, c.rk[i-2], c.rk[i-1])
		r0, r1 = round(r0, r1, l0, l1, c.rk[i-4], c.rk[i-3])
	}

	putBlock(dst, r0, r1, l0, l1)
}

// round 用 (r0,r1) 与一对子密钥计算 F 函数，结果异或进 (l0,l1) 后返回。
// 三次 G 与两次模加的顺序不可交换。
func round(l0, l1, r0, r1, k0, k1 uint32) (uint32, uint32) {
	t0 := r0 ^ k0
	t1 := r1 ^ k1
	t1 ^= t0
	t1 = g(t1)
	t0 += t1
	t0 = g(t0)
	t1 += t0
	t1 = g(t1)
	t0 += t1
	return l0 ^ t0, l1 ^ t1
}

func putBlock(dst []byte, w0, w1, w2, w3 uint32) {
	binary.BigEndian.PutUint32(dst[0:], w0)
	binary.BigEndian.PutUint32(dst[4:], w1)
	binary.BigEndian.PutUint32(dst[8:], w2)
	binary.BigEndian.PutUint32(dst[12:], w3)
}

func checkBlock(dst, src []byte) {
	if len(src) < BlockSize {
		panic("seed: input not full block")
	}
	if len(dst) < BlockSize {
		panic("seed: output not full block")
	}
}
