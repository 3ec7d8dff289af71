package mode

import (
	"crypto/cipher"

	"github.com/zhangsob/zeed/errors"
)

// ctr 计数器模式。计数器按 128 位大端整数递增，全 0xFF 之后回绕到全 0x00，不报错。
type ctr struct {
	b       cipher.Block
	counter []byte
	stream  []byte
	used    int
}

func newCTR(b cipher.Block, counter []byte) *ctr {
	bs := b.BlockSize()
	return &ctr{
		b:       b,
		counter: counter,
		stream:  make([]byte, bs),
		used:    bs,
	}
}

func (x *ctr) BlockSize() int {
	return x.b.BlockSize()
}

// CryptBlocks 每个分组消耗一个计数器值。
func (x *ctr) CryptBlocks(dst, src []byte) {
	checkBlocks(x.b.BlockSize(), dst, src)
	bs := x.b.BlockSize()
	for i := 0; i < len(src); i += bs {
		x.b.Encrypt(x.stream, x.counter)
		increment(x.counter)
		for j := 0; j < bs; j++ {
			dst[i+j] = src[i+j] ^ x.stream[j]
		}
	}
	x.used = bs
}

// XORKeyStream 对任意长度的数据异或密钥流，未用完的密钥流留给下一次调用。
func (x *ctr) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("mode: output smaller than input")
	}
	bs := x.b.BlockSize()
	for i := range src {
		if x.used == bs {
			x.b.Encrypt(x.stream, x.counter)
			increment(x.counter)
			x.used = 0
		}
		dst[i] = src[i] ^ x.stream[x.used]
		x.used++
	}
}

// increment 把 counter 视为大端整数加一。
func increment(counter []byte) {
	for i := len(counter) - 1; i >= 0; i-- {
		counter[i]++
		if counter[i] != 0 {
			return
		}
	}
}

// NewCTRStream 返回不带填充的 CTR 密钥流，适用于任意长度的数据，加密与解密是同一个操作。
func NewCTRStream(b cipher.Block, counter []byte) (cipher.Stream, error) {
	counter, err := chainingSeed(CTR, b, counter)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating CTR stream")
	}
	return newCTR(b, counter), nil
}
