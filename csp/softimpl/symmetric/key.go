package symmetric

import (
	"crypto/sha256"
	"hash"

	"github.com/zhangsob/zeed/csp/interfaces"
	"github.com/zhangsob/zeed/csp/softimpl/seed"
	"github.com/zhangsob/zeed/csp/softimpl/utils"
	"github.com/zhangsob/zeed/errors"
)

type SEEDKey struct {
	key        []byte
	size       seed.KeySize
	exportable bool
	hashFunc   func() hash.Hash
}

// NewSEEDKey 按照 key 的长度（16 或 32 字节）构造一个可导出的密钥。
func NewSEEDKey(key []byte) (interfaces.Key, error) {
	var ks seed.KeySize
	switch len(key) {
	case 16:
		ks = seed.KeySize128
	case 32:
		ks = seed.KeySize256
	default:
		return nil, errors.Newf(errors.KindKeyLength, "invalid SEED key, the length of the key must be 16 or 32, but got \"%d\"", len(key))
	}
	return &SEEDKey{key: append([]byte(nil), key...), size: ks, exportable: true}, nil
}

func SEEDKeyToPEM(key *SEEDKey) []byte {
	return utils.SEEDToPEM(key.key)
}

// Bytes 返回 SEED 密钥自身，派生出来的密钥不可导出。
func (key *SEEDKey) Bytes() ([]byte, error) {
	if key.exportable {
		return append([]byte(nil), key.key...), nil
	}

	return nil, errors.NewError("this SEED key cannot be exported")
}

// KeySize 返回密钥的位数。
func (key *SEEDKey) KeySize() seed.KeySize {
	return key.size
}

// SKI 是密钥的哈希值，哈希函数由 csp 的安全级别决定，未设置时使用 SHA256。
func (key *SEEDKey) SKI() []byte {
	hf := key.hashFunc
	if hf == nil {
		hf = sha256.New
	}
	hashFunc := hf()
	hashFunc.Write(key.key)
	return hashFunc.Sum(nil)
}

func (key *SEEDKey) Symmetric() bool {
	return true
}
