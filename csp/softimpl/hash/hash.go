package hash

import (
	"hash"

	"github.com/zhangsob/zeed/csp/interfaces"
	"github.com/zhangsob/zeed/errors"
)

// Hasher 包装一个哈希函数构造器，每个哈希选项类型注册一个 Hasher。
type Hasher struct {
	hash func() hash.Hash
}

func NewHasher(hash func() hash.Hash) *Hasher {
	return &Hasher{hash: hash}
}

func (h *Hasher) Hash(msg []byte, opts interfaces.HashOpts) ([]byte, error) {
	if h.hash == nil {
		return nil, errors.Newf(errors.KindConfig, "no hash function for option \"%T\"", opts)
	}
	hashFunc := h.hash()
	hashFunc.Write(msg)
	return hashFunc.Sum(nil), nil
}

func (h *Hasher) GetHash(opts interfaces.HashOpts) (hash.Hash, error) {
	if h.hash == nil {
		return nil, errors.Newf(errors.KindConfig, "no hash function for option \"%T\"", opts)
	}
	return h.hash(), nil
}
