package symmetric

import (
	"crypto/hmac"

	"github.com/zhangsob/zeed/csp/interfaces"
	"github.com/zhangsob/zeed/csp/softimpl/config"
	"github.com/zhangsob/zeed/errors"
)

/* ------------------------------------------------------------------------------------------ */

type SEEDKeyDeriver struct {
	config *config.Config
}

func NewSEEDKeyDeriver(c *config.Config) *SEEDKeyDeriver {
	return &SEEDKeyDeriver{config: c}
}

// KeyDeriv 派生出的密钥与原密钥位数相同，并且不可导出。
func (kd *SEEDKeyDeriver) KeyDeriv(key interfaces.Key, opts interfaces.KeyDerivOpts) (interfaces.Key, error) {
	if opts == nil {
		return nil, errors.NewError("invalid opts parameter, nil opts parameter")
	}
	if kd.config == nil || kd.config.HashFunc() == nil {
		return nil, errors.New(errors.KindConfig, "the security level of the key deriver is not set")
	}

	seedK, ok := key.(*SEEDKey)
	if !ok {
		return nil, errors.NewErrorf("invalid key, expected *SEEDKey, but got \"%T\"", key)
	}

	switch o := opts.(type) {
	case *SEEDKeyDerivOpts:
		mac := hmac.New(kd.config.HashFunc(), seedK.key)
		mac.Write(o.Argument())
		return &SEEDKey{
			key:        mac.Sum(nil)[:seedK.size.Bytes()],
			size:       seedK.size,
			exportable: false,
			hashFunc:   kd.config.HashFunc(),
		}, nil
	default:
		return nil, errors.NewErrorf("the supported options contain [*SEEDKeyDerivOpts], but got \"%T\"", opts)
	}
}
