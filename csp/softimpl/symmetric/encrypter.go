package symmetric

import (
	"github.com/zhangsob/zeed/csp/interfaces"
	"github.com/zhangsob/zeed/csp/softimpl/mode"
	"github.com/zhangsob/zeed/errors"
)

/* ------------------------------------------------------------------------------------------ */

type SEEDEncrypter struct{}

func NewSEEDEncrypter() *SEEDEncrypter {
	return &SEEDEncrypter{}
}

// Encrypt 此方法的第三个参数 EncrypterOpts 要么是 *SEEDModeOpts，要么是 SEEDModeOpts。
func (encrypter *SEEDEncrypter) Encrypt(key interfaces.Key, plaintext []byte, opts interfaces.EncrypterOpts) ([]byte, error) {
	switch o := opts.(type) {
	case *SEEDModeOpts:
		e, err := engineFor(key, o)
		if err != nil {
			return nil, err
		}
		return e.Encrypt(plaintext)
	case SEEDModeOpts:
		return encrypter.Encrypt(key, plaintext, &o)
	default:
		return nil, errors.NewErrorf("encryption option \"%T\" is not recognized", opts)
	}
}

/* ------------------------------------------------------------------------------------------ */

type SEEDDecrypter struct{}

func NewSEEDDecrypter() *SEEDDecrypter {
	return &SEEDDecrypter{}
}

// Decrypt 此方法的第三个参数 DecrypterOpts 要么是 *SEEDModeOpts，要么是 SEEDModeOpts。
func (decrypter *SEEDDecrypter) Decrypt(key interfaces.Key, ciphertext []byte, opts interfaces.DecrypterOpts) ([]byte, error) {
	switch o := opts.(type) {
	case *SEEDModeOpts:
		e, err := engineFor(key, o)
		if err != nil {
			return nil, err
		}
		return e.Decrypt(ciphertext)
	case SEEDModeOpts:
		return decrypter.Decrypt(key, ciphertext, &o)
	default:
		return nil, errors.NewErrorf("decryption option \"%T\" is not recognized", opts)
	}
}

/* ------------------------------------------------------------------------------------------ */

func engineFor(key interfaces.Key, opts *SEEDModeOpts) (*Engine, error) {
	seedK, ok := key.(*SEEDKey)
	if !ok {
		return nil, errors.NewErrorf("invalid key, expected *SEEDKey, but got \"%T\"", key)
	}

	e, err := NewEngine(opts.Mode, seedK.size, opts.Padding)
	if err != nil {
		return nil, err
	}
	if err = e.SetKey(seedK.key); err != nil {
		return nil, err
	}
	e.SetOption(opts.Options)
	if len(opts.IV) != 0 {
		switch e.Mode() {
		case mode.CBC:
			err = e.SetInitialVector(opts.IV)
		case mode.CTR:
			err = e.SetCounter(opts.IV)
		}
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}
