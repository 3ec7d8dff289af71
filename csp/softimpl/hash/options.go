package hash

import (
	"github.com/zhangsob/zeed/csp/interfaces"
	"github.com/zhangsob/zeed/errors"
)

/* ------------------------------------------------------------------------------------------ */

const (
	SHA256   = "SHA256"
	SHA384   = "SHA384"
	SHA3_256 = "SHA3_256"
	SHA3_384 = "SHA3_384"
)

/* ------------------------------------------------------------------------------------------ */

func GetHashOpt(hashFunc string) (interfaces.HashOpts, error) {
	switch hashFunc {
	case SHA256:
		return &SHA256Opts{}, nil
	case SHA384:
		return &SHA384Opts{}, nil
	case SHA3_256:
		return &SHA3_256Opts{}, nil
	case SHA3_384:
		return &SHA3_384Opts{}, nil
	default:
		return nil, errors.Newf(errors.KindConfig, "hash function \"%s\" is not recognized", hashFunc)
	}
}

// ConfiguredOpts 返回与安全级别、哈希族对应的哈希选项，例如 (384, "SHA3") 对应 *SHA3_384Opts。
func ConfiguredOpts(securityLevel int, hashFamily string) (interfaces.HashOpts, error) {
	switch {
	case hashFamily == "SHA2" && securityLevel == 256:
		return &SHA256Opts{}, nil
	case hashFamily == "SHA2" && securityLevel == 384:
		return &SHA384Opts{}, nil
	case hashFamily == "SHA3" && securityLevel == 256:
		return &SHA3_256Opts{}, nil
	case hashFamily == "SHA3" && securityLevel == 384:
		return &SHA3_384Opts{}, nil
	default:
		return nil, errors.Newf(errors.KindConfig, "no hash function for security level \"%d\" and hash family \"%s\"", securityLevel, hashFamily)
	}
}

/* ------------------------------------------------------------------------------------------ */

type SHA256Opts struct{}

func (opts *SHA256Opts) Algorithm() string {
	return SHA256
}

type SHA384Opts struct{}

func (opts *SHA384Opts) Algorithm() string {
	return SHA384
}

type SHA3_256Opts struct{}

func (opts *SHA3_256Opts) Algorithm() string {
	return SHA3_256
}

type SHA3_384Opts struct{}

func (opts *SHA3_384Opts) Algorithm() string {
	return SHA3_384
}
