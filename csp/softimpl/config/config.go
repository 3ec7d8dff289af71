package config

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/zhangsob/zeed/errors"
	"golang.org/x/crypto/sha3"
)

// Config 决定密钥派生（HMAC）与密钥标识符（SKI）使用的哈希函数。
type Config struct {
	securityLevel int
	hashFamily    string
	hashFunc      func() hash.Hash
}

func NewConfig() *Config {
	return &Config{}
}

func (c *Config) HashFunc() func() hash.Hash {
	return c.hashFunc
}

func (c *Config) SecurityLevel() int {
	return c.securityLevel
}

func (c *Config) HashFamily() string {
	return c.hashFamily
}

// SetSecurityLevel 设置哈希函数的安全级别，securityLevel 可取的值包括 256 和 384，hashFamily 可取的值
// 包括 SHA2 和 SHA3。
//
//	SHA2
//		256：sha256.New
//		384：sha512.New384
//
//	SHA3
//		256：sha3.New256
//		384：sha3.New384
func (c *Config) SetSecurityLevel(securityLevel int, hashFamily string) error {
	var hf func() hash.Hash
	switch hashFamily {
	case "SHA2":
		switch securityLevel {
		case 256:
			hf = sha256.New
		case 384:
			hf = sha512.New384
		}
	case "SHA3":
		switch securityLevel {
		case 256:
			hf = sha3.New256
		case 384:
			hf = sha3.New384
		}
	default:
		return errors.Newf(errors.KindConfig, "the supported hash families contain [SHA2, SHA3], but the provided hash family is \"%s\"", hashFamily)
	}

	if hf == nil {
		return errors.Newf(errors.KindConfig, "security level contains [256, 384], but the provided security level is \"%d\"", securityLevel)
	}

	c.securityLevel = securityLevel
	c.hashFamily = hashFamily
	c.hashFunc = hf
	return nil
}
