package utils

import (
	"encoding/pem"

	"github.com/zhangsob/zeed/errors"
)

/* ------------------------------------------------------------------------------------------ */

// ASCII KEY

// NormalizeASCIIKey 把字符串密钥转换成 size 个字节：每个字节必须是 0x21~0x7E 之间的可见 ASCII 字符，
// 长度为 1~size，不足 size 时在右侧补 0x00。
func NormalizeASCIIKey(key string, size int) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.New(errors.KindKeyLength, "userKey length is zero")
	}
	if len(key) > size {
		return nil, errors.Newf(errors.KindKeyLength, "userKey length > %d", size)
	}
	for i := 0; i < len(key); i++ {
		if key[i] <= 0x20 || key[i] >= 0x7F {
			return nil, errors.New(errors.KindKeyLength, "userKey is not ascii character")
		}
	}

	raw := make([]byte, size)
	copy(raw, key)
	return raw, nil
}

/* ------------------------------------------------------------------------------------------ */

// SEED KEY

const seedPEMType = "SEED PRIVATE KEY"

func PEMToSEED(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errors.NewError("invalid PEM, nil PEM")
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.NewError("failed decoding PEM")
	}
	if block.Type != seedPEMType {
		return nil, errors.NewErrorf("invalid PEM type, expected \"%s\", but got \"%s\"", seedPEMType, block.Type)
	}

	return block.Bytes, nil
}

func SEEDToPEM(raw []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: seedPEMType, Bytes: raw})
}
