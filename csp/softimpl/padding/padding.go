// Package padding 实现 BIT、ANSI X9.23 与 PKCS#7 三种分组填充。
//
// 填充总是无条件进行：数据长度恰好是分组长度的整数倍时，会追加一个完整的填充分组。
package padding

import (
	"crypto/subtle"
	"strings"

	"github.com/zhangsob/zeed/errors"
)

// Scheme 填充方式。
type Scheme int

const (
	// BIT 追加 0x80，其余补 0x00。
	BIT Scheme = iota
	// X923 补 0x00，最后一个字节是填充长度。
	X923
	// PKCS7 每个填充字节都是填充长度。
	PKCS7
)

func (s Scheme) String() string {
	switch s {
	case BIT:
		return "BIT"
	case X923:
		return "X923"
	case PKCS7:
		return "PKCS7"
	default:
		return "UNKNOWN"
	}
}

// Valid 判断填充方式是否受支持。
func (s Scheme) Valid() bool {
	return s == BIT || s == X923 || s == PKCS7
}

// ParseScheme 给定填充方式的名字（不区分大小写），返回对应的 Scheme。
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "BIT":
		return BIT, nil
	case "X923", "X9.23", "ANSIX923":
		return X923, nil
	case "PKCS7", "PKCS#7":
		return PKCS7, nil
	default:
		return 0, errors.Newf(errors.KindUnsupportedPadding, "the supported paddings contain [BIT, X923, PKCS7], but got \"%s\"", name)
	}
}

// Pad 返回追加了填充之后的新切片，长度是 blockSize 的整数倍，data 本身不会被修改。
func Pad(data []byte, scheme Scheme, blockSize int) ([]byte, error) {
	if !scheme.Valid() {
		return nil, errors.Newf(errors.KindUnsupportedPadding, "the supported paddings contain [BIT, X923, PKCS7], but got \"%d\"", int(scheme))
	}

	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	tail := out[len(data):]

	switch scheme {
	case BIT:
		tail[0] = 0x80
	case X923:
		tail[n-1] = byte(n)
	case PKCS7:
		for i := range tail {
			tail[i] = byte(n)
		}
	}
	return out, nil
}

// Count 检查 block（解密出来的最后一个分组）末尾的填充，返回应去掉的字节数。
//
// 恢复出的填充长度不在 [1, 分组长度] 之内或者填充字节不一致时返回 PaddingError，
// 错误里不会指出是哪个字节不一致。allowEmpty 为 true 时，长度为 0 或越界都视为没有填充。
func Count(block []byte, scheme Scheme, allowEmpty bool) (int, error) {
	if !scheme.Valid() {
		return 0, errors.Newf(errors.KindUnsupportedPadding, "the supported paddings contain [BIT, X923, PKCS7], but got \"%d\"", int(scheme))
	}
	bs := len(block)
	if bs == 0 {
		return 0, errors.New(errors.KindCipherLength, "no block to unpad")
	}

	var n int
	if scheme == BIT {
		n = bitCount(block)
	} else {
		n = int(block[bs-1])
	}

	if n < 1 {
		if allowEmpty {
			return 0, nil
		}
		// 密钥错误或密文被篡改时最后一个字节常常是 0x00，归为填充错误。
		return 0, errors.New(errors.KindPadding, "padding count < 1")
	}
	if n > bs {
		if allowEmpty {
			return 0, nil
		}
		return 0, errors.Newf(errors.KindPadding, "padding count > %d", bs)
	}

	if scheme == BIT {
		return n, nil
	}

	// 整个分组都参与比较，不提前退出。
	good := 1
	for i := 0; i < bs; i++ {
		inPad := subtle.ConstantTimeLessOrEq(bs-n, i)
		want := byte(n)
		if scheme == X923 && i != bs-1 {
			want = 0
		}
		eq := subtle.ConstantTimeByteEq(block[i], want)
		// 填充区之外的字节不参与判断。
		good &= eq | (inPad ^ 1)
	}
	if good != 1 {
		return 0, errors.New(errors.KindPadding, "padding mismatch")
	}
	return n, nil
}

// bitCount 从末尾跳过 0x00，遇到的第一个非零字节必须是 0x80，否则认为没有填充。
func bitCount(block []byte) int {
	n := 0
	found := 0
	for i := len(block) - 1; i >= 0; i-- {
		zero := subtle.ConstantTimeByteEq(block[i], 0x00)
		marker := subtle.ConstantTimeByteEq(block[i], 0x80)
		first := (zero ^ 1) & (found ^ 1)
		n = subtle.ConstantTimeSelect(first&marker, len(block)-i, n)
		found |= first
	}
	return n
}

// Unpad 去掉 data 末尾的填充，返回的切片与 data 共享底层数组。
// 只检查 data 的最后 blockSize 个字节，data 的长度必须是 blockSize 的正整数倍。
func Unpad(data []byte, scheme Scheme, blockSize int, allowEmpty bool) ([]byte, error) {
	if blockSize <= 0 || len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.Newf(errors.KindCipherLength, "cipher length %d is not a positive multiple of %d", len(data), blockSize)
	}
	n, err := Count(data[len(data)-blockSize:], scheme, allowEmpty)
	if err != nil {
		return nil, err
	}
	return data[:len(data)-n], nil
}
