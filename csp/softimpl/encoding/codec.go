package encoding

import (
	"math"
	"strings"
	"unicode"

	"github.com/zhangsob/zeed/errors"
)

var pow85 = [5]uint64{85 * 85 * 85 * 85, 85 * 85 * 85, 85 * 85, 85, 1}

// Encode 用编码表 t 把 src 转换成文本。
func Encode(src []byte, t *Table) (string, error) {
	if t == nil {
		return "", errors.New(errors.KindUnsupportedEncodingTable, "nil encoding table")
	}

	var sb strings.Builder
	switch len(t.alphabet) {
	case 16:
		sb.Grow(len(src) * 2)
		for _, b := range src {
			sb.WriteByte(t.alphabet[b>>4])
			sb.WriteByte(t.alphabet[b&0x0F])
		}
	case 64, 65:
		encode6(&sb, src, t)
	case 85:
		encode85(&sb, src, t)
	default:
		return "", errors.Newf(errors.KindUnsupportedEncodingTable, "the length of the encoding table must be one of [16, 64, 65, 85], but got \"%d\"", len(t.alphabet))
	}
	return sb.String(), nil
}

func encode6(sb *strings.Builder, src []byte, t *Table) {
	a := t.alphabet
	sb.Grow((len(src) + 2) / 3 * 4)

	n := len(src) / 3 * 3
	for i := 0; i < n; i += 3 {
		v := uint(src[i])<<16 | uint(src[i+1])<<8 | uint(src[i+2])
		sb.WriteByte(a[v>>18&0x3F])
		sb.WriteByte(a[v>>12&0x3F])
		sb.WriteByte(a[v>>6&0x3F])
		sb.WriteByte(a[v&0x3F])
	}

	switch len(src) - n {
	case 1:
		v := uint(src[n])
		sb.WriteByte(a[v>>2])
		sb.WriteByte(a[v&0x03<<4])
		if t.Padded() {
			sb.WriteByte(a[64])
			sb.WriteByte(a[64])
		}
	case 2:
		v := uint(src[n])<<8 | uint(src[n+1])
		sb.WriteByte(a[v>>10])
		sb.WriteByte(a[v>>4&0x3F])
		sb.WriteByte(a[v&0x0F<<2])
		if t.Padded() {
			sb.WriteByte(a[64])
		}
	}
}

func encode85(sb *strings.Builder, src []byte, t *Table) {
	var digits [5]byte
	for len(src) > 0 {
		// 末尾不足 4 字节的组补 0x00，只输出 n+1 个字符。
		n := len(src)
		if n > 4 {
			n = 4
		}
		var tuple uint32
		for i := 0; i < n; i++ {
			tuple |= uint32(src[i]) << (24 - 8*uint(i))
		}
		src = src[n:]

		if n == 4 && t.compress {
			if tuple == 0 {
				sb.WriteByte('z')
				continue
			}
			if tuple == 0x20202020 {
				sb.WriteByte('y')
				continue
			}
		}

		v := tuple
		for i := 4; i >= 0; i-- {
			digits[i] = t.alphabet[v%85]
			v /= 85
		}
		sb.Write(digits[:n+1])
	}
}

// Decode 把文本还原成二进制，空白字符被忽略。
func Decode(s string, t *Table) ([]byte, error) {
	return decode(s, t, true)
}

// DecodeStrict 同 Decode，但空白字符视为非法字符。
func DecodeStrict(s string, t *Table) ([]byte, error) {
	return decode(s, t, false)
}

func decode(s string, t *Table, skipSpace bool) ([]byte, error) {
	if t == nil {
		return nil, errors.New(errors.KindUnsupportedEncodingTable, "nil encoding table")
	}

	switch len(t.alphabet) {
	case 16:
		return decodeBits(s, t, 4, skipSpace)
	case 64, 65:
		return decodeBits(s, t, 6, skipSpace)
	case 85:
		return decode85(s, t, skipSpace)
	default:
		return nil, errors.Newf(errors.KindUnsupportedEncodingTable, "the length of the encoding table must be one of [16, 64, 65, 85], but got \"%d\"", len(t.alphabet))
	}
}

// decodeBits 每个字符贡献 bits 位，凑满 8 位输出一个字节，末尾不足 8 位的部分丢弃。遇到补位符即结束。
func decodeBits(s string, t *Table, bits uint, skipSpace bool) ([]byte, error) {
	out := make([]byte, 0, len(s)*int(bits)/8)
	var value uint
	var count uint
	for _, r := range s {
		idx := t.lookup(r)
		if idx == -1 {
			if skipSpace && unicode.IsSpace(r) {
				continue
			}
			return nil, invalidCharacter(r)
		}
		if idx == 64 {
			break
		}

		value = value<<bits | uint(idx)
		count += bits
		if count >= 8 {
			count -= 8
			out = append(out, byte(value>>count))
			value &= 1<<count - 1
		}
	}
	return out, nil
}

func decode85(s string, t *Table, skipSpace bool) ([]byte, error) {
	out := make([]byte, 0, len(s)*4/5+4)
	var tuple uint64
	n := 0
	for _, r := range s {
		if n == 0 && t.compress {
			switch r {
			case 'z':
				out = append(out, 0, 0, 0, 0)
				continue
			case 'y':
				out = append(out, 0x20, 0x20, 0x20, 0x20)
				continue
			}
		}

		idx := t.lookup(r)
		if idx == -1 {
			if skipSpace && unicode.IsSpace(r) {
				continue
			}
			return nil, invalidCharacter(r)
		}

		tuple += uint64(idx) * pow85[n]
		n++
		if n == 5 {
			if tuple > math.MaxUint32 {
				return nil, overflowGroup(tuple)
			}
			out = appendTuple(out, uint32(tuple), 4)
			tuple = 0
			n = 0
		}
	}

	if n > 0 {
		// 缺少的字符按最大值 84 补齐，只保留 n-1 个字节。
		for i := n; i < 5; i++ {
			tuple += 84 * pow85[i]
		}
		if tuple > math.MaxUint32 {
			return nil, overflowGroup(tuple)
		}
		out = appendTuple(out, uint32(tuple), n-1)
	}
	return out, nil
}

func appendTuple(out []byte, tuple uint32, n int) []byte {
	for i := 0; i < n; i++ {
		out = append(out, byte(tuple>>(24-8*uint(i))))
	}
	return out
}

// overflowGroup 五个字符表示的值超过 32 位，编码端不可能产生这样的分组。
func overflowGroup(tuple uint64) error {
	return errors.Newf(errors.KindInvalidDecodingCharacter, "base85 group value %d overflows 32 bits", tuple)
}

func invalidCharacter(r rune) error {
	return errors.Newf(errors.KindInvalidDecodingCharacter, "cannot support decoding character %q", r)
}
