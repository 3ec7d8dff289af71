// Package encoding 在二进制与文本之间转换，按字母表长度选择算法：
// 16 个字符每 4 位一个字符，64/65 个字符每 6 位一个字符（第 65 个字符是补位符），85 个字符每 4 字节 5 个字符。
package encoding

import (
	"strings"

	"github.com/zhangsob/zeed/errors"
)

// Table 一张编码表。零值不可用，通过 NewTable 或者包里预定义的表获得。
type Table struct {
	name     string
	alphabet string
	// compress 为 true 时，整组 0x00000000 编码成 'z'，整组 0x20202020 编码成 'y'。
	compress bool
	index    [256]int16
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Alphabet() string {
	return t.alphabet
}

// Padded 返回 true 表示 6 位编码时用第 65 个字符补齐到 4 的倍数。
func (t *Table) Padded() bool {
	return len(t.alphabet) == 65
}

func (t *Table) String() string {
	return t.name
}

const (
	hexUpper = "0123456789ABCDEF"
	hexLower = "0123456789abcdef"
	b64Std   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	b64URL   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
)

var (
	HexUpper           = mustTable("HEXA_LARGE", hexUpper, false, hexLower)
	HexLower           = mustTable("HEXA_SMALL", hexLower, false, hexUpper)
	Hex0x30            = mustTable("HEXA_0x30_ORING", "0123456789:;<=>?", false, "")
	Base64             = mustTable("BASE64", b64Std+"=", false, "")
	Base64NoPadding    = mustTable("BASE64_NOT_PADDING", b64Std, false, "")
	Base64URL          = mustTable("BASE64URL", b64URL+"=", false, "")
	Base64URLNoPadding = mustTable("BASE64URL_NOT_PADDING", b64URL, false, "")
	ASCII85Adobe       = mustTable("ASCII85_ADOBE", "!\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstu", true, "")
	ASCII85RFC1924     = mustTable("ASCII85_RFC1924", "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz!#$%&()*+-;<=>?@^_`{|}~", false, "")
	ASCII85ZeroMQ      = mustTable("ASCII85_ZEROMQ", "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ.-:+=^!/*?&<>()[]{}@%$#", false, "")
)

// Tables 所有预定义的编码表。
var Tables = []*Table{
	HexUpper, HexLower, Hex0x30,
	Base64, Base64NoPadding, Base64URL, Base64URLNoPadding,
	ASCII85Adobe, ASCII85RFC1924, ASCII85ZeroMQ,
}

// ParseTable 按名字（不区分大小写）查找预定义的编码表。
func ParseTable(name string) (*Table, error) {
	for _, t := range Tables {
		if strings.EqualFold(t.name, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return nil, errors.Newf(errors.KindUnsupportedEncodingTable, "unknown encoding table \"%s\"", name)
}

// NewTable 用自定义的字母表构造编码表。字母表必须是不重复的 ASCII 字符，长度为 16、64、65 或 85。
func NewTable(name, alphabet string) (*Table, error) {
	return newTable(name, alphabet, false, "")
}

func mustTable(name, alphabet string, compress bool, fold string) *Table {
	t, err := newTable(name, alphabet, compress, fold)
	if err != nil {
		panic(err)
	}
	return t
}

// newTable 中 fold 是解码时的备用字母表，只在主字母表里找不到字符时使用。
func newTable(name, alphabet string, compress bool, fold string) (*Table, error) {
	switch len(alphabet) {
	case 16, 64, 65, 85:
	default:
		return nil, errors.Newf(errors.KindUnsupportedEncodingTable, "the length of the encoding table must be one of [16, 64, 65, 85], but got \"%d\"", len(alphabet))
	}

	t := &Table{name: name, alphabet: alphabet, compress: compress}
	for i := range t.index {
		t.index[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		if c >= 0x80 {
			return nil, errors.Newf(errors.KindUnsupportedEncodingTable, "encoding table \"%s\" contains a non-ASCII character", name)
		}
		if t.index[c] != -1 {
			return nil, errors.Newf(errors.KindUnsupportedEncodingTable, "encoding table \"%s\" contains '%c' twice", name, c)
		}
		t.index[c] = int16(i)
	}
	for i := 0; i < len(fold); i++ {
		if t.index[fold[i]] == -1 {
			t.index[fold[i]] = int16(i)
		}
	}
	return t, nil
}

// lookup 返回字符在字母表中的位置，不在表中返回 -1。
func (t *Table) lookup(r rune) int {
	if r < 0 || r >= 0x80 {
		return -1
	}
	return int(t.index[r])
}
