package encoding_test

import (
	"bytes"
	stdascii85 "encoding/ascii85"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zhangsob/zeed/csp/softimpl/encoding"
	"github.com/zhangsob/zeed/errors"
	"pgregory.net/rapid"
)

func TestNibbleTables(t *testing.T) {
	src := []byte{0x00, 0x1F, 0xAB, 0xFF}

	s, err := encoding.Encode(src, encoding.HexUpper)
	require.NoError(t, err)
	require.Equal(t, "001FABFF", s)

	s, err = encoding.Encode(src, encoding.HexLower)
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(src), s)

	s, err = encoding.Encode(src, encoding.Hex0x30)
	require.NoError(t, err)
	require.Equal(t, "001?:;??", s)

	// 十六进制表在解码时接受另一种大小写。
	b, err := encoding.Decode("001fabFF", encoding.HexUpper)
	require.NoError(t, err)
	require.Equal(t, src, b)
	b, err = encoding.Decode("001FABff", encoding.HexLower)
	require.NoError(t, err)
	require.Equal(t, src, b)

	_, err = encoding.Decode("001fab", encoding.Hex0x30)
	require.ErrorIs(t, err, errors.ErrInvalidDecodingCharacter)
}

func TestBase64MatchesStdlib(t *testing.T) {
	pairs := []struct {
		table *encoding.Table
		enc   *base64.Encoding
	}{
		{encoding.Base64, base64.StdEncoding},
		{encoding.Base64NoPadding, base64.RawStdEncoding},
		{encoding.Base64URL, base64.URLEncoding},
		{encoding.Base64URLNoPadding, base64.RawURLEncoding},
	}

	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.SliceOfN(rapid.Byte(), 0, 40).Draw(rt, "src")
		for _, p := range pairs {
			s, err := encoding.Encode(src, p.table)
			require.NoError(rt, err)
			require.Equal(rt, p.enc.EncodeToString(src), s, p.table.Name())

			b, err := encoding.Decode(s, p.table)
			require.NoError(rt, err)
			require.True(rt, bytes.Equal(src, b))
		}
	})
}

func TestASCII85AdobeMatchesStdlib(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.SliceOfN(rapid.Byte(), 0, 40).Draw(rt, "src")
		// 标准库不做 'y' 压缩。
		for i := 0; i+4 <= len(src); i += 4 {
			if bytes.Equal(src[i:i+4], []byte("    ")) {
				rt.Skip("contains a space group")
			}
		}

		want := make([]byte, stdascii85.MaxEncodedLen(len(src)))
		want = want[:stdascii85.Encode(want, src)]

		s, err := encoding.Encode(src, encoding.ASCII85Adobe)
		require.NoError(rt, err)
		require.Equal(rt, string(want), s)
	})
}

func TestASCII85Compression(t *testing.T) {
	src := append(make([]byte, 4), []byte("    ")...)
	src = append(src, 'A')

	s, err := encoding.Encode(src, encoding.ASCII85Adobe)
	require.NoError(t, err)
	require.Equal(t, "zy5l", s)

	b, err := encoding.Decode(s, encoding.ASCII85Adobe)
	require.NoError(t, err)
	require.Equal(t, src, b)

	// 其它 Base85 字母表不压缩。
	s, err = encoding.Encode(make([]byte, 4), encoding.ASCII85ZeroMQ)
	require.NoError(t, err)
	require.Equal(t, "00000", s)

	// 'z' 只允许出现在组的开头。
	_, err = encoding.Decode("5zzzz", encoding.ASCII85Adobe)
	require.ErrorIs(t, err, errors.ErrInvalidDecodingCharacter)
}

func TestASCII85GroupOverflow(t *testing.T) {
	b, err := encoding.Decode("s8W-!", encoding.ASCII85Adobe)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, b)

	for _, s := range []string{"s8W-\"", "uuuuu", "uuu"} {
		_, err = encoding.Decode(s, encoding.ASCII85Adobe)
		require.ErrorIs(t, err, errors.ErrInvalidDecodingCharacter, s)
	}
}

func TestRoundTripWithWhitespace(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		table := rapid.SampledFrom(encoding.Tables).Draw(rt, "table")
		src := rapid.SliceOfN(rapid.Byte(), 0, 20).Draw(rt, "src")

		s, err := encoding.Encode(src, table)
		require.NoError(rt, err)

		b, err := encoding.DecodeStrict(s, table)
		require.NoError(rt, err)
		require.True(rt, bytes.Equal(src, b))

		var sb strings.Builder
		for i, r := range s {
			if i%3 == 0 {
				sb.WriteString(rapid.SampledFrom([]string{" ", "\n", "\r\n", "\t"}).Draw(rt, "ws"))
			}
			sb.WriteRune(r)
		}
		sb.WriteString("\n")
		spaced := sb.String()

		b, err = encoding.Decode(spaced, table)
		require.NoError(rt, err)
		require.True(rt, bytes.Equal(src, b))

		_, err = encoding.DecodeStrict(spaced, table)
		require.ErrorIs(rt, err, errors.ErrInvalidDecodingCharacter)
	})
}

func TestPaddingCharacterStopsDecoding(t *testing.T) {
	b, err := encoding.Decode("QQ==QUJD", encoding.Base64)
	require.NoError(t, err)
	require.Equal(t, []byte("A"), b)

	_, err = encoding.Decode("QQ==", encoding.Base64NoPadding)
	require.ErrorIs(t, err, errors.ErrInvalidDecodingCharacter)
}

func TestTables(t *testing.T) {
	_, err := encoding.NewTable("short", "0123456789")
	require.ErrorIs(t, err, errors.ErrUnsupportedEncodingTable)
	_, err = encoding.NewTable("dup", "0123456789ABCDEE")
	require.ErrorIs(t, err, errors.ErrUnsupportedEncodingTable)

	custom, err := encoding.NewTable("reversed", "FEDCBA9876543210")
	require.NoError(t, err)
	s, err := encoding.Encode([]byte{0x0F}, custom)
	require.NoError(t, err)
	require.Equal(t, "F0", s)

	tb, err := encoding.ParseTable("base64url_not_padding")
	require.NoError(t, err)
	require.Equal(t, encoding.Base64URLNoPadding, tb)
	require.False(t, tb.Padded())

	_, err = encoding.ParseTable("BASE62")
	require.ErrorIs(t, err, errors.ErrUnsupportedEncodingTable)
	_, err = encoding.Encode(nil, nil)
	require.ErrorIs(t, err, errors.ErrUnsupportedEncodingTable)
}
