package mode_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zhangsob/zeed/csp/softimpl/mode"
	"github.com/zhangsob/zeed/csp/softimpl/seed"
	"github.com/zhangsob/zeed/errors"
	"pgregory.net/rapid"
)

func asciiKey(size int) []byte {
	key := make([]byte, size)
	copy(key, "1234")
	return key
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"ECB", "cbc", " Ctr "} {
		m, err := mode.ParseMode(name)
		require.NoError(t, err)
		require.True(t, m.Valid())
	}

	_, err := mode.ParseMode("OFB")
	require.ErrorIs(t, err, errors.ErrUnsupportedMode)
	require.Equal(t, "CTR", mode.CTR.String())
	require.False(t, mode.ECB.Chained())
}

func TestChainedModesVector(t *testing.T) {
	block, err := seed.NewCipher(asciiKey(16))
	require.NoError(t, err)

	plain := append(bytes.Repeat([]byte("1"), 16), bytes.Repeat([]byte{0x10}, 16)...)
	cases := []struct {
		m      mode.Mode
		cipher string
	}{
		{mode.ECB, "f80f5669cbe0a88d989aec6db1551b1a3259eda68857fd79d2c8a1f783a7afb9"},
		{mode.CBC, "f80f5669cbe0a88d989aec6db1551b1adc7d5bf6b8ba99ae97785a4c05fdbba6"},
	}

	for _, c := range cases {
		enc, err := mode.NewEncrypter(c.m, block, nil)
		require.NoError(t, err)
		out := make([]byte, len(plain))
		enc.CryptBlocks(out, plain)
		require.Equal(t, c.cipher, hex.EncodeToString(out), c.m.String())

		dec, err := mode.NewDecrypter(c.m, block, make([]byte, 16))
		require.NoError(t, err)
		dec.CryptBlocks(out, out)
		require.Equal(t, plain, out)
	}
}

func TestCTRVector(t *testing.T) {
	block, err := seed.NewCipher(asciiKey(16))
	require.NoError(t, err)

	plain := append(bytes.Repeat([]byte("1"), 16), bytes.Repeat([]byte{0x10}, 16)...)
	enc, err := mode.NewEncrypter(mode.CTR, block, nil)
	require.NoError(t, err)
	out := make([]byte, len(plain))
	// 分两次调用，计数器必须在调用之间延续。
	enc.CryptBlocks(out[:16], plain[:16])
	enc.CryptBlocks(out[16:], plain[16:])
	require.Equal(t, "25047eca60e951e6d31714ff32b0d2d1ec20e6ba9792ef856eb3f02289c43773", hex.EncodeToString(out))
}

func TestCTRWraparound(t *testing.T) {
	block, err := seed.NewCipher(asciiKey(16))
	require.NoError(t, err)

	enc, err := mode.NewEncrypter(mode.CTR, block, bytes.Repeat([]byte{0xFF}, 16))
	require.NoError(t, err)
	out := make([]byte, 32)
	enc.CryptBlocks(out, make([]byte, 32))

	last := make([]byte, 16)
	block.Encrypt(last, bytes.Repeat([]byte{0xFF}, 16))
	require.Equal(t, last, out[:16])

	zero := make([]byte, 16)
	block.Encrypt(zero, make([]byte, 16))
	require.Equal(t, zero, out[16:])
}

func TestCTRStream256(t *testing.T) {
	block, err := seed.NewCipher(asciiKey(32))
	require.NoError(t, err)

	stream, err := mode.NewCTRStream(block, nil)
	require.NoError(t, err)
	out := make([]byte, 1)
	stream.XORKeyStream(out, []byte("A"))
	require.Equal(t, byte(0x4f), out[0])

	// 同一个流上再加密一次 "A"，密钥流已经前进。
	again := make([]byte, 1)
	stream.XORKeyStream(again, []byte("A"))
	require.Equal(t, byte(0x86), again[0])
	require.NotEqual(t, out[0], again[0])

	dec, err := mode.NewCTRStream(block, make([]byte, 16))
	require.NoError(t, err)
	plain := make([]byte, 1)
	dec.XORKeyStream(plain, out)
	require.Equal(t, []byte("A"), plain)
	dec.XORKeyStream(plain, again)
	require.Equal(t, []byte("A"), plain)
}

func TestSeedLength(t *testing.T) {
	block, err := seed.NewCipher(asciiKey(16))
	require.NoError(t, err)

	_, err = mode.NewEncrypter(mode.CBC, block, make([]byte, 8))
	require.ErrorIs(t, err, errors.ErrIVLength)
	_, err = mode.NewDecrypter(mode.CTR, block, make([]byte, 17))
	require.ErrorIs(t, err, errors.ErrCounterLength)
	_, err = mode.NewCTRStream(block, make([]byte, 3))
	require.ErrorIs(t, err, errors.ErrCounterLength)
	_, err = mode.NewEncrypter(mode.Mode(7), block, nil)
	require.ErrorIs(t, err, errors.ErrUnsupportedMode)

	// ECB 忽略 seed。
	_, err = mode.NewEncrypter(mode.ECB, block, make([]byte, 3))
	require.NoError(t, err)
}

func TestSeedIsCopied(t *testing.T) {
	block, err := seed.NewCipher(asciiKey(16))
	require.NoError(t, err)

	iv := make([]byte, 16)
	enc, err := mode.NewEncrypter(mode.CBC, block, iv)
	require.NoError(t, err)
	iv[0] = 0xAA

	out := make([]byte, 16)
	enc.CryptBlocks(out, bytes.Repeat([]byte("1"), 16))
	require.Equal(t, "f80f5669cbe0a88d989aec6db1551b1a", hex.EncodeToString(out))
}

func TestStreamMatchesBlocks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		key := rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(rt, "key")
		counter := rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(rt, "counter")
		blocks := rapid.IntRange(1, 4).Draw(rt, "blocks")
		plain := rapid.SliceOfN(rapid.Byte(), 16*blocks, 16*blocks).Draw(rt, "plain")
		split := rapid.IntRange(0, len(plain)).Draw(rt, "split")

		block, err := seed.NewCipher(key)
		require.NoError(rt, err)

		bm, err := mode.NewEncrypter(mode.CTR, block, counter)
		require.NoError(rt, err)
		want := make([]byte, len(plain))
		bm.CryptBlocks(want, plain)

		stream, err := mode.NewCTRStream(block, counter)
		require.NoError(rt, err)
		got := make([]byte, len(plain))
		stream.XORKeyStream(got[:split], plain[:split])
		stream.XORKeyStream(got[split:], plain[split:])
		require.Equal(rt, want, got)
	})
}
