package seed_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zhangsob/zeed/csp/softimpl/seed"
	"github.com/zhangsob/zeed/errors"
	"pgregory.net/rapid"
)

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// RFC 4269 附录 B 的已知答案。
func TestRFC4269Vectors(t *testing.T) {
	cases := []struct {
		key, plain, cipher string
	}{
		{
			key:    "00000000000000000000000000000000",
			plain:  "000102030405060708090a0b0c0d0e0f",
			cipher: "5ebac6e0054e166819aff1cc6d346cdb",
		},
		{
			key:    "000102030405060708090a0b0c0d0e0f",
			plain:  "00000000000000000000000000000000",
			cipher: "c11f22f20140505084483597e4370f43",
		},
	}

	for _, c := range cases {
		block, err := seed.NewCipher(mustHex(t, c.key))
		require.NoError(t, err)

		out := make([]byte, seed.BlockSize)
		block.Encrypt(out, mustHex(t, c.plain))
		require.Equal(t, c.cipher, hex.EncodeToString(out))

		block.Decrypt(out, out)
		require.Equal(t, c.plain, hex.EncodeToString(out))
	}
}

func TestSEED128ASCIIKeyVector(t *testing.T) {
	key := append([]byte("1234"), make([]byte, 12)...)
	block, err := seed.NewCipherWithKeySize(key, seed.KeySize128)
	require.NoError(t, err)

	out := make([]byte, seed.BlockSize)
	block.Encrypt(out, []byte("1111111111111111"))
	require.Equal(t, "f80f5669cbe0a88d989aec6db1551b1a", hex.EncodeToString(out))
}

func TestSEED256Vectors(t *testing.T) {
	block, err := seed.NewCipher(make([]byte, 32))
	require.NoError(t, err)
	out := make([]byte, seed.BlockSize)
	block.Encrypt(out, make([]byte, seed.BlockSize))
	require.Equal(t, "26c7568ccdf81cf614805ad4b90bd9d6", hex.EncodeToString(out))

	key := make([]byte, 32)
	plain := make([]byte, seed.BlockSize)
	for i := range key {
		key[i] = byte(i)
	}
	for i := range plain {
		plain[i] = byte(i)
	}
	block, err = seed.NewCipherWithKeySize(key, seed.KeySize256)
	require.NoError(t, err)
	block.Encrypt(out, plain)
	require.Equal(t, "abf62b9ba85e1cbd6b19b7c29b0ad464", hex.EncodeToString(out))

	block.Decrypt(out, out)
	require.Equal(t, plain, out)
}

func TestInvalidKeys(t *testing.T) {
	_, err := seed.NewCipher(make([]byte, 24))
	require.ErrorIs(t, err, errors.ErrKeyLength)

	_, err = seed.NewCipherWithKeySize(make([]byte, 32), seed.KeySize128)
	require.ErrorIs(t, err, errors.ErrKeyLength)

	_, err = seed.NewCipherWithKeySize(nil, seed.KeySize256)
	require.ErrorIs(t, err, errors.ErrKeyLength)

	_, err = seed.NewCipherWithKeySize(make([]byte, 24), seed.KeySize(192))
	require.ErrorIs(t, err, errors.ErrUnsupportedKeySize)
}

func TestBlockRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.SampledFrom([]int{16, 32}).Draw(rt, "keySize")
		key := rapid.SliceOfN(rapid.Byte(), size, size).Draw(rt, "key")
		plain := rapid.SliceOfN(rapid.Byte(), seed.BlockSize, seed.BlockSize).Draw(rt, "plain")

		block, err := seed.NewCipher(key)
		require.NoError(rt, err)

		ct := make([]byte, seed.BlockSize)
		block.Encrypt(ct, plain)
		pt := make([]byte, seed.BlockSize)
		block.Decrypt(pt, ct)
		require.Equal(rt, plain, pt)
	})
}

func TestKeySize(t *testing.T) {
	require.Equal(t, 16, seed.KeySize128.Bytes())
	require.Equal(t, 32, seed.KeySize256.Bytes())
	require.True(t, seed.KeySize256.Valid())
	require.False(t, seed.KeySize(512).Valid())
	require.Equal(t, "SEED256", seed.KeySize256.String())
}
