package session_test

import (
	"bytes"
	"crypto/cipher"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zhangsob/zeed/csp/softimpl/mode"
	"github.com/zhangsob/zeed/csp/softimpl/padding"
	"github.com/zhangsob/zeed/csp/softimpl/seed"
	"github.com/zhangsob/zeed/csp/softimpl/session"
	"github.com/zhangsob/zeed/errors"
	"pgregory.net/rapid"
)

func newBlock(t require.TestingT, size int) cipher.Block {
	key := make([]byte, size)
	copy(key, "1234")
	b, err := seed.NewCipher(key)
	require.NoError(t, err)
	return b
}

func newSession(t require.TestingT, d session.Direction, m mode.Mode, b cipher.Block, s padding.Scheme, iv []byte) *session.Session {
	var bm cipher.BlockMode
	var err error
	if d == session.Encrypt {
		bm, err = mode.NewEncrypter(m, b, iv)
	} else {
		bm, err = mode.NewDecrypter(m, b, iv)
	}
	require.NoError(t, err)
	sess, err := session.New(d, bm, s, false)
	require.NoError(t, err)
	return sess
}

func TestEncryptVector(t *testing.T) {
	sess := newSession(t, session.Encrypt, mode.ECB, newBlock(t, 16), padding.PKCS7, nil)
	out, err := sess.Process([]byte("1111111111111111"))
	require.NoError(t, err)
	require.Equal(t, "f80f5669cbe0a88d989aec6db1551b1a", hex.EncodeToString(out))

	last, err := sess.Finish()
	require.NoError(t, err)
	require.Equal(t, "3259eda68857fd79d2c8a1f783a7afb9", hex.EncodeToString(last))
	require.Equal(t, session.Finalized, sess.State())
}

func TestEmptySessionEmitsPaddingBlock(t *testing.T) {
	sess := newSession(t, session.Encrypt, mode.ECB, newBlock(t, 16), padding.PKCS7, nil)
	require.Equal(t, session.Initialized, sess.State())
	out, err := sess.Finish()
	require.NoError(t, err)
	require.Equal(t, "3259eda68857fd79d2c8a1f783a7afb9", hex.EncodeToString(out))

	dec := newSession(t, session.Decrypt, mode.ECB, newBlock(t, 16), padding.PKCS7, nil)
	out, err = dec.Process(mustHex(t, "3259eda68857fd79d2c8a1f783a7afb9"))
	require.NoError(t, err)
	require.Empty(t, out)
	out, err = dec.Finish()
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestDecryptHoldsBackLastBlock(t *testing.T) {
	ct := mustHex(t, "f80f5669cbe0a88d989aec6db1551b1a3259eda68857fd79d2c8a1f783a7afb9")
	dec := newSession(t, session.Decrypt, mode.ECB, newBlock(t, 16), padding.PKCS7, nil)

	out, err := dec.Process(ct[:16])
	require.NoError(t, err)
	require.Empty(t, out)

	out, err = dec.Process(ct[16:20])
	require.NoError(t, err)
	require.Empty(t, out)

	out, err = dec.Process(ct[20:])
	require.NoError(t, err)
	require.Equal(t, "1111111111111111", string(out))

	out, err = dec.Finish()
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestAppendQueuesOutput(t *testing.T) {
	sess := newSession(t, session.Encrypt, mode.ECB, newBlock(t, 16), padding.PKCS7, nil)
	require.NoError(t, sess.Append([]byte("11111111")))
	require.NoError(t, sess.Append([]byte("11111111")))
	require.Equal(t, session.Accumulating, sess.State())

	out, err := sess.Finish()
	require.NoError(t, err)
	require.Equal(t, "f80f5669cbe0a88d989aec6db1551b1a3259eda68857fd79d2c8a1f783a7afb9", hex.EncodeToString(out))

	sess = newSession(t, session.Encrypt, mode.ECB, newBlock(t, 16), padding.PKCS7, nil)
	require.NoError(t, sess.Append([]byte("1111111111111111")))
	out, err = sess.Process(nil)
	require.NoError(t, err)
	require.Equal(t, "f80f5669cbe0a88d989aec6db1551b1a", hex.EncodeToString(out))
}

func TestDecryptCipherLength(t *testing.T) {
	dec := newSession(t, session.Decrypt, mode.ECB, newBlock(t, 16), padding.PKCS7, nil)
	_, err := dec.Process(make([]byte, 20))
	require.NoError(t, err)
	_, err = dec.Finish()
	require.ErrorIs(t, err, errors.ErrCipherLength)

	dec = newSession(t, session.Decrypt, mode.ECB, newBlock(t, 16), padding.PKCS7, nil)
	_, err = dec.Finish()
	require.ErrorIs(t, err, errors.ErrCipherLength)
}

func TestFinalizedSession(t *testing.T) {
	b := newBlock(t, 16)
	sess := newSession(t, session.Encrypt, mode.CBC, b, padding.BIT, nil)
	_, err := sess.Finish()
	require.NoError(t, err)

	_, err = sess.Process([]byte("x"))
	require.ErrorIs(t, err, errors.ErrSessionState)
	require.ErrorIs(t, sess.Append([]byte("x")), errors.ErrSessionState)
	_, err = sess.Finish()
	require.ErrorIs(t, err, errors.ErrSessionState)

	bm, err := mode.NewEncrypter(mode.CBC, b, nil)
	require.NoError(t, err)
	require.NoError(t, sess.Reset(bm))
	require.Equal(t, session.Initialized, sess.State())
	_, err = sess.Process([]byte("x"))
	require.NoError(t, err)
}

func TestWrongKeyIsPaddingError(t *testing.T) {
	enc := newSession(t, session.Encrypt, mode.CTR, newBlock(t, 16), padding.PKCS7, nil)
	ct, err := enc.Finish()
	require.NoError(t, err)

	// CTR 下篡改最后一个字节直接改变恢复出的填充长度，0x10^0x01 = 0x11 越界。
	ct[15] ^= 0x01
	dec := newSession(t, session.Decrypt, mode.CTR, newBlock(t, 16), padding.PKCS7, nil)
	_, err = dec.Process(ct)
	require.NoError(t, err)
	_, err = dec.Finish()
	require.ErrorIs(t, err, errors.ErrPadding)
}

// 逐字节送入与一次性送入的结果相同。
func TestCTRKeystreamAdvances(t *testing.T) {
	enc := newSession(t, session.Encrypt, mode.CTR, newBlock(t, 32), padding.PKCS7, make([]byte, 16))
	out, err := enc.Process([]byte("A"))
	require.NoError(t, err)
	require.Empty(t, out)
	out, err = enc.Process([]byte("A"))
	require.NoError(t, err)
	require.Empty(t, out)
	ct, err := enc.Finish()
	require.NoError(t, err)
	require.Equal(t, "4f867f365471f3fe4a7941925e96fb21", hex.EncodeToString(ct))
	require.NotEqual(t, ct[0], ct[1])

	dec := newSession(t, session.Decrypt, mode.CTR, newBlock(t, 32), padding.PKCS7, make([]byte, 16))
	out, err = dec.Process(ct)
	require.NoError(t, err)
	last, err := dec.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte("AA"), append(out, last...))
}

// CTR 下把 0x01 填充字节翻成 0x00，必须报填充错误而不是空填充。
func TestCTRZeroedPaddingIsPaddingError(t *testing.T) {
	enc := newSession(t, session.Encrypt, mode.CTR, newBlock(t, 16), padding.PKCS7, nil)
	ct, err := enc.Process(bytes.Repeat([]byte("A"), 15))
	require.NoError(t, err)
	last, err := enc.Finish()
	require.NoError(t, err)
	ct = append(ct, last...)
	require.Len(t, ct, 16)
	ct[15] ^= 0x01

	dec := newSession(t, session.Decrypt, mode.CTR, newBlock(t, 16), padding.PKCS7, nil)
	_, err = dec.Process(ct)
	require.NoError(t, err)
	_, err = dec.Finish()
	require.ErrorIs(t, err, errors.ErrPadding)
	require.NotErrorIs(t, err, errors.ErrEmptyPadding)
}

func TestIncrementalEquivalence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.SampledFrom([]int{16, 32}).Draw(rt, "keySize")
		m := rapid.SampledFrom([]mode.Mode{mode.ECB, mode.CBC, mode.CTR}).Draw(rt, "mode")
		s := rapid.SampledFrom([]padding.Scheme{padding.BIT, padding.X923, padding.PKCS7}).Draw(rt, "padding")
		iv := rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(rt, "iv")
		plain := rapid.SliceOfN(rapid.Byte(), 0, 80).Draw(rt, "plain")
		b := newBlock(rt, size)

		whole := newSession(rt, session.Encrypt, m, b, s, iv)
		head, err := whole.Process(plain)
		require.NoError(rt, err)
		tail, err := whole.Finish()
		require.NoError(rt, err)
		want := append(head, tail...)

		var got []byte
		chunked := newSession(rt, session.Encrypt, m, b, s, iv)
		for i := range plain {
			out, err := chunked.Process(plain[i : i+1])
			require.NoError(rt, err)
			got = append(got, out...)
		}
		tail, err = chunked.Finish()
		require.NoError(rt, err)
		got = append(got, tail...)
		require.Equal(rt, want, got)

		var back []byte
		dec := newSession(rt, session.Decrypt, m, b, s, iv)
		for i := range want {
			out, err := dec.Process(want[i : i+1])
			require.NoError(rt, err)
			back = append(back, out...)
		}
		tail, err = dec.Finish()
		require.NoError(rt, err)
		back = append(back, tail...)
		require.True(rt, bytes.Equal(plain, back))
	})
}

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
