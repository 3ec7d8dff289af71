package hash_test

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zhangsob/zeed/csp/softimpl/hash"
	"github.com/zhangsob/zeed/errors"
	"golang.org/x/crypto/sha3"
)

func TestHasher(t *testing.T) {
	msg := []byte("SEED")

	h := hash.NewHasher(sha3.New256)
	digest, err := h.Hash(msg, &hash.SHA3_256Opts{})
	require.NoError(t, err)
	want := sha3.Sum256(msg)
	require.Equal(t, want[:], digest)

	hf, err := hash.NewHasher(sha256.New).GetHash(&hash.SHA256Opts{})
	require.NoError(t, err)
	require.Equal(t, sha256.Size, hf.Size())

	_, err = hash.NewHasher(nil).Hash(msg, &hash.SHA256Opts{})
	require.ErrorIs(t, err, errors.ErrConfig)
}

func TestOpts(t *testing.T) {
	opts, err := hash.GetHashOpt(hash.SHA3_384)
	require.NoError(t, err)
	require.IsType(t, &hash.SHA3_384Opts{}, opts)

	_, err = hash.GetHashOpt("MD5")
	require.ErrorIs(t, err, errors.ErrConfig)

	opts, err = hash.ConfiguredOpts(256, "SHA2")
	require.NoError(t, err)
	require.Equal(t, hash.SHA256, opts.Algorithm())

	_, err = hash.ConfiguredOpts(512, "SHA3")
	require.ErrorIs(t, err, errors.ErrConfig)
}
