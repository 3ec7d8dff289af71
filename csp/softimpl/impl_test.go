package softimpl_test

import (
	"crypto/sha256"
	"reflect"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zhangsob/zeed/common/metrics/prometheus"
	"github.com/zhangsob/zeed/csp/mocks"
	"github.com/zhangsob/zeed/csp/softimpl"
	"github.com/zhangsob/zeed/csp/softimpl/config"
	"github.com/zhangsob/zeed/csp/softimpl/hash"
	"github.com/zhangsob/zeed/csp/softimpl/mode"
	"github.com/zhangsob/zeed/csp/softimpl/padding"
	"github.com/zhangsob/zeed/csp/softimpl/symmetric"
	"github.com/zhangsob/zeed/errors"
)

func newSEEDImpl(t *testing.T, registry *prom.Registry) *softimpl.SoftCSPImpl {
	cfg := config.NewConfig()
	require.NoError(t, cfg.SetSecurityLevel(256, "SHA2"))

	impl, err := softimpl.NewSoftCSPImpl(&prometheus.Provider{Registerer: registry})
	require.NoError(t, err)

	require.NoError(t, softimpl.RegisterWidget(impl, reflect.TypeOf(&symmetric.SEEDKeyImportOpts{}), symmetric.NewSEEDKeyImporter(cfg)))
	require.NoError(t, softimpl.RegisterWidget(impl, reflect.TypeOf(&symmetric.SEEDPEMKeyImportOpts{}), symmetric.NewSEEDKeyImporter(cfg)))
	require.NoError(t, softimpl.RegisterWidget(impl, reflect.TypeOf(&symmetric.SEEDKey{}), symmetric.NewSEEDKeyDeriver(cfg)))
	require.NoError(t, softimpl.RegisterWidget(impl, reflect.TypeOf(&symmetric.SEEDKey{}), symmetric.NewSEEDEncrypter()))
	require.NoError(t, softimpl.RegisterWidget(impl, reflect.TypeOf(&symmetric.SEEDKey{}), symmetric.NewSEEDDecrypter()))
	require.NoError(t, softimpl.RegisterWidget(impl, reflect.TypeOf(&hash.SHA256Opts{}), hash.NewHasher(sha256.New)))
	return impl
}

// counterValues 把 zeed_csp_<name> 的各个样本按标签值拼接成 "a/b" 的形式返回。
func counterValues(t *testing.T, registry *prom.Registry, name string) map[string]float64 {
	families, err := registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "zeed_csp_"+name {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := ""
			for i, l := range m.GetLabel() {
				if i > 0 {
					key += "/"
				}
				key += l.GetValue()
			}
			if m.GetCounter() != nil {
				values[key] = m.GetCounter().GetValue()
			}
			if m.GetHistogram() != nil {
				values[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return values
}

func TestSEEDThroughCSP(t *testing.T) {
	registry := prom.NewRegistry()
	impl := newSEEDImpl(t, registry)

	key, err := impl.KeyImport("1234", &symmetric.SEEDKeyImportOpts{Exportable: true})
	require.NoError(t, err)

	opts := &symmetric.SEEDModeOpts{Mode: mode.CBC, Padding: padding.PKCS7}
	ct, err := impl.Encrypt(key, []byte("1111111111111111"), opts)
	require.NoError(t, err)
	require.Len(t, ct, 32)

	pt, err := impl.Decrypt(key, ct, opts)
	require.NoError(t, err)
	require.Equal(t, "1111111111111111", string(pt))

	dk, err := impl.KeyDeriv(key, &symmetric.SEEDKeyDerivOpts{Arg: []byte("child")})
	require.NoError(t, err)
	require.NotEqual(t, key.SKI(), dk.SKI())

	// CBC 下篡改前一个密文分组的最后一个字节，填充分组的最后一个字节变成 0x11。
	ct[15] ^= 0x01
	_, err = impl.Decrypt(key, ct, opts)
	require.ErrorIs(t, err, errors.ErrPadding)
	_, err = impl.Decrypt(key, ct[:20], opts)
	require.ErrorIs(t, err, errors.ErrCipherLength)

	digest, err := impl.Hash([]byte("zeed"), &hash.SHA256Opts{})
	require.NoError(t, err)
	sum := sha256.Sum256([]byte("zeed"))
	require.Equal(t, sum[:], digest)

	hf, err := impl.GetHash(&hash.SHA256Opts{})
	require.NoError(t, err)
	require.Equal(t, sha256.Size, hf.Size())

	operations := counterValues(t, registry, "operations")
	require.Equal(t, 1.0, operations["key_import"])
	require.Equal(t, 1.0, operations["encrypt"])
	require.Equal(t, 3.0, operations["decrypt"])
	require.Equal(t, 1.0, operations["key_deriv"])
	require.Equal(t, 1.0, operations["hash"])

	failures := counterValues(t, registry, "failures")
	require.Equal(t, 1.0, failures["decrypt/padding error"])
	require.Equal(t, 1.0, failures["decrypt/cipher length error"])

	processed := counterValues(t, registry, "processed_bytes")
	require.Equal(t, 1.0, processed["encrypt"])
	require.Equal(t, 3.0, processed["decrypt"])
}

func TestDispatchErrors(t *testing.T) {
	impl, err := softimpl.NewSoftCSPImpl(nil)
	require.NoError(t, err)

	_, err = impl.KeyImport(nil, &symmetric.SEEDKeyImportOpts{})
	require.Error(t, err)
	_, err = impl.KeyImport("1234", nil)
	require.Error(t, err)
	_, err = impl.KeyImport("1234", &symmetric.SEEDKeyImportOpts{})
	require.Error(t, err)

	_, err = impl.Encrypt(nil, []byte("x"), nil)
	require.Error(t, err)
	_, err = impl.Decrypt(&mocks.MockKey{}, []byte("x"), nil)
	require.Error(t, err)
	_, err = impl.KeyDeriv(&mocks.MockKey{}, nil)
	require.Error(t, err)
	_, err = impl.Hash([]byte("x"), &hash.SHA256Opts{})
	require.Error(t, err)
	_, err = impl.GetHash(nil)
	require.Error(t, err)

	require.Error(t, softimpl.RegisterWidget(impl, nil, symmetric.NewSEEDEncrypter()))
	require.Error(t, softimpl.RegisterWidget(impl, reflect.TypeOf(&mocks.MockKey{}), nil))
	require.Error(t, softimpl.RegisterWidget(impl, reflect.TypeOf(&mocks.MockKey{}), "not a widget"))
}

func TestDispatchToMockWidgets(t *testing.T) {
	impl, err := softimpl.NewSoftCSPImpl(nil)
	require.NoError(t, err)

	key := &mocks.MockKey{}
	keyType := reflect.TypeOf(key)

	importer := &mocks.MockKeyImporter{}
	importOpts := &mocks.MockKeyImportOpts{Name: "MOCK"}
	importer.On("KeyImport", "raw", importOpts).Return(key, nil).Once()
	require.NoError(t, softimpl.RegisterWidget(impl, reflect.TypeOf(importOpts), importer))

	encrypter := &mocks.MockEncrypter{}
	encrypter.On("Encrypt", key, []byte("plain"), mock.Anything).Return([]byte("cipher"), nil)
	require.NoError(t, softimpl.RegisterWidget(impl, keyType, encrypter))

	decrypter := &mocks.MockDecrypter{}
	decrypter.On("Decrypt", key, []byte("cipher"), nil).Return(nil, errors.New(errors.KindPadding, "padding error"))
	require.NoError(t, softimpl.RegisterWidget(impl, keyType, decrypter))

	deriver := &mocks.MockKeyDeriver{}
	deriveOpts := &mocks.MockKeyDerivOpts{Name: "MOCK"}
	deriver.On("KeyDeriv", key, deriveOpts).Return(nil, errors.New(errors.KindConfig, "no hash function"))
	require.NoError(t, softimpl.RegisterWidget(impl, keyType, deriver))

	got, err := impl.KeyImport("raw", importOpts)
	require.NoError(t, err)
	require.Same(t, key, got)

	ct, err := impl.Encrypt(key, []byte("plain"), nil)
	require.NoError(t, err)
	require.Equal(t, []byte("cipher"), ct)

	_, err = impl.Decrypt(key, []byte("cipher"), nil)
	require.ErrorIs(t, err, errors.ErrPadding)

	// 包装之后仍然保留错误种类。
	_, err = impl.KeyDeriv(key, deriveOpts)
	require.ErrorIs(t, err, errors.ErrConfig)

	importer.AssertExpectations(t)
	encrypter.AssertExpectations(t)
	decrypter.AssertExpectations(t)
	deriver.AssertExpectations(t)
}
