package softimpl

import (
	"hash"
	"reflect"

	"github.com/zhangsob/zeed/common/metrics"
	"github.com/zhangsob/zeed/common/metrics/disabled"
	"github.com/zhangsob/zeed/common/mlog"
	"github.com/zhangsob/zeed/csp/interfaces"
	"github.com/zhangsob/zeed/errors"
)

var logger = mlog.GetLogger("csp", mlog.InfoLevel)

var (
	operationsCounterOpts = metrics.CounterOpts{
		Namespace:    "zeed",
		Subsystem:    "csp",
		Name:         "operations",
		Help:         "The number of CSP operations, labeled by operation.",
		LabelNames:   []string{"operation"},
		StatsdFormat: "%{#fqname}.%{operation}",
	}
	failuresCounterOpts = metrics.CounterOpts{
		Namespace:    "zeed",
		Subsystem:    "csp",
		Name:         "failures",
		Help:         "The number of failed CSP operations, labeled by operation and error kind.",
		LabelNames:   []string{"operation", "kind"},
		StatsdFormat: "%{#fqname}.%{operation}.%{kind}",
	}
	processedBytesHistogramOpts = metrics.HistogramOpts{
		Namespace:    "zeed",
		Subsystem:    "csp",
		Name:         "processed_bytes",
		Help:         "The input size of encrypt and decrypt operations.",
		Buckets:      []float64{16, 256, 4096, 65536, 1048576},
		LabelNames:   []string{"operation"},
		StatsdFormat: "%{#fqname}.%{operation}",
	}
)

type cspMetrics struct {
	operations     metrics.Counter
	failures       metrics.Counter
	processedBytes metrics.Histogram
}

func newCSPMetrics(p metrics.Provider) *cspMetrics {
	return &cspMetrics{
		operations:     p.NewCounter(operationsCounterOpts),
		failures:       p.NewCounter(failuresCounterOpts),
		processedBytes: p.NewHistogram(processedBytesHistogramOpts),
	}
}

/* ------------------------------------------------------------------------------------------ */

// SoftCSPImpl 根据密钥或选项的类型把请求分发给注册的组件。组件注册完成之后可以并发使用。
type SoftCSPImpl struct {
	KeyDerivers  map[reflect.Type]interfaces.KeyDeriver
	KeyImporters map[reflect.Type]interfaces.KeyImporter
	Encrypters   map[reflect.Type]interfaces.Encrypter
	Decrypters   map[reflect.Type]interfaces.Decrypter
	Hashers      map[reflect.Type]interfaces.Hasher

	metrics *cspMetrics
}

// NewSoftCSPImpl provider 为空时不记录任何指标。
func NewSoftCSPImpl(provider metrics.Provider) (*SoftCSPImpl, error) {
	if provider == nil {
		provider = &disabled.Provider{}
	}

	impl := &SoftCSPImpl{
		KeyDerivers:  make(map[reflect.Type]interfaces.KeyDeriver),
		KeyImporters: make(map[reflect.Type]interfaces.KeyImporter),
		Encrypters:   make(map[reflect.Type]interfaces.Encrypter),
		Decrypters:   make(map[reflect.Type]interfaces.Decrypter),
		Hashers:      make(map[reflect.Type]interfaces.Hasher),
		metrics:      newCSPMetrics(provider),
	}

	return impl, nil
}

func (csp *SoftCSPImpl) observe(operation string, err error) {
	csp.metrics.operations.With("operation", operation).Add(1)
	if err != nil {
		kind := errors.KindOf(err)
		csp.metrics.failures.With("operation", operation, "kind", kind.String()).Add(1)
		logger.Debugf("%s failed: %s", operation, kind.String())
	}
}

func (csp *SoftCSPImpl) KeyDeriv(key interfaces.Key, opts interfaces.KeyDerivOpts) (dk interfaces.Key, err error) {
	defer func() { csp.observe("key_deriv", err) }()

	if key == nil {
		return nil, errors.NewError("invalid key, nil key")
	}

	if opts == nil {
		return nil, errors.NewError("invalid option, nil option")
	}

	kd, found := csp.KeyDerivers[reflect.TypeOf(key)]
	if !found {
		return nil, errors.NewErrorf("cannot find out the key deriver for the key of type \"%T\"", key)
	}

	dk, err = kd.KeyDeriv(key, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed deriving key with option \"%T\"", opts)
	}

	return dk, nil
}

func (csp *SoftCSPImpl) KeyImport(raw interface{}, opts interfaces.KeyImportOpts) (key interfaces.Key, err error) {
	defer func() { csp.observe("key_import", err) }()

	if raw == nil {
		return nil, errors.NewError("invalid raw material, nil raw material")
	}
	if opts == nil {
		return nil, errors.NewError("invalid option, nil option")
	}

	ki, found := csp.KeyImporters[reflect.TypeOf(opts)]
	if !found {
		return nil, errors.NewErrorf("cannot find out the key importer for the option \"%T\"", opts)
	}

	key, err = ki.KeyImport(raw, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed importing key with option \"%T\"", opts)
	}

	return key, nil
}

func (csp *SoftCSPImpl) Hash(msg []byte, opts interfaces.HashOpts) (digest []byte, err error) {
	defer func() { csp.observe("hash", err) }()

	if opts == nil {
		return nil, errors.NewError("invalid option, nil option")
	}

	hasher, found := csp.Hashers[reflect.TypeOf(opts)]
	if !found {
		return nil, errors.NewErrorf("cannot find out the hash function for the option \"%T\"", opts)
	}

	digest, err = hasher.Hash(msg, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed hashing message with option \"%T\"", opts)
	}

	return digest, nil
}

func (csp *SoftCSPImpl) GetHash(opts interfaces.HashOpts) (hash.Hash, error) {
	if opts == nil {
		return nil, errors.NewError("invalid option, nil option")
	}

	hasher, found := csp.Hashers[reflect.TypeOf(opts)]
	if !found {
		return nil, errors.NewErrorf("cannot find out the hash function for the option \"%T\"", opts)
	}

	hf, err := hasher.GetHash(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed get hash function with option \"%T\"", opts)
	}

	return hf, nil
}

func (csp *SoftCSPImpl) Encrypt(key interfaces.Key, plaintext []byte, opts interfaces.EncrypterOpts) (ciphertext []byte, err error) {
	defer func() { csp.observe("encrypt", err) }()

	if key == nil {
		return nil, errors.NewErrorf("invalid key, nil key")
	}

	encrypter, found := csp.Encrypters[reflect.TypeOf(key)]
	if !found {
		return nil, errors.NewErrorf("cannot find out the encrypter for the key \"%T\"", key)
	}

	csp.metrics.processedBytes.With("operation", "encrypt").Observe(float64(len(plaintext)))
	return encrypter.Encrypt(key, plaintext, opts)
}

func (csp *SoftCSPImpl) Decrypt(key interfaces.Key, ciphertext []byte, opts interfaces.DecrypterOpts) (plaintext []byte, err error) {
	defer func() { csp.observe("decrypt", err) }()

	if key == nil {
		return nil, errors.NewErrorf("invalid key, nil key")
	}

	decrypter, found := csp.Decrypters[reflect.TypeOf(key)]
	if !found {
		return nil, errors.NewErrorf("cannot find out the decrypter for the key \"%T\"", key)
	}

	csp.metrics.processedBytes.With("operation", "decrypt").Observe(float64(len(ciphertext)))
	return decrypter.Decrypt(key, ciphertext, opts)
}

// RegisterWidget 注册一个组件：KeyImporter 与 Hasher 以选项类型为键，其余组件以密钥类型为键。
// 同时实现了 Encrypter 与 Decrypter 的组件需要分别注册两次。
func RegisterWidget(scsp *SoftCSPImpl, t reflect.Type, w interface{}) error {
	if t == nil {
		return errors.NewError("invalid type, nil type")
	}

	if w == nil {
		return errors.NewError("invalid widget, nil widget")
	}

	switch ww := w.(type) {
	case interfaces.KeyImporter:
		scsp.KeyImporters[t] = ww
	case interfaces.KeyDeriver:
		scsp.KeyDerivers[t] = ww
	case interfaces.Encrypter:
		scsp.Encrypters[t] = ww
	case interfaces.Decrypter:
		scsp.Decrypters[t] = ww
	case interfaces.Hasher:
		scsp.Hashers[t] = ww
	default:
		return errors.NewErrorf("widget type \"%T\" is not recognized", w)
	}
	return nil
}
