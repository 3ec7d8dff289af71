// Package factory 根据配置创建 CSP、SEED Engine 与指标提供者。
package factory

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	kitstatsd "github.com/go-kit/kit/metrics/statsd"
	kitlog "github.com/go-kit/log"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/zhangsob/zeed/common/metrics"
	"github.com/zhangsob/zeed/common/metrics/disabled"
	"github.com/zhangsob/zeed/common/metrics/prometheus"
	"github.com/zhangsob/zeed/common/metrics/statsd"
	"github.com/zhangsob/zeed/common/mlog"
	"github.com/zhangsob/zeed/csp/interfaces"
	"github.com/zhangsob/zeed/csp/softimpl"
	"github.com/zhangsob/zeed/csp/softimpl/config"
	"github.com/zhangsob/zeed/csp/softimpl/hash"
	"github.com/zhangsob/zeed/csp/softimpl/symmetric"
	"github.com/zhangsob/zeed/errors"
	"golang.org/x/crypto/sha3"
)

var logger = mlog.GetLogger("factory", mlog.InfoLevel)

var (
	defaultFactory *CSPFactory
	factoryMutex   sync.Mutex
)

type CSPFactory struct {
	opts     *FactoryOpts
	provider metrics.Provider
	csps     map[string]interfaces.CSP
}

// InitCSPFactoryWithOpts 初始化全局的 CSP 工厂。工厂的 Kind 一旦确定就不能再修改，
// 安全级别或哈希族发生变化时，已经创建的 CSP 会被重新创建。provider 为空时不记录指标。
func InitCSPFactoryWithOpts(opts *FactoryOpts, provider metrics.Provider) error {
	if opts == nil {
		return errors.New(errors.KindConfig, "invalid factory opts, nil opts")
	}
	if provider == nil {
		provider = &disabled.Provider{}
	}

	factoryMutex.Lock()
	defer factoryMutex.Unlock()

	if defaultFactory == nil {
		defaultFactory = &CSPFactory{
			opts:     &FactoryOpts{Kind: opts.Kind, SecurityLevel: opts.SecurityLevel, HashFamily: opts.HashFamily},
			provider: provider,
			csps:     make(map[string]interfaces.CSP),
		}
		return nil
	}

	if !strings.EqualFold(opts.Kind, defaultFactory.opts.Kind) {
		return errors.Newf(errors.KindConfig, "once the csp factory's kind is specified, it can not be changed from %s to %s", defaultFactory.opts.Kind, opts.Kind)
	}
	changed := false
	if opts.HashFamily != defaultFactory.opts.HashFamily {
		defaultFactory.opts.HashFamily = opts.HashFamily
		changed = true
	}
	if opts.SecurityLevel != defaultFactory.opts.SecurityLevel {
		defaultFactory.opts.SecurityLevel = opts.SecurityLevel
		changed = true
	}
	defaultFactory.provider = provider
	if changed {
		if _, exists := defaultFactory.csps["sw"]; exists {
			newCsp, err := createSoftBasedCSP(defaultFactory.opts, defaultFactory.provider)
			if err != nil {
				return err
			}
			defaultFactory.csps["sw"] = newCsp
			logger.Infof("recreated csp with security level %d and hash family %s", defaultFactory.opts.SecurityLevel, defaultFactory.opts.HashFamily)
		}
	}
	return nil
}

func GetCSP() (interfaces.CSP, error) {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()

	if defaultFactory == nil {
		return nil, errors.New(errors.KindConfig, "you should initialize the csp factory before calling this method")
	}
	switch strings.ToLower(defaultFactory.opts.Kind) {
	case "sw":
		if csp, ok := defaultFactory.csps["sw"]; ok {
			return csp, nil
		}
		csp, err := createSoftBasedCSP(defaultFactory.opts, defaultFactory.provider)
		if err != nil {
			return nil, err
		}
		defaultFactory.csps["sw"] = csp
		return csp, nil
	default:
		return nil, errors.Newf(errors.KindConfig, "unknown crypto service provider mode \"%s\"", defaultFactory.opts.Kind)
	}
}

func createSoftBasedCSP(opts *FactoryOpts, provider metrics.Provider) (interfaces.CSP, error) {
	cfg := config.NewConfig()
	if err := cfg.SetSecurityLevel(opts.SecurityLevel, opts.HashFamily); err != nil {
		return nil, errors.Wrap(err, "cannot create crypto service provider based on software")
	}

	softImpl, err := softimpl.NewSoftCSPImpl(provider)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create crypto service provider based on software")
	}

	widgets := []struct {
		t reflect.Type
		w interface{}
	}{
		// Hash
		{reflect.TypeOf(&hash.SHA256Opts{}), hash.NewHasher(sha256.New)},
		{reflect.TypeOf(&hash.SHA384Opts{}), hash.NewHasher(sha512.New384)},
		{reflect.TypeOf(&hash.SHA3_256Opts{}), hash.NewHasher(sha3.New256)},
		{reflect.TypeOf(&hash.SHA3_384Opts{}), hash.NewHasher(sha3.New384)},

		// Encrypt
		{reflect.TypeOf(&symmetric.SEEDKey{}), symmetric.NewSEEDEncrypter()},

		// Decrypt
		{reflect.TypeOf(&symmetric.SEEDKey{}), symmetric.NewSEEDDecrypter()},

		// Key Import
		{reflect.TypeOf(&symmetric.SEEDKeyImportOpts{}), symmetric.NewSEEDKeyImporter(cfg)},
		{reflect.TypeOf(&symmetric.SEEDPEMKeyImportOpts{}), symmetric.NewSEEDKeyImporter(cfg)},

		// Key Derive
		{reflect.TypeOf(&symmetric.SEEDKey{}), symmetric.NewSEEDKeyDeriver(cfg)},
	}
	for _, widget := range widgets {
		if err = softimpl.RegisterWidget(softImpl, widget.t, widget.w); err != nil {
			return nil, err
		}
	}

	return softImpl, nil
}

/* ------------------------------------------------------------------------------------------ */

// NewMetricsProvider 按照配置创建指标提供者。prometheus 指标注册到 registerer（为空时使用默认注册表）；
// statsd 配置了 Address 时在后台按 WriteInterval 发送，直到 ctx 结束。
func NewMetricsProvider(ctx context.Context, opts *MetricsOpts, registerer prom.Registerer) (metrics.Provider, error) {
	if opts == nil {
		opts = DefaultMetricsOpts()
	}

	switch opts.Provider {
	case "", "disabled":
		return &disabled.Provider{}, nil
	case "prometheus":
		return &prometheus.Provider{Registerer: registerer}, nil
	case "statsd":
		prefix := opts.Prefix
		if prefix != "" && !strings.HasSuffix(prefix, ".") {
			prefix += "."
		}
		s := kitstatsd.New(prefix, &kitLogger{logger: logger.With("metrics", "statsd")})
		if opts.Address != "" {
			interval := opts.WriteInterval
			if interval <= 0 {
				interval = DefaultMetricsOpts().WriteInterval
			}
			network := opts.Network
			if network == "" {
				network = "udp"
			}
			ticker := time.NewTicker(interval)
			go func() {
				defer ticker.Stop()
				s.SendLoop(ctx, ticker.C, network, opts.Address)
			}()
		}
		return &statsd.Provider{Statsd: s}, nil
	default:
		return nil, errors.Newf(errors.KindConfig, "the supported metrics providers contain [disabled, prometheus, statsd], but got \"%s\"", opts.Provider)
	}
}

// kitLogger 把 go-kit 的键值日志转发给 mlog。
type kitLogger struct {
	logger mlog.Logger
}

func (l *kitLogger) Log(keyvals ...interface{}) error {
	pairs := make([]string, 0, (len(keyvals)+1)/2)
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			pairs = append(pairs, fmt.Sprintf("%v=%v", keyvals[i], keyvals[i+1]))
		} else {
			pairs = append(pairs, fmt.Sprintf("%v", keyvals[i]))
		}
	}
	l.logger.Warn(strings.Join(pairs, " "))
	return nil
}

var _ kitlog.Logger = (*kitLogger)(nil)

/* ------------------------------------------------------------------------------------------ */

// Initialize 读取配置中的 log、metrics 与 csp 三个部分：配置日志输出、创建指标提供者并初始化 CSP 工厂。
func Initialize(ctx context.Context, v *viper.Viper) error {
	logCfg, err := mlog.ReadConfig(v)
	if err != nil {
		return err
	}
	if err = mlog.Configure(logCfg); err != nil {
		return err
	}

	metricsOpts, err := ReadMetricsConfig(v)
	if err != nil {
		return err
	}
	provider, err := NewMetricsProvider(ctx, metricsOpts, nil)
	if err != nil {
		return err
	}

	opts, err := ReadConfig(v)
	if err != nil {
		return err
	}
	logger.Infof("initializing csp factory, kind=%s, metrics=%s", opts.Kind, metricsOpts.Provider)
	return InitCSPFactoryWithOpts(opts, provider)
}
