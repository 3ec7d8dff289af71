package factory

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/zhangsob/zeed/csp/softimpl/encoding"
	"github.com/zhangsob/zeed/csp/softimpl/mode"
	"github.com/zhangsob/zeed/csp/softimpl/padding"
	"github.com/zhangsob/zeed/csp/softimpl/seed"
	"github.com/zhangsob/zeed/csp/softimpl/symmetric"
	"github.com/zhangsob/zeed/errors"
)

// FactoryOpts 对应配置文件中的 csp 部分。
type FactoryOpts struct {
	Kind          string `json:"kind" yaml:"Kind" mapstructure:"Kind"`
	SecurityLevel int    `json:"security_level" yaml:"SecurityLevel" mapstructure:"SecurityLevel"`
	HashFamily    string `json:"hash_family" yaml:"HashFamily" mapstructure:"HashFamily"`
}

// DefaultFactoryOpts 配置文件中没有 csp 部分时使用。
func DefaultFactoryOpts() *FactoryOpts {
	return &FactoryOpts{Kind: "SW", SecurityLevel: 256, HashFamily: "SHA2"}
}

func ReadConfig(v *viper.Viper) (*FactoryOpts, error) {
	opts := DefaultFactoryOpts()
	if v == nil || !v.IsSet("csp") {
		return opts, nil
	}
	if err := v.UnmarshalKey("csp", opts); err != nil {
		return nil, errors.Newf(errors.KindConfig, "cannot read csp config, the error is \"%s\"", err.Error())
	}
	return opts, nil
}

/* ------------------------------------------------------------------------------------------ */

// EngineOpts 对应配置文件中的 seed 部分，描述一个 symmetric.Engine。
type EngineOpts struct {
	Mode     string   `json:"mode" yaml:"Mode" mapstructure:"Mode"`
	KeySize  int      `json:"key_size" yaml:"KeySize" mapstructure:"KeySize"`
	Padding  string   `json:"padding" yaml:"Padding" mapstructure:"Padding"`
	Encoding string   `json:"encoding" yaml:"Encoding" mapstructure:"Encoding"`
	Options  []string `json:"options" yaml:"Options" mapstructure:"Options"`
}

func DefaultEngineOpts() *EngineOpts {
	return &EngineOpts{Mode: "CBC", KeySize: 128, Padding: "PKCS7", Encoding: "BASE64"}
}

func ReadEngineConfig(v *viper.Viper) (*EngineOpts, error) {
	opts := DefaultEngineOpts()
	if v == nil || !v.IsSet("seed") {
		return opts, nil
	}
	if err := v.UnmarshalKey("seed", opts); err != nil {
		return nil, errors.Newf(errors.KindConfig, "cannot read seed config, the error is \"%s\"", err.Error())
	}
	return opts, nil
}

// ModeOpts 把配置转换成 SEEDEncrypter 与 SEEDDecrypter 使用的选项，iv 可以为空。
func (opts *EngineOpts) ModeOpts(iv []byte) (*symmetric.SEEDModeOpts, error) {
	m, err := mode.ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}
	scheme, err := padding.ParseScheme(opts.Padding)
	if err != nil {
		return nil, err
	}
	options, err := opts.options()
	if err != nil {
		return nil, err
	}
	return &symmetric.SEEDModeOpts{Mode: m, Padding: scheme, IV: iv, Options: options}, nil
}

// NewEngine 按照配置创建一个还没有安装密钥的 Engine，并返回配置的编码表。
func (opts *EngineOpts) NewEngine() (*symmetric.Engine, *encoding.Table, error) {
	mo, err := opts.ModeOpts(nil)
	if err != nil {
		return nil, nil, err
	}
	e, err := symmetric.NewEngine(mo.Mode, seed.KeySize(opts.KeySize), mo.Padding)
	if err != nil {
		return nil, nil, err
	}
	e.SetOption(mo.Options)

	table, err := encoding.ParseTable(opts.Encoding)
	if err != nil {
		return nil, nil, err
	}
	return e, table, nil
}

func (opts *EngineOpts) options() (symmetric.Option, error) {
	options := symmetric.None
	for _, name := range opts.Options {
		o, err := symmetric.ParseOption(name)
		if err != nil {
			return symmetric.None, err
		}
		options |= o
	}
	return options, nil
}

/* ------------------------------------------------------------------------------------------ */

// MetricsOpts 对应配置文件中的 metrics 部分。
type MetricsOpts struct {
	// Provider 可取的值包括 disabled、prometheus 和 statsd。
	Provider string `json:"provider" yaml:"Provider" mapstructure:"Provider"`
	Prefix   string `json:"prefix" yaml:"Prefix" mapstructure:"Prefix"`
	// Network 与 Address 为空时 statsd 指标只保存在内存中。
	Network       string        `json:"network" yaml:"Network" mapstructure:"Network"`
	Address       string        `json:"address" yaml:"Address" mapstructure:"Address"`
	WriteInterval time.Duration `json:"write_interval" yaml:"WriteInterval" mapstructure:"WriteInterval"`
}

func DefaultMetricsOpts() *MetricsOpts {
	return &MetricsOpts{Provider: "disabled", Network: "udp", WriteInterval: 10 * time.Second}
}

func ReadMetricsConfig(v *viper.Viper) (*MetricsOpts, error) {
	opts := DefaultMetricsOpts()
	if v == nil || !v.IsSet("metrics") {
		return opts, nil
	}
	if err := v.UnmarshalKey("metrics", opts); err != nil {
		return nil, errors.Newf(errors.KindConfig, "cannot read metrics config, the error is \"%s\"", err.Error())
	}
	opts.Provider = strings.ToLower(strings.TrimSpace(opts.Provider))
	return opts, nil
}
