package main

import (
	"os"
	"path/filepath"

	"github.com/zhangsob/zeed/common/mlog"
	"github.com/zhangsob/zeed/csp/factory"
	"gopkg.in/yaml.v3"
)

// sampleConfig 与 config.yaml 的顶层结构一一对应。
type sampleConfig struct {
	CSP     *factory.FactoryOpts `yaml:"csp"`
	SEED    *factory.EngineOpts  `yaml:"seed"`
	Metrics *factory.MetricsOpts `yaml:"metrics"`
	Log     *mlog.Config         `yaml:"log"`
}

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	engine := factory.DefaultEngineOpts()
	engine.Options = []string{"DECODE_IGNORE_WHITESPACE"}

	metrics := factory.DefaultMetricsOpts()
	metrics.Prefix = "zeed"

	cfg := &sampleConfig{
		CSP:     factory.DefaultFactoryOpts(),
		SEED:    engine,
		Metrics: metrics,
		Log: &mlog.Config{
			Level:             "info",
			SingleFileMaxSize: mlog.DefaultSingleFileMaxSize,
		},
	}

	content, err := yaml.Marshal(cfg)
	if err != nil {
		panic(err)
	}

	path := filepath.Join(dir, "config.yaml")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, os.FileMode(0666))
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if _, err = f.Write(content); err != nil {
		panic(err)
	}
}
