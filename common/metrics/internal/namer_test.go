package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zhangsob/zeed/common/metrics"
)

func TestCounterNamer(t *testing.T) {
	opts := metrics.CounterOpts{
		Namespace:    "zeed",
		Subsystem:    "csp",
		Name:         "operations",
		StatsdFormat: "%{#fqname}.%{operation}.%{mode}",
	}

	// 未声明的标签
	namer := NewCounterNamer(opts)
	require.Panics(t, func() {
		namer.Format("operation", "encrypt", "mode", "CBC")
	})

	opts.LabelNames = []string{"operation", "mode"}
	namer = NewCounterNamer(opts)

	cases := []struct {
		operation, mode, want string
	}{
		{"encrypt", "CBC", "zeed.csp.operations.encrypt.CBC"},
		{"key.import", "CTR", "zeed.csp.operations.key_import.CTR"},
		{"a:b|c", "E C B", "zeed.csp.operations.a_b_c.E_C_B"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, namer.Format("operation", c.operation, "mode", c.mode))
	}

	// 缺少标签值
	require.Equal(t, "zeed.csp.operations.encrypt.unknown", namer.Format("operation", "encrypt", "mode"))
	require.Panics(t, func() { namer.Format("operation", "encrypt") })
}

func TestHistogramNamer(t *testing.T) {
	namer := NewHistogramNamer(metrics.HistogramOpts{
		Subsystem:    "symmetric",
		Name:         "bytes",
		StatsdFormat: "%{#namespace}%{#subsystem}:%{#name}",
	})
	require.Equal(t, "symmetric.bytes", namer.FullyQualifiedName())
	require.Equal(t, "symmetric:bytes", namer.Format())
}
