package prometheus

import (
	kitmetrics "github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/zhangsob/zeed/common/metrics"
)

// Provider 把指标注册到 Registerer，Registerer 为空时注册到 prometheus 的默认注册表。
type Provider struct {
	Registerer prom.Registerer
}

func (p *Provider) registerer() prom.Registerer {
	if p.Registerer == nil {
		return prom.DefaultRegisterer
	}
	return p.Registerer
}

// register 同名且标签相同的指标已经注册过时返回已有的那个，其他注册错误直接 panic。
func (p *Provider) register(c prom.Collector) prom.Collector {
	if err := p.registerer().Register(c); err != nil {
		if are, ok := err.(prom.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

/* ------------------------------------------------------------------------------------------ */

type Counter struct {
	kitmetrics.Counter
}

func (p *Provider) NewCounter(opts metrics.CounterOpts) metrics.Counter {
	cv := prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      opts.Name,
			Help:      opts.Help,
		},
		opts.LabelNames,
	)
	cv = p.register(cv).(*prom.CounterVec)
	return &Counter{Counter: prometheus.NewCounter(cv)}
}

func (c *Counter) With(labelsValues ...string) metrics.Counter {
	return &Counter{Counter: c.Counter.With(labelsValues...)}
}

/* ------------------------------------------------------------------------------------------ */

type Histogram struct {
	kitmetrics.Histogram
}

func (p *Provider) NewHistogram(opts metrics.HistogramOpts) metrics.Histogram {
	hv := prom.NewHistogramVec(
		prom.HistogramOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      opts.Name,
			Help:      opts.Help,
			Buckets:   opts.Buckets,
		},
		opts.LabelNames,
	)
	hv = p.register(hv).(*prom.HistogramVec)
	return &Histogram{Histogram: prometheus.NewHistogram(hv)}
}

func (h *Histogram) With(labelsValues ...string) metrics.Histogram {
	return &Histogram{Histogram: h.Histogram.With(labelsValues...)}
}
