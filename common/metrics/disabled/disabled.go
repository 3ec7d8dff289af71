package disabled

import "github.com/zhangsob/zeed/common/metrics"

type Provider struct{}

func (p *Provider) NewCounter(metrics.CounterOpts) metrics.Counter {
	return &Counter{}
}

func (p *Provider) NewHistogram(metrics.HistogramOpts) metrics.Histogram {
	return &Histogram{}
}

type Counter struct{}

func (c *Counter) Add(delta float64) {}
func (c *Counter) With(labelValues ...string) metrics.Counter {
	return c
}

type Histogram struct{}

func (h *Histogram) Observe(value float64) {}
func (h *Histogram) With(labelValues ...string) metrics.Histogram {
	return h
}
