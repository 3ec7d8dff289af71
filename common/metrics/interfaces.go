package metrics

// Provider 创建指标，disabled、prometheus、statsd 三个子包各自实现了一个 Provider。
type Provider interface {
	NewCounter(CounterOpts) Counter
	NewHistogram(HistogramOpts) Histogram
}

/* ------------------------------------------------------------------------------------------ */

type Counter interface {
	// With 传入交替排列的标签名与标签值。
	With(labelValues ...string) Counter
	Add(delta float64)
}

/* ------------------------------------------------------------------------------------------ */

type Histogram interface {
	With(labelValues ...string) Histogram
	Observe(value float64)
}
