package internal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zhangsob/zeed/common/metrics"
)

var (
	// formatRegexp 匹配 %{label} 形式的占位符，#namespace、#subsystem、#name、#fqname 是保留的占位符。
	formatRegexp            = regexp.MustCompile(`%{([#?[:alnum:]_]+)}`)
	invalidLabelValueRegexp = regexp.MustCompile(`[.|:\s]`)
)

// Namer 按照 StatsdFormat 把指标名和标签值拼成 statsd 的指标名。
type Namer struct {
	namespace  string
	subsystem  string
	name       string
	nameFormat string
	labelNames map[string]struct{}
}

func NewCounterNamer(opts metrics.CounterOpts) *Namer {
	return newNamer(opts.Namespace, opts.Subsystem, opts.Name, opts.StatsdFormat, opts.LabelNames)
}

func NewHistogramNamer(opts metrics.HistogramOpts) *Namer {
	return newNamer(opts.Namespace, opts.Subsystem, opts.Name, opts.StatsdFormat, opts.LabelNames)
}

func newNamer(namespace, subsystem, name, format string, labelNames []string) *Namer {
	set := make(map[string]struct{}, len(labelNames))
	for _, label := range labelNames {
		set[label] = struct{}{}
	}
	return &Namer{
		namespace:  namespace,
		subsystem:  subsystem,
		name:       name,
		nameFormat: format,
		labelNames: set,
	}
}

// FullyQualifiedName 用 "." 连接非空的 namespace、subsystem 与 name。
func (n *Namer) FullyQualifiedName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.namespace, n.subsystem, n.name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// Format 替换 nameFormat 中的占位符，标签值中的 '.'、'|'、':' 与空白字符被替换成 '_'。
// 出现未声明的标签时 panic。
func (n *Namer) Format(labelValues ...string) string {
	labels2values := n.labelsToMap(labelValues)

	return formatRegexp.ReplaceAllStringFunc(n.nameFormat, func(placeholder string) string {
		key := placeholder[2 : len(placeholder)-1]
		switch key {
		case "#namespace":
			return n.namespace
		case "#subsystem":
			return n.subsystem
		case "#name":
			return n.name
		case "#fqname":
			return n.FullyQualifiedName()
		}
		value, ok := labels2values[key]
		if !ok {
			panic(fmt.Sprintf("invalid label in name format: %s", key))
		}
		return invalidLabelValueRegexp.ReplaceAllString(value, "_")
	})
}

/* ------------------------------------------------------------------------------------------ */

func (n *Namer) labelsToMap(labelValues []string) map[string]string {
	kvs := make(map[string]string, len(labelValues)/2+1)
	for i := 0; i < len(labelValues); i += 2 {
		label := labelValues[i]
		if _, ok := n.labelNames[label]; !ok {
			panic(fmt.Sprintf("invalid label name: %s", label))
		}
		if i == len(labelValues)-1 {
			kvs[label] = "unknown"
		} else {
			kvs[label] = labelValues[i+1]
		}
	}
	return kvs
}
