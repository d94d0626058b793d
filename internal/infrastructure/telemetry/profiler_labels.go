package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelRoute   = "route"
	ProfilingLabelMethod  = "method"
	ProfilingLabelJob     = "job"
	ProfilingLabelTrigger = "trigger"
)

// MaxLabelValueLength caps label values to keep profile cardinality low
const MaxLabelValueLength = 128

// highCardinalityLabels never reach Pyroscope
var highCardinalityLabels = map[string]bool{
	"cnpj":       true,
	"cliente_id": true,
	"guia_id":    true,
	"request_id": true,
	"trace_id":   true,
	"job_id":     true,
}

// WithProfilingLabels runs fn with the sanitized labels attached to its
// profiling samples. The labels map is not retained.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// HTTPRequestLabels labels a request by its route pattern
func HTTPRequestLabels(route, method string) map[string]string {
	return map[string]string{
		ProfilingLabelRoute:  route,
		ProfilingLabelMethod: method,
	}
}

// JobLabels labels an automation job run
func JobLabels(job string, scheduled bool) map[string]string {
	trigger := "manual"
	if scheduled {
		trigger = "schedule"
	}
	return map[string]string{
		ProfilingLabelJob:     job,
		ProfilingLabelTrigger: trigger,
	}
}

// sanitizeLabels returns sorted key/value pairs, dropping empty and
// high-cardinality labels and truncating long values
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		if value == "" {
			continue
		}
		key = sanitizeLabelKey(key)
		if key == "" || highCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		pairs = append(pairs, key, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases key and keeps only [a-z0-9_]
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
