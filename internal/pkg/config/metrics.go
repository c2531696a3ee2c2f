package config

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ConfigMetrics tracks fallbacks for one component's configuration:
//
//	{component}_config_load_timestamp
//	{component}_config_fallbacks_total{field}
//	{component}_config_fallback_active
type ConfigMetrics struct {
	LoadTimestamp  prometheus.Gauge
	FallbacksTotal *prometheus.CounterVec
	FallbackActive prometheus.Gauge
}

// NewConfigMetrics registers the metrics for componentName with reg, reusing
// collectors that are already registered. A nil reg uses the default registerer.
func NewConfigMetrics(componentName string, reg prometheus.Registerer) *ConfigMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &ConfigMetrics{
		LoadTimestamp: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", componentName),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", componentName),
		})),
		FallbacksTotal: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_fallbacks_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration values replaced by defaults", componentName),
		}, []string{"field"})),
		FallbackActive: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_fallback_active", componentName),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", componentName),
		})),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// RecordLoad stamps the load time and records which fields fell back.
func (m *ConfigMetrics) RecordLoad(fallbackFields []string) {
	m.LoadTimestamp.SetToCurrentTime()
	for _, f := range fallbackFields {
		m.FallbacksTotal.WithLabelValues(f).Inc()
	}
	if len(fallbackFields) > 0 {
		m.FallbackActive.Set(1)
	} else {
		m.FallbackActive.Set(0)
	}
}
