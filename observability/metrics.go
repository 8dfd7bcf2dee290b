// Package observability provides optional metrics and tracing instruments
// for the receiver. Both are nil-safe: an unconfigured Receiver records
// nothing.
package observability

import (
	gu "github.com/xraph/go-utils/metrics"
)

// Metrics holds metric instruments for hooksink, backed by any go-utils
// MetricFactory.
type Metrics struct {
	PayloadsReceivedTotal gu.Counter
	PayloadsRejectedTotal gu.Counter
	PayloadsEvictedTotal  gu.Counter
	EndpointsActive       gu.Gauge
}

// NewMetrics creates hooksink metric instruments using the supplied factory.
// Use metrics.NewMetricsCollector() from go-utils for standalone usage.
func NewMetrics(factory gu.MetricFactory) *Metrics {
	return &Metrics{
		PayloadsReceivedTotal: factory.Counter("hooksink_payloads_received_total"),
		PayloadsRejectedTotal: factory.Counter("hooksink_payloads_rejected_total"),
		PayloadsEvictedTotal:  factory.Counter("hooksink_payloads_evicted_total"),
		EndpointsActive:       factory.Gauge("hooksink_endpoints_active"),
	}
}

// RecordRejection records a rejected delivery labeled by its failure code.
func (m *Metrics) RecordRejection(code string) {
	m.PayloadsRejectedTotal.WithLabels(map[string]string{"code": code}).Inc()
}
