// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts the datagrams seen by a Monitor.
type Metrics struct {
	registry *prometheus.Registry
	messages *prometheus.CounterVec
	errors   *prometheus.CounterVec
	bytes    *prometheus.CounterVec
}

func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gtp_messages_received_total",
			Help: "Total number of decoded GTP messages by plane and message type",
		}, []string{"plane", "type"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gtp_decode_errors_total",
			Help: "Total number of datagrams that failed to decode by plane",
		}, []string{"plane"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gtp_received_bytes_total",
			Help: "Total received bytes by plane",
		}, []string{"plane"}),
	}
	for _, c := range []prometheus.Collector{m.messages, m.errors, m.bytes} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) received(plane Plane, n int) {
	m.bytes.WithLabelValues(plane.String()).Add(float64(n))
}

func (m *Metrics) decoded(d *Datagram) {
	m.messages.WithLabelValues(d.Plane.String(), d.Type).Inc()
}

func (m *Metrics) failed(plane Plane) {
	m.errors.WithLabelValues(plane.String()).Inc()
}

func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.InstrumentMetricHandler(m.registry, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
