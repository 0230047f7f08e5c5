// Package metrics exposes Prometheus counters for the repayment engine.
// A private registry is used so only engine metrics appear on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the engine's Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	proposalsComputed       *prometheus.CounterVec
	proposalsRejected       *prometheus.CounterVec
	paymentsConfirmed       prometheus.Counter
	reconciliationFailures  prometheus.Counter
	settlementsComputed     *prometheus.CounterVec
	feeScheduleLookups      *prometheus.CounterVec
	proposalDuration        prometheus.Histogram
	confirmedPaymentAmounts prometheus.Histogram
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		proposalsComputed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "repayment_proposals_computed_total",
			Help: "Total number of allocation proposals computed, by payment option",
		}, []string{"option"}),
		proposalsRejected: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "repayment_proposals_rejected_total",
			Help: "Total number of proposal requests rejected, by error kind",
		}, []string{"kind"}),
		paymentsConfirmed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "repayment_payments_confirmed_total",
			Help: "Total number of repayments confirmed and recorded",
		}),
		reconciliationFailures: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "repayment_reconciliation_failures_total",
			Help: "Total number of confirmations rejected because allocations did not sum to the declared total",
		}),
		settlementsComputed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "repayment_settlement_dates_computed_total",
			Help: "Total number of settlement dates computed, by repayment method",
		}, []string{"method"}),
		feeScheduleLookups: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "repayment_fee_schedule_lookups_total",
			Help: "Total number of late-fee schedule resolutions, by outcome",
		}, []string{"outcome"}),
		proposalDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "repayment_proposal_duration_seconds",
			Help:    "Time taken to compute an allocation proposal",
			Buckets: prometheus.DefBuckets,
		}),
		confirmedPaymentAmounts: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "repayment_confirmed_amount_dollars",
			Help:    "Distribution of confirmed repayment totals",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		}),
	}
}

// RecordProposal records a computed proposal and its latency.
func (c *Collector) RecordProposal(option string, duration time.Duration) {
	c.proposalsComputed.WithLabelValues(option).Inc()
	c.proposalDuration.Observe(duration.Seconds())
}

// RecordProposalRejected records a rejected proposal request.
func (c *Collector) RecordProposalRejected(kind string) {
	c.proposalsRejected.WithLabelValues(kind).Inc()
}

// RecordPaymentConfirmed records a confirmed repayment.
func (c *Collector) RecordPaymentConfirmed(totalDollars float64) {
	c.paymentsConfirmed.Inc()
	c.confirmedPaymentAmounts.Observe(totalDollars)
}

// RecordReconciliationFailure records a failed confirmation reconciliation.
func (c *Collector) RecordReconciliationFailure() {
	c.reconciliationFailures.Inc()
}

// RecordSettlement records a settlement-date calculation.
func (c *Collector) RecordSettlement(method string) {
	c.settlementsComputed.WithLabelValues(method).Inc()
}

// RecordFeeScheduleLookup records a schedule resolution outcome
// ("resolved", "not_found", "ambiguous").
func (c *Collector) RecordFeeScheduleLookup(outcome string) {
	c.feeScheduleLookups.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
