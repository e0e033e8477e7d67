package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Ledger
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_transactions_total",
			Help: "Transactions recorded, by type and status",
		},
		[]string{"type", "status"}, // DEPOSIT|WITHDRAWAL, SUCCEEDED|FAILED
	)
	UsersRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_users_registered_total",
			Help: "Users registered",
		},
	)
	CreditSweepDeactivations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_credit_sweep_deactivations_total",
			Help: "Users deactivated by the monthly credit sweep",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics
var Handler = promhttp.Handler

// Init registers every collector with the default registry; safe to call more than once
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestLatency)
		prometheus.MustRegister(TransactionsTotal)
		prometheus.MustRegister(UsersRegistered)
		prometheus.MustRegister(CreditSweepDeactivations)
	})
}
