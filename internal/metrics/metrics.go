// Package metrics exposes the handful of application counters served
// on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

type Metrics struct {
	DocumentsFinalized       *prometheus.CounterVec
	BankTransactionsImported prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the counters on a caller-supplied registry; tests
// use a throwaway one.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DocumentsFinalized: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facture",
			Name:      "documents_finalized_total",
			Help:      "Documents locked and numbered, by kind.",
		}, []string{"kind"}),
		BankTransactionsImported: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "facture",
			Name:      "bank_transactions_imported_total",
			Help:      "Bank transactions imported by sync after deduplication.",
		}),
	}
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
