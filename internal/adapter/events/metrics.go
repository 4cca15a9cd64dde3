package events

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

// Metrics counts published events.
type Metrics struct {
	events       *prometheus.CounterVec
	linksCreated *prometheus.CounterVec
}

// NewMetrics creates the event counters and registers them in reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "Total number of published events",
			},
			[]string{"event"},
		),
		linksCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "links_created_total",
				Help: "Total number of created links",
			},
			[]string{"language", "theme"},
		),
	}
}

func (m *Metrics) Handle(_ context.Context, event entity.Event) error {
	m.events.WithLabelValues(event.EventName()).Inc()

	if e, ok := event.(entity.LinkCreated); ok {
		m.linksCreated.WithLabelValues(e.Language.String(), e.Theme.String()).Inc()
	}

	return nil
}
