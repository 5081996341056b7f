// Package metrics exposes Prometheus counters for roster changes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess           = "success"
	OutcomeNotFound          = "not_found"
	OutcomeAlreadyRegistered = "already_registered"
	OutcomeNotRegistered     = "not_registered"
	OutcomeFull              = "full"
	OutcomeInvalid           = "invalid"
	OutcomeError             = "error"
)

var (
	Signups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_signups_total",
			Help: "Total number of signup requests by outcome",
		},
		[]string{"outcome"},
	)

	Unregistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_unregistrations_total",
			Help: "Total number of unregister requests by outcome",
		},
		[]string{"outcome"},
	)

	Participants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activities_participants",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	JournalErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "activities_journal_errors_total",
			Help: "Total number of enrollment events that could not be journaled",
		},
	)
)

// SetParticipants records the roster size of an activity. It matches the
// registry's roster observer signature.
func SetParticipants(activity string, size int) {
	Participants.WithLabelValues(activity).Set(float64(size))
}
