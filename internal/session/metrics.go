package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the reconciler.
type Metrics struct {
	SignIns         prometheus.Counter
	SignOuts        prometheus.Counter
	Restorations    prometheus.Counter
	RefreshFailures prometheus.Counter
	SetupIncomplete prometheus.Counter
	EventsDropped   prometheus.Counter
	ActiveSessions  prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		SignIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_session_sign_ins_total",
			Help: "Sessions established from provider events",
		}),
		SignOuts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_session_sign_outs_total",
			Help: "Sessions cleared by sign-out events",
		}),
		Restorations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_session_admin_restorations_total",
			Help: "Admin sessions restored after provisioning-noise events",
		}),
		RefreshFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_session_refresh_failures_total",
			Help: "Fatal token refresh failures forcing a client reload",
		}),
		SetupIncomplete: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_session_setup_incomplete_total",
			Help: "Sign-ins rejected because no profile exists for the subject",
		}),
		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studiogate_session_events_dropped_total",
			Help: "Provider events dropped because the reconcile queue was full",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "studiogate_session_active",
			Help: "Whether a session of record currently exists (0 or 1)",
		}),
	}
}

func (m *Metrics) incSignIns() {
	if m != nil {
		m.SignIns.Inc()
	}
}

func (m *Metrics) incSignOuts() {
	if m != nil {
		m.SignOuts.Inc()
	}
}

func (m *Metrics) incRestorations() {
	if m != nil {
		m.Restorations.Inc()
	}
}

func (m *Metrics) incRefreshFailures() {
	if m != nil {
		m.RefreshFailures.Inc()
	}
}

func (m *Metrics) incSetupIncomplete() {
	if m != nil {
		m.SetupIncomplete.Inc()
	}
}

func (m *Metrics) incEventsDropped() {
	if m != nil {
		m.EventsDropped.Inc()
	}
}

func (m *Metrics) setActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.ActiveSessions.Set(1)
	} else {
		m.ActiveSessions.Set(0)
	}
}
