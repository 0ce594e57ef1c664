package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service counters exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	sessionLogins       prometheus.Counter
	attendanceLogins    prometheus.Counter
	attendanceLogouts   prometheus.Counter
	attendanceConflicts prometheus.Counter
	rotationReplays     prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		sessionLogins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "session_logins_total",
			Help: "Number of successful credential logins.",
		}),
		attendanceLogins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_logins_total",
			Help: "Number of attendance login records created.",
		}),
		attendanceLogouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_logouts_total",
			Help: "Number of attendance records closed by logout.",
		}),
		attendanceConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_conflicts_total",
			Help: "Number of duplicate same-day login attempts rejected.",
		}),
		rotationReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refresh_rotation_replays_total",
			Help: "Number of refresh tokens rejected because the stored handle no longer matched.",
		}),
	}

	registry.MustRegister(
		m.sessionLogins,
		m.attendanceLogins,
		m.attendanceLogouts,
		m.attendanceConflicts,
		m.rotationReplays,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RecordSessionLogin()       { m.sessionLogins.Inc() }
func (m *Metrics) RecordAttendanceLogin()    { m.attendanceLogins.Inc() }
func (m *Metrics) RecordAttendanceLogout()   { m.attendanceLogouts.Inc() }
func (m *Metrics) RecordAttendanceConflict() { m.attendanceConflicts.Inc() }
func (m *Metrics) RecordRotationReplay()     { m.rotationReplays.Inc() }
