package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Acknowledgement outcomes used as the "result" label.
const (
	AckFirst     = "first"
	AckDuplicate = "duplicate"
	AckNotFound  = "not_found"
)

var (
	riskChecksRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phishwatch_risk_checks_recorded_total",
		Help: "Total number of risk checks written to the ledger",
	})
	riskChecksThreatTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phishwatch_risk_checks_threat_total",
		Help: "Total number of recorded risk checks scoring at or above the threat threshold",
	})
	notificationsBroadcastTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phishwatch_notifications_broadcast_total",
		Help: "Total number of notifications broadcast by administrators",
	})
	notificationsDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phishwatch_notifications_deleted_total",
		Help: "Total number of notifications deleted by administrators",
	})
	notificationAcksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phishwatch_notification_acks_total",
		Help: "Notification acknowledgements by outcome",
	}, []string{"result"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry prometheus.Registerer) {
	registry.MustRegister(
		riskChecksRecordedTotal,
		riskChecksThreatTotal,
		notificationsBroadcastTotal,
		notificationsDeletedTotal,
		notificationAcksTotal,
	)
}

// IncRiskCheckRecorded increments the recorded checks counter.
func IncRiskCheckRecorded(threat bool) {
	riskChecksRecordedTotal.Inc()
	if threat {
		riskChecksThreatTotal.Inc()
	}
}

// IncNotificationBroadcast increments the broadcast counter.
func IncNotificationBroadcast() { notificationsBroadcastTotal.Inc() }

// IncNotificationDeleted increments the deletion counter.
func IncNotificationDeleted() { notificationsDeletedTotal.Inc() }

// IncNotificationAck increments the acknowledgement counter for result.
func IncNotificationAck(result string) { notificationAcksTotal.WithLabelValues(result).Inc() }
