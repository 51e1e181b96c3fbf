package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	WebhookReceived     prometheus.Counter
	SignatureRejections prometheus.Counter
	MessagesStored      prometheus.Counter
	FAQMatches          prometheus.Counter
	AutoRepliesSent     prometheus.Counter
	AutoReplyFailures   prometheus.Counter
	LabelsAdded         prometheus.Counter
	LabelsRemoved       prometheus.Counter
	ProcessingTime      prometheus.Histogram
	ActiveClients       prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		WebhookReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whatsdesk_webhook_received_total",
			Help: "Total number of inbound webhook events received",
		}),
		SignatureRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whatsdesk_signature_rejections_total",
			Help: "Total number of webhook events rejected for invalid signatures",
		}),
		MessagesStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whatsdesk_messages_stored_total",
			Help: "Total number of inbound messages persisted",
		}),
		FAQMatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whatsdesk_faq_matches_total",
			Help: "Total number of inbound messages answered by a FAQ",
		}),
		AutoRepliesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whatsdesk_auto_replies_sent_total",
			Help: "Total number of auto replies dispatched",
		}),
		AutoReplyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whatsdesk_auto_reply_failures_total",
			Help: "Total number of auto replies that failed to send",
		}),
		LabelsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whatsdesk_labels_added_total",
			Help: "Total number of auto labels attached to clients",
		}),
		LabelsRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whatsdesk_labels_removed_total",
			Help: "Total number of auto labels detached from clients",
		}),
		ProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "whatsdesk_webhook_processing_duration_seconds",
			Help:    "Time spent processing inbound webhook events",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveClients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "whatsdesk_active_clients",
			Help: "Number of active clients across all accounts",
		}),
	}
}
