package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	transitionsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_transitions_accepted_total",
		Help: "Total number of accepted status transitions",
	})
	transitionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_transitions_rejected_total",
		Help: "Total number of rejected status transitions by reason",
	}, []string{"reason"})
	documentsUploaded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_documents_uploaded_total",
		Help: "Total number of documents uploaded",
	})
	documentsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_documents_deleted_total",
		Help: "Total number of documents deleted",
	})
	remarksAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_remarks_added_total",
		Help: "Total number of free-text remarks added",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(transitionsAccepted, transitionsRejected, documentsUploaded, documentsDeleted, remarksAdded)
}

// IncTransitionAccepted increments the accepted transitions counter.
func IncTransitionAccepted() { transitionsAccepted.Inc() }

// IncTransitionRejected increments the rejected transitions counter for a reason.
func IncTransitionRejected(reason string) { transitionsRejected.WithLabelValues(reason).Inc() }

// IncDocumentUploaded increments the uploaded documents counter.
func IncDocumentUploaded() { documentsUploaded.Inc() }

// IncDocumentDeleted increments the deleted documents counter.
func IncDocumentDeleted() { documentsDeleted.Inc() }

// IncRemarkAdded increments the free-text remarks counter.
func IncRemarkAdded() { remarksAdded.Inc() }
