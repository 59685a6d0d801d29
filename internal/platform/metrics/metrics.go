package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	LinksIssued         prometheus.Counter
	AuthorizeRejections *prometheus.CounterVec
	UploadsAccepted     prometheus.Counter
	UploadsRejected     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LinksIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doclink_links_issued_total",
			Help: "Total number of upload links issued",
		}),
		AuthorizeRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "doclink_authorize_rejections_total",
			Help: "Total number of token authorization rejections by reason",
		}, []string{"reason"}),
		UploadsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doclink_uploads_accepted_total",
			Help: "Total number of uploads that passed signature verification",
		}),
		UploadsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "doclink_uploads_rejected_total",
			Help: "Total number of uploads rejected by reason",
		}, []string{"reason"}),
	}
}

// IncrementLinksIssued increments the issued links counter by 1.
func (m *Metrics) IncrementLinksIssued() {
	m.LinksIssued.Inc()
}

// IncrementAuthorizeRejections counts a token rejection under its reason.
func (m *Metrics) IncrementAuthorizeRejections(reason string) {
	m.AuthorizeRejections.WithLabelValues(reason).Inc()
}

// IncrementUploadsAccepted increments the accepted uploads counter by 1.
func (m *Metrics) IncrementUploadsAccepted() {
	m.UploadsAccepted.Inc()
}

// IncrementUploadsRejected counts a rejected upload under its reason.
func (m *Metrics) IncrementUploadsRejected(reason string) {
	m.UploadsRejected.WithLabelValues(reason).Inc()
}
