package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the appointment request flow.
type BookingMetrics struct {
	submissionsTotal *prometheus.CounterVec
	deliveryLatency  *prometheus.HistogramVec
	uploadsTotal     *prometheus.CounterVec
	uploadBytes      prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Appointment request submissions by outcome",
		}, []string{"outcome"}),
		deliveryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "delivery_latency_seconds",
			Help:      "Latency of the outbound notification send",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "referral_uploads_total",
			Help:      "Referral document uploads by status",
		}, []string{"status"}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "referral_upload_bytes",
			Help:      "Size of accepted referral documents",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 6),
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.deliveryLatency, m.uploadsTotal, m.uploadBytes)
	return m
}

func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveDelivery(success bool, seconds float64) {
	if m == nil {
		return
	}
	status := "sent"
	if !success {
		status = "failed"
	}
	m.deliveryLatency.WithLabelValues(status).Observe(seconds)
}

func (m *BookingMetrics) ObserveUpload(status string, size int64) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(status).Inc()
	if status == "stored" {
		m.uploadBytes.Observe(float64(size))
	}
}
