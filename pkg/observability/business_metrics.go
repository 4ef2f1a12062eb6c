package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	// Payload generation metrics
	qrPayloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qr_payloads_total",
		Help: "Total number of QR payload build attempts",
	}, []string{
		"presented_type", // merchant, customer
		"output",         // payload, image
		"status",         // success, invalid, render_failed, timeout, error
	})

	qrAmountSatang = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qr_amount_satang_total",
		Help: "Total requested amount in minor units for successfully generated payloads",
	}, []string{
		"currency",
	})

	qrPayloadLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qr_payload_length_chars",
		Help:    "Length of generated payload text in characters",
		Buckets: []float64{64, 96, 128, 160, 192, 256, 384, 512},
	})

	qrRenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "qr_render_duration_seconds",
		Help: "Time spent rasterizing the payload into a PNG",
		// Buckets: 1ms to 1s
		Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
	}, []string{
		"level",
	})

	qrVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qr_verifications_total",
		Help: "Total payload verification requests",
	}, []string{
		"result", // valid, checksum_mismatch, malformed
	})
)

// RecordPayload records one payload build attempt. amount and length are
// only counted for successful builds.
func RecordPayload(presentedType, output, status, currency string, amount decimal.Decimal, length int) {
	qrPayloadsTotal.WithLabelValues(presentedType, output, status).Inc()
	if status != "success" {
		return
	}
	qrAmountSatang.WithLabelValues(currency).Add(amount.Shift(2).InexactFloat64())
	qrPayloadLength.Observe(float64(length))
}

// RecordRender records the rasterizer latency for the given level
func RecordRender(level string, seconds float64) {
	qrRenderDuration.WithLabelValues(level).Observe(seconds)
}

// RecordVerification records the verdict of a payload verification
func RecordVerification(result string) {
	qrVerificationsTotal.WithLabelValues(result).Inc()
}
