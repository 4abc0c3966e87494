package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var questionsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "questions_generated_total",
	Help: "Generated question slots labelled by outcome (ok, dropped, invalid)",
}, []string{"outcome"})

var verificationScore = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "verification_total_score",
	Help:    "Grounding verification score distribution.",
	Buckets: []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1},
})

var gradingScore = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "grading_item_score",
	Help:    "Per-item grading score distribution.",
	Buckets: []float64{0, .25, .5, .75, 1},
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) CaptureWriteHeaderMetrics(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CountQuestionOutcome(outcome string) {
	questionsGenerated.WithLabelValues(outcome).Inc()
}

func ObserveVerificationScore(score float64) {
	verificationScore.Observe(score)
}

func ObserveGradingScore(score float64) {
	gradingScore.Observe(score)
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_request_duration_seconds",
	Help:    "Total time spent in a pipeline operation.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"operation"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CapturePipelineMetrics(operation string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(operation).Observe(timeElapsed.Seconds())
}
