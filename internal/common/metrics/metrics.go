// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var scoreBuckets = prometheus.LinearBuckets(0, 10, 11)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	EvaluationScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluation_score",
			Help:    "Distribution of evaluation sub-scores",
			Buckets: scoreBuckets,
		},
		[]string{"dimension"},
	)

	EvaluationGrades = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_grades_total",
			Help: "Number of grades assigned per dimension",
		},
		[]string{"dimension", "grade"},
	)

	ResultSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_result_submissions_total",
			Help: "Result submissions by outcome (submitted, skipped_duplicate, failed)",
		},
		[]string{"outcome"},
	)
)

// Dimension labels.
const (
	DimensionCompatibility = "compatibility"
	DimensionConvenience   = "convenience"
	DimensionLifestyle     = "lifestyle"
)

// ObserveEvaluation records the three sub-scores and their grades.
func ObserveEvaluation(compatibility, convenience, lifestyle int, compatibilityGrade, convenienceGrade, lifestyleGrade string) {
	EvaluationScore.WithLabelValues(DimensionCompatibility).Observe(float64(compatibility))
	EvaluationScore.WithLabelValues(DimensionConvenience).Observe(float64(convenience))
	EvaluationScore.WithLabelValues(DimensionLifestyle).Observe(float64(lifestyle))

	EvaluationGrades.WithLabelValues(DimensionCompatibility, compatibilityGrade).Inc()
	EvaluationGrades.WithLabelValues(DimensionConvenience, convenienceGrade).Inc()
	EvaluationGrades.WithLabelValues(DimensionLifestyle, lifestyleGrade).Inc()
}
