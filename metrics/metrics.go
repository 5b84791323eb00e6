// Package metrics provides Prometheus observability metrics for the PTO advisor.
// It includes Critical and Important metrics for staffing-risk and operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Staffing Risk Visibility
// =============================================================================

// RecommendationsTotal counts recommendations by classification (approve|caution|deny).
var RecommendationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "advisor",
	Name:      "recommendations_total",
	Help:      "Total recommendations produced, by classification",
}, []string{"status"})

// RecommendationsSkipped counts requests whose employee could not be resolved.
var RecommendationsSkipped = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "advisor",
	Name:      "recommendations_skipped_total",
	Help:      "Requests skipped because the requesting employee was not found",
})

// StaffingShortfalls counts availability analyses that fell below minimum staffing.
var StaffingShortfalls = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "advisor",
	Name:      "staffing_shortfalls_total",
	Help:      "Availability analyses below the department minimum staffing level",
}, []string{"department"})

// SkillsAtRisk tracks the number of critical skills with no available holder
// in the most recent analysis for each department.
var SkillsAtRisk = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "advisor",
	Name:      "critical_skills_at_risk",
	Help:      "Critical skills with zero available holders in the last analysis",
}, []string{"department"})

// CoverageRatio tracks the coverage ratio of the most recent analysis per department.
var CoverageRatio = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "advisor",
	Name:      "coverage_ratio",
	Help:      "Available roster members divided by roster size in the last analysis",
}, []string{"department"})

// RequestTransitions counts leave request lifecycle transitions by target status.
var RequestTransitions = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "store",
	Name:      "request_transitions_total",
	Help:      "Leave request lifecycle transitions, by resulting status",
}, []string{"status"})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total fixture parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total fixture records successfully parsed, by collection",
}, []string{"collection"})

// ParserDurationSeconds tracks time to parse fixture input.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse fixture input",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// AnalyzerDurationSeconds tracks time to analyze availability.
var AnalyzerDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "advisor",
	Name:      "analyze_duration_seconds",
	Help:      "Time taken to analyze department availability",
	Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
})

// AssistantQueriesTotal counts assistant queries by the intent they resolved to.
var AssistantQueriesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "assistant",
	Name:      "queries_total",
	Help:      "Assistant queries by resolved intent",
}, []string{"intent"})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetAdvisorGauges resets all per-department gauges, e.g. after the
// dataset is reloaded.
func ResetAdvisorGauges() {
	SkillsAtRisk.Reset()
	CoverageRatio.Reset()
}
