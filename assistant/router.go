// Package assistant answers free-text questions about team PTO by matching
// keywords against an ordered rule table and rendering fixed report templates.
package assistant

import (
	"pto-advisor/metrics"
	"pto-advisor/models"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Intent identifies which report a query resolved to.
type Intent string

const (
	IntentPendingRequests  Intent = "pending_requests"
	IntentTeamAvailability Intent = "team_availability"
	IntentSkillsCoverage   Intent = "skills_coverage"
	IntentActiveTasks      Intent = "active_tasks"
	IntentHelp             Intent = "help"
	IntentApprovalHint     Intent = "approval_hint"
	IntentFallback         Intent = "fallback"
)

type rule struct {
	keywords []string
	intent   Intent
}

// rules are checked in order; the first rule with a matching keyword wins.
var rules = []rule{
	{keywords: []string{"pending", "requests"}, intent: IntentPendingRequests},
	{keywords: []string{"team", "availability"}, intent: IntentTeamAvailability},
	{keywords: []string{"skills", "coverage"}, intent: IntentSkillsCoverage},
	{keywords: []string{"tasks", "projects"}, intent: IntentActiveTasks},
	{keywords: []string{"help", "what can you do"}, intent: IntentHelp},
	{keywords: []string{"approve", "deny"}, intent: IntentApprovalHint},
}

// Classify maps a query to an intent with case-insensitive substring matching.
func Classify(query string) Intent {
	lower := strings.ToLower(query)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.intent
			}
		}
	}
	return IntentFallback
}

// Response is the assistant's answer to one query.
type Response struct {
	Intent  Intent `json:"intent"`
	Content string `json:"content"`
}

// Router renders the report for each intent from a dataset snapshot.
type Router struct {
	source func() models.Dataset
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithClock sets the clock used for "currently out" reports.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithLogger sets the router logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l.Named("assistant")
		}
	}
}

// NewRouter creates a router reading a fresh snapshot from source per query.
func NewRouter(source func() models.Dataset, opts ...Option) *Router {
	r := &Router{
		source: source,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond answers a free-text query.
func (r *Router) Respond(query string) Response {
	intent := Classify(query)
	metrics.AssistantQueriesTotal.WithLabelValues(string(intent)).Inc()
	r.logger.Debug("assistant query", zap.String("intent", string(intent)))

	var content string
	switch intent {
	case IntentPendingRequests:
		content = pendingReport(r.source())
	case IntentTeamAvailability:
		content = teamReport(r.source(), r.now())
	case IntentSkillsCoverage:
		content = skillsReport(r.source(), r.now())
	case IntentActiveTasks:
		content = tasksReport(r.source())
	case IntentHelp:
		content = helpText
	case IntentApprovalHint:
		content = approvalHint
	default:
		content = fallback(query)
	}
	return Response{Intent: intent, Content: content}
}
