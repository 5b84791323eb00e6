package assistant_test

import (
	"pto-advisor/assistant"
	"pto-advisor/fixtures"
	"pto-advisor/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		query    string
		expected assistant.Intent
	}{
		"Pending":            {query: "Show me pending requests", expected: assistant.IntentPendingRequests},
		"CaseInsensitive":    {query: "PENDING?", expected: assistant.IntentPendingRequests},
		"FirstRuleWins":      {query: "skills coverage for open requests", expected: assistant.IntentPendingRequests},
		"Team":               {query: "What's my team availability?", expected: assistant.IntentTeamAvailability},
		"Skills":             {query: "Skills coverage analysis", expected: assistant.IntentSkillsCoverage},
		"Tasks":              {query: "Show me critical tasks", expected: assistant.IntentActiveTasks},
		"Projects":           {query: "which projects are running", expected: assistant.IntentActiveTasks},
		"Help":               {query: "help", expected: assistant.IntentHelp},
		"WhatCanYouDo":       {query: "What can you do?", expected: assistant.IntentHelp},
		"Approve":            {query: "approve John", expected: assistant.IntentApprovalHint},
		"Deny":               {query: "should I deny it", expected: assistant.IntentApprovalHint},
		"Fallback":           {query: "hello there", expected: assistant.IntentFallback},
		"EmptyQueryFallback": {query: "", expected: assistant.IntentFallback},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, assistant.Classify(tt.query))
		})
	}
}

func seededRouter(t *testing.T, now time.Time) *assistant.Router {
	t.Helper()
	ds, err := fixtures.Seed()
	require.NoError(t, err)
	return assistant.NewRouter(func() models.Dataset { return ds.Clone() },
		assistant.WithClock(func() time.Time { return now }))
}

func TestRouter_Respond(t *testing.T) {
	router := seededRouter(t, time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC))

	tests := map[string]struct {
		query    string
		intent   assistant.Intent
		contains []string
	}{
		"PendingReport": {
			query:  "pending requests",
			intent: assistant.IntentPendingRequests,
			contains: []string{
				"I found 2 pending PTO requests that need your attention:",
				"❌ **John Smith** (Engineering)",
				"👔 Senior Full Stack Developer - senior level",
				"📅 Feb 15, 2025 - Feb 17, 2025 (3 days)",
				"💼 Vacation - Family vacation to Florida",
				"🤖 **CONSIDER DENYING**",
				"📊 ❌ Below minimum staffing (2/3). 1 critical task(s) at risk.",
				"⚠️ Critical tasks affected: Implement User Authentication",
				"❌ **David Brown** (Engineering)",
			},
		},
		"TeamReport": {
			query:  "team availability",
			intent: assistant.IntentTeamAvailability,
			contains: []string{
				"⚠️ **Engineering**: 2/2 available (min: 3)",
				"⚠️ **Marketing**: 1/2 available (min: 2)",
				"Currently out: Sarah Johnson",
				"✅ **HR**: 2/2 available (min: 1)",
			},
		},
		"SkillsReport": {
			query:  "skills",
			intent: assistant.IntentSkillsCoverage,
			contains: []string{
				"⚠️ **Marketing Strategy**: 1/2 available",
				"Available: Lisa Chen (junior)",
				"🚨 **Financial Analysis**: 0/0 available",
			},
		},
		"TasksReport": {
			query:  "tasks",
			intent: assistant.IntentActiveTasks,
			contains: []string{
				"📊 **Summary**: 6 active tasks (5 critical/high priority)",
				"🚨 **Q1 Marketing Campaign** (critical)",
				"👤 Assigned: Sarah Johnson (Marketing)",
			},
		},
		"Fallback": {
			query:    "what's for lunch",
			intent:   assistant.IntentFallback,
			contains: []string{`I understand you're asking about: "what's for lunch".`},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resp := router.Respond(tt.query)
			assert.Equal(t, tt.intent, resp.Intent)
			for _, s := range tt.contains {
				assert.Contains(t, resp.Content, s)
			}
		})
	}
}

func TestRouter_NoPending(t *testing.T) {
	router := assistant.NewRouter(func() models.Dataset { return models.Dataset{} })

	resp := router.Respond("any pending requests?")
	assert.Equal(t, "Great news! 🎉 You have no pending PTO requests to review right now.", resp.Content)
}
