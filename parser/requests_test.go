package parser_test

import (
	"errors"
	"strings"
	"testing"

	customerrors "pto-advisor/errors"
	"pto-advisor/models"
	"pto-advisor/parser"

	"github.com/stretchr/testify/assert"
)

func TestParseRequestsCSV(t *testing.T) {
	tests := map[string]struct {
		input         string
		expected      []models.LeaveRequest
		expectedError error
		expectedLine  int
	}{
		"ValidInput_WithComments": {
			input: `# id, employee_id, type, start_date, end_date, status, reason, submitted_at
r1, 2, vacation, 2025-11-18, 2025-11-22, pending, "Trip, family",
r2, 3, SICK, 2025-11-05, 2025-11-05, approved, Flu,

`,
			expected: []models.LeaveRequest{
				{
					ID:         "r1",
					EmployeeID: "2",
					Type:       models.LeaveVacation,
					Period:     models.MustDateRange("2025-11-18", "2025-11-22"),
					Reason:     "Trip, family",
					Status:     models.StatusPending,
				},
				{
					ID:         "r2",
					EmployeeID: "3",
					Type:       models.LeaveSick,
					Period:     models.MustDateRange("2025-11-05", "2025-11-05"),
					Reason:     "Flu",
					Status:     models.StatusApproved,
				},
			},
		},
		"InvalidFieldCount": {
			input:         "r1, 2, vacation, 2025-11-18\n",
			expectedError: customerrors.ErrInvalidFieldCount,
			expectedLine:  1,
		},
		"MissingEmployee": {
			input:         "r1, , vacation, 2025-11-18, 2025-11-22, pending, x, \n",
			expectedError: customerrors.ErrInvalidRecord,
			expectedLine:  1,
		},
		"DuplicateID": {
			input: `r1, 2, vacation, 2025-11-18, 2025-11-22, pending, x,
r1, 3, vacation, 2025-11-18, 2025-11-22, pending, y,
`,
			expectedError: customerrors.ErrDuplicateID,
			expectedLine:  2,
		},
		"InvalidDate": {
			input:         "# header\nr1, 2, vacation, 18/11/2025, 2025-11-22, pending, x, \n",
			expectedError: customerrors.ErrInvalidDate,
			expectedLine:  2,
		},
		"InvalidTimestamp": {
			input:         "r1, 2, vacation, 2025-11-18, 2025-11-22, pending, x, yesterday\n",
			expectedError: customerrors.ErrInvalidTimestamp,
			expectedLine:  1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parser.ParseRequestsCSV(strings.NewReader(tt.input))

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				var parseErr *customerrors.ParseError
				if assert.True(t, errors.As(err, &parseErr)) {
					assert.Equal(t, parser.SourceRequests, parseErr.Source)
					assert.Equal(t, tt.expectedLine, parseErr.Line)
				}
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
