package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	customerrors "pto-advisor/errors"
	"pto-advisor/metrics"
	"pto-advisor/models"
	"strings"
)

const requestFields = 8

// ParseRequestsCSV reads leave requests from CSV data.
// Lines starting with '#' are headers/comments. Each record holds:
//
//	id, employee_id, type, start_date, end_date, status, reason, submitted_at
//
// submitted_at may be empty. Dates are YYYY-MM-DD and submitted_at is RFC3339.
// Quoted fields may contain commas.
func ParseRequestsCSV(r io.Reader) ([]models.LeaveRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var requests []models.LeaveRequest
	seen := make(map[string]bool)
	lineNum := 0

	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues("csv").Inc()
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}

		// Blank lines are skipped by the reader, so take the real line from it.
		lineNum, _ = reader.FieldPos(0)

		if len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
			continue
		}
		if isBlank(record) {
			continue
		}

		if len(record) != requestFields {
			metrics.ParserErrorsTotal.WithLabelValues("field_count").Inc()
			return nil, &customerrors.ParseError{
				Source: SourceRequests,
				Line:   lineNum,
				Record: record,
				Err:    customerrors.ErrInvalidFieldCount,
			}
		}

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if record[0] == "" || record[1] == "" {
			metrics.ParserErrorsTotal.WithLabelValues("validation").Inc()
			return nil, &customerrors.ParseError{
				Source: SourceRequests,
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: id and employee_id are required", customerrors.ErrInvalidRecord),
			}
		}
		if seen[record[0]] {
			metrics.ParserErrorsTotal.WithLabelValues("duplicate").Inc()
			return nil, &customerrors.ParseError{
				Source: SourceRequests,
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: request %q", customerrors.ErrDuplicateID, record[0]),
			}
		}
		seen[record[0]] = true

		req, err := buildRequest(record[0], record[1], record[2], record[3], record[4], record[5], record[6], record[7], "", "", "")
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues("conversion").Inc()
			return nil, &customerrors.ParseError{
				Source: SourceRequests,
				Line:   lineNum,
				Record: record,
				Err:    err,
			}
		}
		requests = append(requests, req)
	}

	metrics.ParserRecordsTotal.WithLabelValues("requests").Add(float64(len(requests)))
	return requests, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
