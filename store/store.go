package store

import (
	"context"
	"fmt"
	customerrors "pto-advisor/errors"
	"pto-advisor/metrics"
	"pto-advisor/models"
	"pto-advisor/observability"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store owns the in-memory collections and applies lifecycle commands to them.
// Readers take a Snapshot; the advisor never sees the live slices.
type Store struct {
	mu     sync.RWMutex
	data   models.Dataset
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for command outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.Named("store")
		}
	}
}

// WithClock overrides the time source used for submission and review stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how new record ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a store seeded with a copy of ds.
func New(ds models.Dataset, opts ...Option) *Store {
	s := &Store{
		data:   ds.Clone(),
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of every collection.
func (s *Store) Snapshot() models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Employees returns a copy of all employees.
func (s *Store) Employees() []models.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Employee, len(s.data.Employees))
	for i, e := range s.data.Employees {
		out[i] = e.Clone()
	}
	return out
}

// Requests returns leave requests, newest first, optionally filtered by status.
// An empty status returns every request.
func (s *Store) Requests(status models.RequestStatus) []models.LeaveRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.LeaveRequest{}
	for _, r := range s.data.Requests {
		if status == "" || r.Status == status {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Request returns a single leave request by id.
func (s *Store) Request(id string) (models.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data.RequestByID(id)
	if !ok {
		return models.LeaveRequest{}, customerrors.ErrRequestNotFound
	}
	return r.Clone(), nil
}

// NewLeaveRequest is the employee-supplied part of a leave request.
type NewLeaveRequest struct {
	EmployeeID string
	Type       models.LeaveType
	Period     models.DateRange
	Reason     string
}

// SubmitRequest records a new pending request. The newest request is kept first.
// Log lines carry the request id found on ctx.
func (s *Store) SubmitRequest(ctx context.Context, in NewLeaveRequest) (models.LeaveRequest, error) {
	log := observability.LoggerFrom(ctx, s.logger)
	log.Debug("submit request requested",
		zap.String("employee_id", in.EmployeeID),
		zap.String("type", string(in.Type)),
		zap.String("period", in.Period.String()),
	)

	if !in.Type.Valid() {
		return models.LeaveRequest{}, fmt.Errorf("%w: %q", customerrors.ErrInvalidLeaveType, in.Type)
	}
	if !in.Period.Valid() {
		return models.LeaveRequest{}, customerrors.ErrInvalidDateRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	employee, ok := s.data.EmployeeByID(in.EmployeeID)
	if !ok {
		log.Warn("submit request unknown employee", zap.String("employee_id", in.EmployeeID))
		return models.LeaveRequest{}, customerrors.ErrEmployeeNotFound
	}

	req := models.LeaveRequest{
		ID:           s.newID(),
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Type:         in.Type,
		Period:       in.Period,
		Reason:       strings.TrimSpace(in.Reason),
		Status:       models.StatusPending,
		SubmittedAt:  s.now().UTC(),
	}
	s.data.Requests = append([]models.LeaveRequest{req}, s.data.Requests...)

	metrics.RequestTransitions.WithLabelValues(string(models.StatusPending)).Inc()
	log.Info("submit request success",
		zap.String("leave_id", req.ID),
		zap.String("employee_id", req.EmployeeID),
	)
	return req.Clone(), nil
}

// Approve moves a pending request to approved and charges the employee's balance.
func (s *Store) Approve(ctx context.Context, id, reviewer string) (models.LeaveRequest, error) {
	return s.review(ctx, id, reviewer, models.StatusApproved, "")
}

// Deny moves a pending request to denied with the manager's notes.
func (s *Store) Deny(ctx context.Context, id, reviewer, notes string) (models.LeaveRequest, error) {
	return s.review(ctx, id, reviewer, models.StatusDenied, notes)
}

// review applies the single allowed transition out of pending.
func (s *Store) review(ctx context.Context, id, reviewer string, target models.RequestStatus, notes string) (models.LeaveRequest, error) {
	log := observability.LoggerFrom(ctx, s.logger)
	log.Debug("review request requested",
		zap.String("leave_id", id),
		zap.String("reviewer", reviewer),
		zap.String("target_status", string(target)),
	)

	if strings.TrimSpace(reviewer) == "" {
		return models.LeaveRequest{}, customerrors.ErrReviewerRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.requestIndex(id)
	if idx < 0 {
		return models.LeaveRequest{}, customerrors.ErrRequestNotFound
	}
	req := &s.data.Requests[idx]
	if req.Status != models.StatusPending {
		log.Warn("review request invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", string(req.Status)),
			zap.String("to_status", string(target)),
		)
		return models.LeaveRequest{}, fmt.Errorf("%w: request is %s", customerrors.ErrRequestAlreadyReviewed, req.Status)
	}

	now := s.now().UTC()
	req.Status = target
	req.ReviewedAt = &now
	req.ReviewedBy = reviewer
	if target == models.StatusDenied {
		req.ManagerNotes = strings.TrimSpace(notes)
	}

	if target == models.StatusApproved {
		s.chargeBalance(log, *req)
	}

	metrics.RequestTransitions.WithLabelValues(string(target)).Inc()
	log.Info("review request success",
		zap.String("leave_id", id),
		zap.String("status", string(target)),
	)
	return req.Clone(), nil
}

// chargeBalance books the approved business days against the balance for
// the year the leave starts in. Missing balances are left alone.
func (s *Store) chargeBalance(log *zap.Logger, req models.LeaveRequest) {
	year := req.Period.Start.Year()
	if i := s.data.BalanceIndex(req.EmployeeID, year); i >= 0 {
		s.data.Balances[i].Charge(req.Type, req.Period.BusinessDays())
		return
	}
	log.Debug("no balance to charge",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("year", year),
	)
}

func (s *Store) requestIndex(id string) int {
	for i := range s.data.Requests {
		if s.data.Requests[i].ID == id {
			return i
		}
	}
	return -1
}
