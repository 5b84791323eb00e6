// Package api exposes the store, advisor and assistant over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"pto-advisor/advisor"
	"pto-advisor/assistant"
	customerrors "pto-advisor/errors"
	"pto-advisor/models"
	"pto-advisor/store"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is the subset of *store.Store the handlers use.
type Store interface {
	Snapshot() models.Dataset
	Employees() []models.Employee
	Requests(status models.RequestStatus) []models.LeaveRequest
	Request(id string) (models.LeaveRequest, error)
	SubmitRequest(ctx context.Context, in store.NewLeaveRequest) (models.LeaveRequest, error)
	Approve(ctx context.Context, id, reviewer string) (models.LeaveRequest, error)
	Deny(ctx context.Context, id, reviewer, notes string) (models.LeaveRequest, error)
	AddEmployee(ctx context.Context, e models.Employee) (models.Employee, error)
	UpdateEmployee(ctx context.Context, e models.Employee) (models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// Assistant answers free-text questions.
type Assistant interface {
	Respond(query string) assistant.Response
}

type Handler struct {
	store           Store
	assistant       Assistant
	defaultReviewer string
	now             func() time.Time
	logger          *zap.Logger
}

// NewHandler wires the handlers. An empty reviewer falls back to "manager".
func NewHandler(s Store, a Assistant, reviewer string, logger ...*zap.Logger) *Handler {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("api.handler")
	}
	if reviewer == "" {
		reviewer = "manager"
	}
	return &Handler{store: s, assistant: a, defaultReviewer: reviewer, now: time.Now, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := ToHTTP(err)
	h.logger.Warn("api request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	failure(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.logger.Warn("api validation failed", zap.String("path", c.FullPath()), zap.Error(err))
	failure(c, http.StatusBadRequest, CodeValidation, "invalid input", validationDetails(err))
}

func (h *Handler) Health(c *gin.Context) {
	success(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListEmployees(c *gin.Context) {
	success(c, http.StatusOK, h.store.Employees())
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var body EmployeeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.writeBindError(c, err)
		return
	}
	e, err := h.store.AddEmployee(c.Request.Context(), body.toModel(""))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	success(c, http.StatusCreated, e)
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	var body EmployeeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.writeBindError(c, err)
		return
	}
	e, err := h.store.UpdateEmployee(c.Request.Context(), body.toModel(c.Param("id")))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	success(c, http.StatusOK, e)
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	if err := h.store.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *Handler) ListRequests(c *gin.Context) {
	status := models.RequestStatus(strings.ToLower(c.Query("status")))
	if status != "" && !status.Valid() {
		h.writeServiceError(c, fmt.Errorf("%w: %q", customerrors.ErrInvalidStatus, status))
		return
	}
	success(c, http.StatusOK, h.store.Requests(status))
}

func (h *Handler) CreateRequest(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.writeBindError(c, err)
		return
	}
	period, err := models.NewDateRange(body.StartDate, body.EndDate)
	if err != nil {
		h.writeServiceError(c, fmt.Errorf("%w: %v", customerrors.ErrInvalidDate, err))
		return
	}
	h.logger.Debug("http create request", zap.String("employee_id", body.EmployeeID))

	req, err := h.store.SubmitRequest(c.Request.Context(), store.NewLeaveRequest{
		EmployeeID: body.EmployeeID,
		Type:       models.LeaveType(body.Type),
		Period:     period,
		Reason:     body.Reason,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	success(c, http.StatusCreated, req)
}

func (h *Handler) bindReview(c *gin.Context) (ReviewBody, bool) {
	var body ReviewBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.writeBindError(c, err)
			return body, false
		}
	}
	if strings.TrimSpace(body.Reviewer) == "" {
		body.Reviewer = h.defaultReviewer
	}
	return body, true
}

func (h *Handler) ApproveRequest(c *gin.Context) {
	body, ok := h.bindReview(c)
	if !ok {
		return
	}
	req, err := h.store.Approve(c.Request.Context(), c.Param("id"), body.Reviewer)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	success(c, http.StatusOK, req)
}

func (h *Handler) DenyRequest(c *gin.Context) {
	body, ok := h.bindReview(c)
	if !ok {
		return
	}
	req, err := h.store.Deny(c.Request.Context(), c.Param("id"), body.Reviewer, body.Notes)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	success(c, http.StatusOK, req)
}

func (h *Handler) Recommendation(c *gin.Context) {
	req, err := h.store.Request(c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	rec, ok := advisor.Recommend(h.store.Snapshot(), req)
	if !ok {
		h.writeServiceError(c, fmt.Errorf("%w: %s", customerrors.ErrEmployeeNotFound, req.EmployeeID))
		return
	}
	success(c, http.StatusOK, rec)
}

// Availability reports department coverage. start and end default to today.
func (h *Handler) Availability(c *gin.Context) {
	department := c.Query("department")
	if department == "" {
		failure(c, http.StatusBadRequest, CodeValidation, "invalid input", []string{"department: required"})
		return
	}
	today := models.Day(h.now()).Format(models.DateLayout)
	period, err := models.NewDateRange(c.DefaultQuery("start", today), c.DefaultQuery("end", today))
	if err != nil {
		h.writeServiceError(c, fmt.Errorf("%w: %v", customerrors.ErrInvalidDate, err))
		return
	}
	if !period.Valid() {
		h.writeServiceError(c, customerrors.ErrInvalidDateRange)
		return
	}
	success(c, http.StatusOK, advisor.AnalyzeAvailability(h.store.Snapshot(), period, department))
}

// Analytics summarises requests and utilization. year defaults to the current year.
func (h *Handler) Analytics(c *gin.Context) {
	year := h.now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			failure(c, http.StatusBadRequest, CodeValidation, "invalid input", []string{"year: number"})
			return
		}
		year = parsed
	}
	success(c, http.StatusOK, advisor.Summarize(h.store.Snapshot(), year))
}

// Calendar lists who is on approved leave on date, defaulting to today.
func (h *Handler) Calendar(c *gin.Context) {
	day := models.Day(h.now())
	if raw := c.Query("date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			h.writeServiceError(c, fmt.Errorf("%w: %v", customerrors.ErrInvalidDate, err))
			return
		}
		day = parsed
	}
	success(c, http.StatusOK, gin.H{
		"date":     day.Format(models.DateLayout),
		"absences": advisor.WhoIsOut(h.store.Snapshot(), day),
	})
}

func (h *Handler) Ask(c *gin.Context) {
	var body AssistantBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.writeBindError(c, err)
		return
	}
	success(c, http.StatusOK, h.assistant.Respond(body.Message))
}
