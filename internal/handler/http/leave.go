package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/hrportal/leave-backend-go/internal/domain/holiday"
	"github.com/hrportal/leave-backend-go/internal/domain/leave"
	"github.com/hrportal/leave-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	SubmitRequest(w http.ResponseWriter, r *http.Request)
	ApproveAsDirector(w http.ResponseWriter, r *http.Request)
	ApproveAsDepartmentHead(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	EditRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)

	GetBalance(w http.ResponseWriter, r *http.Request)
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	ComputeWorkingDays(w http.ResponseWriter, r *http.Request)
	GetReplacementCandidates(w http.ResponseWriter, r *http.Request)

	CreateAccount(w http.ResponseWriter, r *http.Request)
	CreateBonusGrant(w http.ResponseWriter, r *http.Request)
	ListBonusGrants(w http.ResponseWriter, r *http.Request)
	ImportCarryover(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	workflow   leave.Workflow
	correction leave.Correction
	grants     leave.Grants
	ledger     leave.Ledger
	holidays   holiday.Repository
}

func NewLeaveHandler(
	workflow leave.Workflow,
	correction leave.Correction,
	grants leave.Grants,
	ledger leave.Ledger,
	holidays holiday.Repository,
) LeaveHandler {
	return &LeaveHandlerImpl{
		workflow:   workflow,
		correction: correction,
		grants:     grants,
		ledger:     ledger,
		holidays:   holidays,
	}
}

// actorFromContext pulls the acting employee's ID out of the verified
// token claims.
func actorFromContext(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return employeeID, nil
}

// SubmitRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.SubmitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Employees submit for themselves.
	req.EmployeeID = actorID

	resp, err := l.workflow.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", resp)
}

// ApproveAsDirector implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveAsDirector(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	resp, err := l.workflow.ApproveAsDirector(r.Context(), requestID, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved by director", resp)
}

// ApproveAsDepartmentHead implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveAsDepartmentHead(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	resp, err := l.workflow.ApproveAsDepartmentHead(r.Context(), requestID, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", resp)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.RejectRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	resp, err := l.workflow.Reject(r.Context(), req, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", resp)
}

// EditRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) EditRequest(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.EditRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("EditRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	resp, err := l.correction.Edit(r.Context(), req, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", resp)
}

// DeleteRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	req := leave.DeleteRequestRequest{
		RequestID: chi.URLParam(r, "id"),
		Policy:    r.URL.Query().Get("policy"),
	}

	if err := l.correction.Delete(r.Context(), req, actorID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted successfully", nil)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := parseRequestFilter(r)

	requests, total, err := l.workflow.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, listMeta(filter, total))
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := parseRequestFilter(r)
	filter.EmployeeID = nil

	requests, total, err := l.workflow.ListEmployeeRequests(r.Context(), actorID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, listMeta(filter, total))
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	resp, err := l.workflow.GetRequest(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// GetBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	l.writeBalance(w, r, employeeID)
}

// GetMyBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	l.writeBalance(w, r, actorID)
}

func (l *LeaveHandlerImpl) writeBalance(w http.ResponseWriter, r *http.Request, employeeID string) {
	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "year must be an integer", nil)
			return
		}
		year = parsed
	}

	breakdown, err := l.ledger.AvailableBalance(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.BalanceResponse{
		EmployeeID:         breakdown.EmployeeID,
		Year:               breakdown.Year,
		BaseAllocationDays: breakdown.BaseAllocationDays,
		CarryoverRemaining: breakdown.CarryoverRemaining,
		BonusDays:          breakdown.BonusDays,
		UsedDays:           breakdown.UsedDays,
		Available:          breakdown.Available,
	})
}

// ComputeWorkingDays implements LeaveHandler.
func (l *LeaveHandlerImpl) ComputeWorkingDays(w http.ResponseWriter, r *http.Request) {
	var req leave.WorkingDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ComputeWorkingDays decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := l.workflow.WorkingDaysPreview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// GetReplacementCandidates implements LeaveHandler.
func (l *LeaveHandlerImpl) GetReplacementCandidates(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	candidates, err := l.workflow.ListReplacementCandidates(r.Context(), actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, candidates)
}

// CreateAccount implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateAccount(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateAccount decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	account, err := l.grants.CreateAccount(r.Context(), req, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave account created successfully", account)
}

// CreateBonusGrant implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateBonusGrant(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.CreateBonusGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateBonusGrant decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	grant, err := l.grants.CreateBonusGrant(r.Context(), req, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Bonus grant created successfully", grant)
}

// ListBonusGrants implements LeaveHandler.
func (l *LeaveHandlerImpl) ListBonusGrants(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "year must be an integer", nil)
			return
		}
		year = parsed
	}

	grants, err := l.grants.ListBonusGrants(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, grants)
}

// ImportCarryover implements LeaveHandler.
func (l *LeaveHandlerImpl) ImportCarryover(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromContext(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.ImportCarryoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ImportCarryover decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := l.grants.ImportCarryover(r.Context(), req, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Carryover import processed", result)
}

// ListHolidays implements LeaveHandler.
func (l *LeaveHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "year must be an integer", nil)
			return
		}
		year = parsed
	}

	holidays, err := l.holidays.GetByYear(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, holidays)
}

func parseRequestFilter(r *http.Request) leave.RequestFilter {
	var filter leave.RequestFilter

	q := r.URL.Query()
	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("start_date"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &d
		}
	}
	if v := q.Get("end_date"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			filter.EndDate = &d
		}
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	return filter
}

func listMeta(filter leave.RequestFilter, total int64) *response.Meta {
	page := filter.Page
	if page == 0 {
		page = 1
	}
	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
