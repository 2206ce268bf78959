package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kostadin12/sis-api/internal/domain/absence"
	"github.com/kostadin12/sis-api/internal/domain/user"
	"github.com/kostadin12/sis-api/internal/handler/http/response"
	"github.com/kostadin12/sis-api/internal/pkg/validator"
	absencesvc "github.com/kostadin12/sis-api/internal/service/absence"
)

const dateLayout = "2006-01-02"

type AbsenceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type AbsenceHandlerImpl struct {
	absenceService *absencesvc.Service
	userRepo       user.UserRepository
}

func NewAbsenceHandler(absenceService *absencesvc.Service, userRepo user.UserRepository) AbsenceHandler {
	return &AbsenceHandlerImpl{
		absenceService: absenceService,
		userRepo:       userRepo,
	}
}

// Create implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req absence.SaveAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create absence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	cmd, err := parseSaveRequest(req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.absenceService.Create(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.toResponse(r, created)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Absence created successfully", resp)
}

// Update implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Absence ID is required", nil)
		return
	}

	var req absence.SaveAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update absence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	cmd, err := parseSaveRequest(req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.absenceService.Update(r.Context(), id, cmd)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.toResponse(r, updated)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Absence updated successfully", resp)
}

// Delete implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Absence ID is required", nil)
		return
	}

	employeeNumber := r.URL.Query().Get("employee_number")
	if !validator.IsValidEmployeeNumber(employeeNumber) {
		response.BadRequest(w, "A valid employee_number query parameter is required", nil)
		return
	}

	if err := h.absenceService.Delete(r.Context(), id, employeeNumber); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence deleted successfully", nil)
}

// Get implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Absence ID is required", nil)
		return
	}

	a, err := h.absenceService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.toResponse(r, a)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// List implements AbsenceHandler.
func (h *AbsenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeNumber := r.URL.Query().Get("employee_number")
	if !validator.IsValidEmployeeNumber(employeeNumber) {
		response.BadRequest(w, "A valid employee_number query parameter is required", nil)
		return
	}

	absences, err := h.absenceService.ListByEmployeeNumber(r.Context(), employeeNumber)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resps := make([]absence.AbsenceResponse, 0, len(absences))
	for _, a := range absences {
		resp, err := h.toResponse(r, a)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		resps = append(resps, resp)
	}
	response.Success(w, resps)
}

// toResponse resolves user IDs back to employee numbers for the outward
// representation.
func (h *AbsenceHandlerImpl) toResponse(r *http.Request, a absence.Absence) (absence.AbsenceResponse, error) {
	ids := []string{a.UserID}
	if a.SubstituteID != nil {
		ids = append(ids, *a.SubstituteID)
	}

	users, err := h.userRepo.GetByIDs(r.Context(), ids)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	resp := absence.AbsenceResponse{
		ID:             a.ID,
		EmployeeNumber: byID[a.UserID].EmployeeNumber,
		StartDate:      a.StartDate.Format(dateLayout),
		EndDate:        a.EndDate.Format(dateLayout),
		AbsenceType:    string(a.AbsenceType),
		BookedDate:     a.BookedDate.Format(dateLayout),
	}
	if a.SubstituteID != nil {
		n := byID[*a.SubstituteID].EmployeeNumber
		resp.SubstituteEmployeeNumber = &n
	}
	return resp, nil
}

// parseSaveRequest validates the wire format and produces the parsed
// command. Business rules (ordering, length, window) stay in the
// service.
func parseSaveRequest(req absence.SaveAbsenceRequest) (absence.SaveAbsenceCommand, error) {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeNumber(req.EmployeeNumber) {
		errs = append(errs, validator.ValidationError{Field: "employee_number", Message: "must match EMP followed by five digits"})
	}

	start, okStart := validator.IsValidDate(req.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(req.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date in YYYY-MM-DD format"})
	}

	absenceType := absence.Type(strings.ToLower(strings.TrimSpace(req.AbsenceType)))
	if !absenceType.Valid() {
		errs = append(errs, validator.ValidationError{Field: "absence_type", Message: "must be one of vacation, sick_leave, home_office, business_trip, other"})
	}

	if req.SubstituteEmployeeNumber != nil && !validator.IsValidEmployeeNumber(*req.SubstituteEmployeeNumber) {
		errs = append(errs, validator.ValidationError{Field: "substitute_employee_number", Message: "must match EMP followed by five digits"})
	}

	if len(errs) > 0 {
		return absence.SaveAbsenceCommand{}, errs
	}

	return absence.SaveAbsenceCommand{
		StartDate:                dateOnly(start),
		EndDate:                  dateOnly(end),
		AbsenceType:              absenceType,
		EmployeeNumber:           req.EmployeeNumber,
		SubstituteEmployeeNumber: req.SubstituteEmployeeNumber,
	}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
