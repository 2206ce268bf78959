package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kostadin12/sis-api/internal/handler/http/response"
	"github.com/kostadin12/sis-api/internal/pkg/validator"
	reportsvc "github.com/kostadin12/sis-api/internal/service/report"
)

type ReportHandler interface {
	WorkingDays(w http.ResponseWriter, r *http.Request)
	Availability(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService *reportsvc.Service
}

func NewReportHandler(reportService *reportsvc.Service) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

type workingDaysResponse struct {
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	WorkingDays int      `json:"working_days"`
	Dates       []string `json:"dates"`
}

// WorkingDays implements ReportHandler.
func (h *ReportHandlerImpl) WorkingDays(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.WorkingDays(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := workingDaysResponse{
		StartDate:   start.Format(dateLayout),
		EndDate:     end.Format(dateLayout),
		WorkingDays: result.Count,
		Dates:       make([]string, 0, len(result.Dates)),
	}
	for _, d := range result.Dates {
		resp.Dates = append(resp.Dates, d.Format(dateLayout))
	}
	response.Success(w, resp)
}

// Availability implements ReportHandler.
func (h *ReportHandlerImpl) Availability(w http.ResponseWriter, r *http.Request) {
	employeeNumber := r.URL.Query().Get("employee_number")
	if !validator.IsValidEmployeeNumber(employeeNumber) {
		response.BadRequest(w, "A valid employee_number query parameter is required", nil)
		return
	}

	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	var capacityCap *int
	if raw := r.URL.Query().Get("capacity"); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil || capacity < 0 || capacity > 100 {
			response.BadRequest(w, "capacity must be an integer between 0 and 100", nil)
			return
		}
		capacityCap = &capacity
	}

	report, err := h.reportService.Availability(r.Context(), employeeNumber, start, end, capacityCap)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, report)
}

func parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(r.URL.Query().Get("start_date"))
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date in YYYY-MM-DD format"})
	}
	end, ok := validator.IsValidDate(r.URL.Query().Get("end_date"))
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		response.ValidationError(w, errs.ToMap())
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
