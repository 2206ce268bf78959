package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kostadin12/sis-api/internal/handler/http/response"
	calendarsvc "github.com/kostadin12/sis-api/internal/service/calendar"
)

type CalendarHandler interface {
	NonWorkingDays(w http.ResponseWriter, r *http.Request)
	DeleteYear(w http.ResponseWriter, r *http.Request)
}

type CalendarHandlerImpl struct {
	calendarService *calendarsvc.Service
}

func NewCalendarHandler(calendarService *calendarsvc.Service) CalendarHandler {
	return &CalendarHandlerImpl{calendarService: calendarService}
}

type nonWorkingDaysResponse struct {
	Year           int      `json:"year"`
	NonWorkingDays []string `json:"non_working_days"`
}

// NonWorkingDays implements CalendarHandler.
func (h *CalendarHandlerImpl) NonWorkingDays(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	days, err := h.calendarService.NonWorkingDays(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := nonWorkingDaysResponse{
		Year:           year,
		NonWorkingDays: make([]string, 0, len(days)),
	}
	for _, d := range days {
		resp.NonWorkingDays = append(resp.NonWorkingDays, d.Format(dateLayout))
	}
	response.Success(w, resp)
}

// DeleteYear implements CalendarHandler.
func (h *CalendarHandlerImpl) DeleteYear(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	if err := h.calendarService.DeleteYear(r.Context(), year); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Calendar year deleted successfully", nil)
}

func parseYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 9999 {
		response.BadRequest(w, "Year must be a four-digit number", nil)
		return 0, false
	}
	return year, true
}
