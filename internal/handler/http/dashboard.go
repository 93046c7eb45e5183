package http

import (
	"net/http"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/office-attendance-go/internal/handler/http/response"
)

// DashboardHandler serves the /users birthday and team endpoints.
type DashboardHandler interface {
	TodaysBirthdays(w http.ResponseWriter, r *http.Request)
	UpcomingBirthdays(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	EmployeeDetails(w http.ResponseWriter, r *http.Request)
	TeamStats(w http.ResponseWriter, r *http.Request)
	AttendanceOverview(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

func (h *dashboardHandlerImpl) TodaysBirthdays(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.TodaysBirthdays(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *dashboardHandlerImpl) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.UpcomingBirthdays(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *dashboardHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.ListEmployees(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, map[string]any{
		"employees": result,
		"count":     len(result),
	})
}

func (h *dashboardHandlerImpl) EmployeeDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.dashboardService.EmployeeDetails(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *dashboardHandlerImpl) TeamStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.TeamStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *dashboardHandlerImpl) AttendanceOverview(w http.ResponseWriter, r *http.Request) {
	filter := attendance.OverviewFilter{Date: r.URL.Query().Get("date")}

	result, err := h.dashboardService.AttendanceOverview(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
