package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	GetStats(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Create implements ReportHandler.
func (h *reportHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req report.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, report.ErrDuplicateReport) && result.ID != "" {
			response.ConflictWithData(w, err.Error(), result)
			return
		}
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Daily report submitted successfully", result)
}

// GetToday implements ReportHandler.
func (h *reportHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		response.SuccessWithMessage(w, "No report submitted for today", nil)
		return
	}
	response.Success(w, result)
}

// GetHistory implements ReportHandler.
func (h *reportHandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	filter := report.HistoryFilter{Params: pagination.FromRequest(r, pagination.DefaultLimit)}

	result, err := h.reportService.GetHistory(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetStats implements ReportHandler.
func (h *reportHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	filter := report.StatsFilter{
		Year:  queryInt(r, "year"),
		Month: queryInt(r, "month"),
	}

	result, err := h.reportService.GetMonthlyStats(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update implements ReportHandler.
func (h *reportHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req report.UpdateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.reportService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Report updated successfully", result)
}

// Delete implements ReportHandler.
func (h *reportHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.reportService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Report deleted successfully", nil)
}

// ListAll implements ReportHandler.
func (h *reportHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	filter := report.ListAllFilter{
		Date:        r.URL.Query().Get("date"),
		NeedsReview: queryBool(r, "needs_review"),
	}

	result, err := h.reportService.ListAll(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Review implements ReportHandler.
func (h *reportHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	var req report.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Review report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.reportService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Report reviewed successfully", result)
}
