package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/KeremDpdo/research-publication-dashboard/internal/errors"
	"github.com/KeremDpdo/research-publication-dashboard/internal/services"
)

// Multipart field names of the two yearly inputs
const (
	FieldPrevious = "file_2023"
	FieldCurrent  = "file_2024"
)

// XLSXContentType is the media type of workbook downloads
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// multipartMemory is kept in memory before parts spill to temporary files
const multipartMemory = 8 << 20

// AnalysisHandler serves uploads and dataset queries with RFC 7807 errors
type AnalysisHandler struct {
	service        AnalysisServiceInterface
	queries        *QueryValidator
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewAnalysisHandler creates the handler. maxUploadBytes bounds each file.
func NewAnalysisHandler(service AnalysisServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:        service,
		queries:        NewQueryValidator(),
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "analysis_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.CreateAnalysis)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetAnalysis)
		r.Get("/records", h.GetRecords)
		r.Get("/removed", h.GetRemoved)
		r.Get("/report", h.GetReport)
		r.Get("/filters", h.GetFilters)
		r.Get("/export.xlsx", h.ExportWorkbook)
	})
	return r
}

// CreateAnalysis handles POST /api/analyses
func (h *AnalysisHandler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	// both files plus multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, 2*h.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, h.uploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	previous, err := h.readUpload(r, FieldPrevious)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	current, err := h.readUpload(r, FieldCurrent)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	analysis, err := h.service.Analyze(r.Context(), previous, current)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "analysis created",
		slog.String("dataset_id", analysis.ID),
		slog.String("previous", previous.Name),
		slog.String("current", current.Name))

	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+analysis.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   analysis.Overview(),
	})
}

func (h *AnalysisHandler) uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierrors.PayloadTooLarge(h.maxUploadBytes)
	}
	return apierrors.InvalidRequest(fmt.Sprintf("expected a multipart form with %s and %s", FieldPrevious, FieldCurrent))
}

func (h *AnalysisHandler) readUpload(r *http.Request, field string) (services.Source, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return services.Source{}, apierrors.NewValidationErrors([]apierrors.ValidationError{
				{Field: field, Message: "file is required"},
			})
		}
		return services.Source{}, apierrors.InvalidRequest(err.Error())
	}
	defer file.Close()

	data, err := readLimited(file, h.maxUploadBytes)
	if err != nil {
		return services.Source{}, err
	}
	return services.Source{Name: header.Filename, Data: data}, nil
}

func readLimited(file multipart.File, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, apierrors.InvalidRequest("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, apierrors.PayloadTooLarge(limit)
	}
	return data, nil
}

// GetAnalysis handles GET /api/analyses/{id}
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   analysis.Overview(),
	})
}

// GetRecords handles GET /api/analyses/{id}/records
func (h *AnalysisHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	q, err := h.queries.ParseReportQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	records, err := h.service.Records(r.Context(), chi.URLParam(r, "id"), q.Selector())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"count":  len(records),
		"data":   records,
	})
}

// GetRemoved handles GET /api/analyses/{id}/removed
func (h *AnalysisHandler) GetRemoved(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.Removed(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"count":  len(removed),
		"data":   removed,
	})
}

// GetReport handles GET /api/analyses/{id}/report
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	q, err := h.queries.ParseReportQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	report, err := h.service.Report(r.Context(), chi.URLParam(r, "id"), q.ReportRequest())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// GetFilters handles GET /api/analyses/{id}/filters
func (h *AnalysisHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.service.Filters(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   filters,
	})
}

// ExportWorkbook handles GET /api/analyses/{id}/export.xlsx. The workbook is
// buffered so a failure can still be answered with a problem response.
func (h *AnalysisHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var buf bytes.Buffer
	if err := h.service.WriteWorkbook(r.Context(), id, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analiz-%s.xlsx"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "workbook download interrupted",
			slog.String("dataset_id", id),
			slog.String("error", err.Error()))
	}
}
