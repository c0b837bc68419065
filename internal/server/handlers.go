package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/export"
	"github.com/joseph-ayodele/tender-analyzer/internal/history"
	"github.com/joseph-ayodele/tender-analyzer/internal/profile"
)

type Handler struct {
	svc       *AnalyzerService
	export    *export.Service
	history   *history.Store // optional
	apiKeySet bool
}

func NewHandler(svc *AnalyzerService, exportSvc *export.Service, hist *history.Store, apiKeySet bool) *Handler {
	return &Handler{svc: svc, export: exportSvc, history: hist, apiKeySet: apiKeySet}
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   "tender-analyzer",
		"status":    "running",
		"endpoints": []string{"/analyze", "/status/{jobID}", "/report/{jobID}", "/history", "/health"},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"gemini_api_key_set": h.apiKeySet,
	})
}

// handleAnalyze accepts a multipart tender upload plus free-form company
// profile fields, and responds 202 with the job id and poll URL.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("missing 'file' upload: %w", err))
		return
	}
	defer file.Close()

	prof := profile.FromForm(r.FormValue)
	jobID, err := h.svc.Submit(r.Context(), header.Filename, header.Size, file, prof)
	if err != nil {
		writeErr(w, common.HTTPStatus(err), err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   jobID,
		"message":  "Analysis started. Poll /status/{job_id} for results.",
		"poll_url": "/status/" + jobID,
	})
}

// handleStatus serves polling: the full result document once complete, a 500
// with the failure message when failed, otherwise the current stage.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	jb, err := h.svc.Status(jobID)
	if err != nil {
		writeErr(w, common.HTTPStatus(err), err)
		return
	}

	switch jb.Status {
	case constants.StatusComplete:
		writeJSON(w, http.StatusOK, jb.Result)
	case constants.StatusFailed:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"job_id":   jb.ID,
			"status":   string(jb.Status),
			"error":    jb.Error,
			"rejected": jb.Rejected,
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"job_id":  jb.ID,
			"status":  string(jb.Status),
			"message": "Pipeline running... current stage: " + string(jb.Status),
		})
	}
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	data, err := h.export.BuildReportXLSX(jobID)
	if err != nil {
		writeErr(w, common.HTTPStatus(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="tender-analysis-`+jobID+`.xlsx"`)
	_, _ = w.Write(data)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("history archive is not configured"))
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid limit: %s", raw))
			return
		}
		if value > 500 {
			value = 500
		}
		limit = value
	}
	entries, err := h.history.List(r.Context(), limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"error": err.Error()})
}
