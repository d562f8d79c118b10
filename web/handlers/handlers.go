// Package handlers provides HTTP request handlers and utilities for the web server.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pushr-cd/pushr/deployer"
	"github.com/pushr-cd/pushr/domain"
)

// HistoryLister lists past deployments.
type HistoryLister interface {
	List(ctx context.Context, slug string, limit int) ([]*domain.Deployment, error)
}

type Handlers struct {
	manager deployer.Manager
	// history is nil when history is disabled
	history HistoryLister
	name    string
	version string
	logger  *slog.Logger
}

func New(manager deployer.Manager, history HistoryLister, name, version string, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		manager: manager,
		history: history,
		name:    name,
		version: version,
		logger:  logger,
	}
}

// DeployResponse is returned by every deploy endpoint.
type DeployResponse struct {
	Success bool                `json:"success"`
	Output  string              `json:"output"`
	RunID   string              `json:"run_id,omitempty"`
	Results []ApplicationResult `json:"results,omitempty"`
}

type ApplicationResult struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Status   string `json:"status"`
	Revision string `json:"revision,omitempty"`
}

type InfoResponse struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Applications []ApplicationView `json:"applications"`
}

type ApplicationView struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Revision     string `json:"revision"`
	Message      string `json:"message"`
	Author       string `json:"author"`
	RelativeTime string `json:"relative_time"`
	Timestamp    string `json:"timestamp"`
}

type DeploymentView struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	Application string    `json:"application"`
	Slug        string    `json:"slug"`
	Revision    string    `json:"revision"`
	Status      string    `json:"status"`
	Output      string    `json:"output"`
	CreatedAt   time.Time `json:"created_at"`
}

// Health answers liveness probes without authorization.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		h.LogOperationError("health_check", "main", err)
	}
}

// Info lists every application with its deployed revision.
func (h *Handlers) Info(w http.ResponseWriter, r *http.Request) {
	infos, err := h.manager.Info(r.Context())
	if err != nil {
		h.LogOperationError("info", "main", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": FormatErrorForUser(err)})
		return
	}

	views := make([]ApplicationView, len(infos))
	for i, info := range infos {
		views[i] = ApplicationView{
			Name:         info.Name,
			Slug:         info.Slug,
			Revision:     info.Deployed.Hash,
			Message:      info.Deployed.Message,
			Author:       info.Deployed.Author,
			RelativeTime: info.Deployed.RelativeTime,
			Timestamp:    info.Deployed.ISOTimestamp,
		}
	}

	h.writeJSON(w, http.StatusOK, InfoResponse{Name: h.name, Version: h.version, Applications: views})
}

// DeployAll deploys every application.
func (h *Handlers) DeployAll(w http.ResponseWriter, r *http.Request) {
	// A client hanging up must not kill the deploy tool halfway
	result, err := h.manager.DeployAll(context.WithoutCancel(r.Context()))
	h.writeDeployResult(w, "deploy_all", result, err)
}

// DeployApplication deploys the application named by the {slug} URL parameter.
func (h *Handlers) DeployApplication(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	result, err := h.manager.Deploy(context.WithoutCancel(r.Context()), slug)
	h.writeDeployResult(w, "deploy_application", result, err)
}

// History lists past deployments. Query parameters: app, limit.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "history is disabled"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	deployments, err := h.history.List(r.Context(), r.URL.Query().Get("app"), limit)
	if err != nil {
		h.LogOperationError("list_history", "main", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": FormatErrorForUser(err)})
		return
	}

	views := make([]DeploymentView, len(deployments))
	for i, d := range deployments {
		views[i] = DeploymentView{
			ID:          d.ID.String(),
			RunID:       d.RunID.String(),
			Application: d.Application,
			Slug:        d.Slug,
			Revision:    d.Revision,
			Status:      d.Status.String(),
			Output:      d.Output,
			CreatedAt:   d.CreatedAt,
		}
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *Handlers) writeDeployResult(w http.ResponseWriter, operation string, result domain.AggregateResult, err error) {
	if err != nil {
		h.LogOperationError(operation, "main", err)
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUnknownApplication) {
			status = http.StatusNotFound
		}
		h.writeJSON(w, status, DeployResponse{Success: false, Output: FormatErrorForUser(err)})
		return
	}

	resp := DeployResponse{
		Success: result.Success,
		Output:  result.Log,
		RunID:   result.RunID.String(),
		Results: make([]ApplicationResult, len(result.Results)),
	}
	for i, r := range result.Results {
		resp.Results[i] = ApplicationResult{
			Name:     r.Name,
			Slug:     r.Slug,
			Status:   r.Outcome.Status.String(),
			Revision: r.Revision,
		}
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	h.writeJSON(w, status, resp)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.LogOperationError("encode_response", "main", err)
	}
}

// LogOperationError logs handler failures in a consistent shape
func (h *Handlers) LogOperationError(operation, component string, err error) {
	h.logger.Error("Handler operation failed",
		"layer", "handler",
		"component", component,
		"operation", operation,
		"error", err)
}
