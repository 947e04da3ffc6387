// Package handlers exposes the hazard-alert API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"starmap-server/internal/alerts"
	"starmap-server/internal/geometry"
	"starmap-server/internal/middleware"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
)

type AlertHandler struct {
	service *alerts.Service
	logger  *slog.Logger
}

func NewAlertHandler(service *alerts.Service, logger *slog.Logger) *AlertHandler {
	return &AlertHandler{
		service: service,
		logger:  logger,
	}
}

// ListAlerts handles GET /api/alerts. Without a ?region= filter it returns
// the active set; with one it returns the full region history, expired
// alerts included.
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "list_alerts")

	var (
		list []alerts.RouteAlert
		err  error
	)
	if regionID := r.URL.Query().Get("region"); regionID != "" {
		list, err = h.service.ByRegion(r.Context(), regionID)
	} else {
		list, err = h.service.Active(r.Context())
	}
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if list == nil {
		list = []alerts.RouteAlert{}
	}
	response.Success(w, http.StatusOK, list)
}

type reportAlertRequest struct {
	RegionID         string        `json:"regionId"`
	ShardID          string        `json:"shardId"`
	Type             string        `json:"alertType"`
	Position         geometry.Vec3 `json:"position"`
	ExpiresInMinutes int           `json:"expiresInMinutes,omitempty"`
}

// ReportAlert handles POST /api/alerts. Requires authentication; the
// reporter identity comes from the JWT claims.
func (h *AlertHandler) ReportAlert(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "report_alert")

	user := middleware.GetUserFromContext(r)
	if user == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req reportAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}
	if req.ExpiresInMinutes < 0 {
		response.Error(w, r, logger, errors.Validation("expiresInMinutes must not be negative"))
		return
	}

	alert, err := h.service.Report(r.Context(), user.UserID, alerts.ReportRequest{
		RegionID:  req.RegionID,
		ShardID:   req.ShardID,
		Type:      alerts.AlertType(req.Type),
		Position:  req.Position,
		ExpiresIn: time.Duration(req.ExpiresInMinutes) * time.Minute,
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, alert)
}

// ConfirmAlert handles POST /api/alerts/{id}/confirm.
func (h *AlertHandler) ConfirmAlert(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, true)
}

// DisputeAlert handles POST /api/alerts/{id}/dispute.
func (h *AlertHandler) DisputeAlert(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, false)
}

func (h *AlertHandler) vote(w http.ResponseWriter, r *http.Request, confirm bool) {
	logger := h.logger.With("handler", "vote_alert", "confirm", confirm)

	user := middleware.GetUserFromContext(r)
	if user == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	alertID := r.PathValue("id")
	if alertID == "" {
		response.Error(w, r, logger, errors.Validation("alert id is required"))
		return
	}

	var (
		alert *alerts.RouteAlert
		err   error
	)
	if confirm {
		alert, err = h.service.Confirm(r.Context(), alertID, user.UserID)
	} else {
		alert, err = h.service.Dispute(r.Context(), alertID, user.UserID)
	}
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, alert)
}
