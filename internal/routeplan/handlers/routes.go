// Package handlers exposes the route-planning API.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"starmap-server/internal/middleware"
	"starmap-server/internal/routeplan"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
	"starmap-server/internal/starmap"
)

type RouteHandler struct {
	service *routeplan.Service
	logger  *slog.Logger
}

func NewRouteHandler(service *routeplan.Service, logger *slog.Logger) *RouteHandler {
	return &RouteHandler{
		service: service,
		logger:  logger,
	}
}

// shipFromQuery builds an optional ship profile from query parameters.
// Returns nil when no ship parameters are present, which selects the
// default quantum speed.
func shipFromQuery(r *http.Request) (*routeplan.Ship, error) {
	query := r.URL.Query()

	name := query.Get("ship")
	speedRaw := query.Get("speed")
	fuelRaw := query.Get("fuelRate")
	if name == "" && speedRaw == "" && fuelRaw == "" {
		return nil, nil
	}

	ship := &routeplan.Ship{Name: name}
	if speedRaw != "" {
		speed, err := strconv.ParseFloat(speedRaw, 64)
		if err != nil || speed <= 0 {
			return nil, errors.Validationf("invalid speed value %q", speedRaw)
		}
		ship.QuantumSpeed = speed
	}
	if fuelRaw != "" {
		rate, err := strconv.ParseFloat(fuelRaw, 64)
		if err != nil || rate < 0 {
			return nil, errors.Validationf("invalid fuelRate value %q", fuelRaw)
		}
		ship.FuelConsumptionRate = rate
	}
	return ship, nil
}

func endpoints(r *http.Request) (string, string, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		return "", "", errors.Validation("from and to query parameters are required")
	}
	return from, to, nil
}

// PlanRoute handles GET /api/routes/plan?from=&to=.
func (h *RouteHandler) PlanRoute(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "plan_route")

	from, to, err := endpoints(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ship, err := shipFromQuery(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	plan, err := h.service.Plan(r.Context(), from, to, ship)
	if err != nil {
		response.Error(w, r, logger, planError(err, from, to))
		return
	}

	logger.Debug("Route planned", "from", from, "to", to, "safety_score", plan.OverallSafetyScore)
	response.Success(w, http.StatusOK, plan)
}

// FindAlternatives handles GET /api/routes/alternatives?from=&to=.
func (h *RouteHandler) FindAlternatives(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "find_alternatives")

	from, to, err := endpoints(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ship, err := shipFromQuery(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	maxAlternatives := routeplan.DefaultMaxAlternatives
	if raw := r.URL.Query().Get("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(w, r, logger, errors.Validationf("invalid max value %q", raw))
			return
		}
		maxAlternatives = parsed
	}

	routes, err := h.service.Alternatives(r.Context(), from, to, ship, maxAlternatives)
	if err != nil {
		response.Error(w, r, logger, planError(err, from, to))
		return
	}

	response.Success(w, http.StatusOK, routes)
}

type saveRouteRequest struct {
	Name string               `json:"name"`
	Plan *routeplan.RoutePlan `json:"plan"`
}

// SaveRoute handles POST /api/routes. Requires authentication.
func (h *RouteHandler) SaveRoute(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "save_route")

	user := middleware.GetUserFromContext(r)
	if user == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req saveRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	route, err := h.service.Save(r.Context(), user.UserID, req.Name, req.Plan)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, route)
}

// ListSavedRoutes handles GET /api/routes/saved. Requires authentication.
func (h *RouteHandler) ListSavedRoutes(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "list_saved_routes")

	user := middleware.GetUserFromContext(r)
	if user == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	routes, err := h.service.SavedByUser(r.Context(), user.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if routes == nil {
		routes = []routeplan.SavedRoute{}
	}
	response.Success(w, http.StatusOK, routes)
}

// planError upgrades the planner's unknown-object sentinel to a proper
// not-found response; everything else passes through.
func planError(err error, from, to string) error {
	if stderrors.Is(err, starmap.ErrObjectNotFound) {
		return errors.NotFoundf("route endpoint not found (from %q, to %q)", from, to)
	}
	return err
}
