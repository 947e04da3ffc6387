// Package handlers exposes the read-only star-system query API.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
	"starmap-server/internal/starmap"
)

type SystemHandler struct {
	service *starmap.Service
	logger  *slog.Logger
}

func NewSystemHandler(service *starmap.Service, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{
		service: service,
		logger:  logger,
	}
}

func (h *SystemHandler) system(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*starmap.StarSystem, bool) {
	system, err := h.service.System()
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("star system unavailable", err))
		return nil, false
	}
	return system, true
}

// ListObjects handles GET /api/system/objects, optionally filtered by
// ?type=.
func (h *SystemHandler) ListObjects(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "list_objects")

	system, ok := h.system(w, r, logger)
	if !ok {
		return
	}

	if typeName := r.URL.Query().Get("type"); typeName != "" {
		objects := system.ObjectsByType(starmap.ObjectType(typeName))
		if objects == nil {
			objects = []*starmap.CelestialObject{}
		}
		logger.Debug("Objects listed by type", "type", typeName, "count", len(objects))
		response.Success(w, http.StatusOK, objects)
		return
	}

	objects := system.All()
	logger.Debug("All objects listed", "count", len(objects))
	response.Success(w, http.StatusOK, objects)
}

// GetObject handles GET /api/system/objects/{id}.
func (h *SystemHandler) GetObject(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_object")

	system, ok := h.system(w, r, logger)
	if !ok {
		return
	}

	id := r.PathValue("id")
	obj, err := system.Object(id)
	if err != nil {
		response.Error(w, r, logger, errors.NotFoundf("object %q not found", id))
		return
	}

	response.Success(w, http.StatusOK, obj)
}

// GetChildren handles GET /api/system/objects/{id}/children.
func (h *SystemHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_children")

	system, ok := h.system(w, r, logger)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if _, err := system.Object(id); err != nil {
		response.Error(w, r, logger, errors.NotFoundf("object %q not found", id))
		return
	}

	children := system.Children(id)
	if children == nil {
		children = []*starmap.CelestialObject{}
	}
	response.Success(w, http.StatusOK, children)
}

// GetPosition handles GET /api/system/objects/{id}/position, returning both
// the stored parent-relative position and the absolute one.
func (h *SystemHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_position")

	system, ok := h.system(w, r, logger)
	if !ok {
		return
	}

	id := r.PathValue("id")
	obj, err := system.Object(id)
	if err != nil {
		response.Error(w, r, logger, errors.NotFoundf("object %q not found", id))
		return
	}

	absolute, err := system.AbsolutePosition(id)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to compute absolute position", err))
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"id":       id,
		"local":    obj.Position,
		"absolute": absolute,
	})
}

// GetOrbitPath handles GET /api/system/objects/{id}/orbit?steps=.
func (h *SystemHandler) GetOrbitPath(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_orbit_path")

	system, ok := h.system(w, r, logger)
	if !ok {
		return
	}

	steps := 0
	if raw := r.URL.Query().Get("steps"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, r, logger, errors.Validationf("invalid steps value %q", raw))
			return
		}
		steps = parsed
	}

	id := r.PathValue("id")
	points, err := system.OrbitPath(id, steps)
	if err != nil {
		response.Error(w, r, logger, errors.NotFoundf("object %q not found", id))
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"points": points,
	})
}

// GetStatistics handles GET /api/system/stats.
func (h *SystemHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_statistics")

	system, ok := h.system(w, r, logger)
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, system.Statistics())
}

// Validate handles GET /api/system/validate.
func (h *SystemHandler) Validate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "validate")

	system, ok := h.system(w, r, logger)
	if !ok {
		return
	}

	result := system.Validate()
	if result.Issues == nil {
		result.Issues = []string{}
	}
	response.Success(w, http.StatusOK, result)
}

// GetDisconnected handles GET /api/system/disconnected.
func (h *SystemHandler) GetDisconnected(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_disconnected")

	system, ok := h.system(w, r, logger)
	if !ok {
		return
	}

	disconnected := system.FindDisconnected()
	if disconnected == nil {
		disconnected = []*starmap.CelestialObject{}
	}
	response.Success(w, http.StatusOK, disconnected)
}

// GetTree handles GET /api/system/tree, returning the plain-text hierarchy
// dump.
func (h *SystemHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_tree")

	system, ok := h.system(w, r, logger)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(system.DumpTree()))
}

// Reload handles POST /api/system/reload: rebuilds the snapshot from the
// feed and swaps it atomically.
func (h *SystemHandler) Reload(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "reload")
	logger.Info("Reloading star system")

	if err := h.service.Reload(); err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to reload star system", err))
		return
	}

	system, ok := h.system(w, r, logger)
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"rootId":      system.Root().ID,
		"objectCount": system.ObjectCount(),
		"inferred":    system.InferredIDs(),
		"repairs":     system.Repairs(),
	})
}
