package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashdale-labs/homecore/internal/device"
)

// handleListDevices returns all registered devices with their states.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.controller.Devices()
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleGetDeviceState returns the current state of one device.
func (s *Server) handleGetDeviceState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, err := s.controller.State(id)
	if err != nil {
		writeDeviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"state": state.String(),
	})
}

// deviceAction builds a handler running one controller operation on the
// device named in the URL.
func (s *Server) deviceAction(op func(id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := op(id); err != nil {
			writeDeviceError(w, err)
			return
		}

		state, err := s.controller.State(id)
		if err != nil {
			writeDeviceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"id":    id,
			"state": state.String(),
		})
	}
}

// handleHistory returns the executed command records, oldest first.
func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	history := s.controller.History()
	writeJSON(w, http.StatusOK, map[string]any{
		"history": history,
		"count":   len(history),
	})
}

// handleUndo reverses the most recent command.
func (s *Server) handleUndo(w http.ResponseWriter, _ *http.Request) {
	if err := s.controller.Undo(); err != nil {
		writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"undone": true})
}

// handleRedo re-executes the most recently undone command.
func (s *Server) handleRedo(w http.ResponseWriter, _ *http.Request) {
	if err := s.controller.Redo(); err != nil {
		writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"redone": true})
}

// ruleResponse is the wire representation of an automation rule.
type ruleResponse struct {
	Name          string  `json:"name"`
	SensorType    string  `json:"sensor_type"`
	Threshold     float64 `json:"threshold"`
	TriggerAbove  bool    `json:"trigger_above"`
	TargetDevice  string  `json:"target_device"`
	Action        string  `json:"action"`
	AlertSeverity int     `json:"alert_severity,omitempty"`
}

// handleListRules returns the registered automation rules in evaluation
// order.
func (s *Server) handleListRules(w http.ResponseWriter, _ *http.Request) {
	if s.rules == nil {
		writeJSON(w, http.StatusOK, map[string]any{"rules": []ruleResponse{}, "count": 0})
		return
	}

	rules := s.rules.Rules()
	out := make([]ruleResponse, len(rules))
	for i, r := range rules {
		out[i] = ruleResponse{
			Name:          r.Name,
			SensorType:    r.SensorType.String(),
			Threshold:     r.Threshold,
			TriggerAbove:  r.TriggerAbove,
			TargetDevice:  r.TargetDevice,
			Action:        r.Action,
			AlertSeverity: r.AlertSeverity,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rules": out,
		"count": len(out),
	})
}

// handlePipelineHandlers returns the processing stages in chain order.
func (s *Server) handlePipelineHandlers(w http.ResponseWriter, _ *http.Request) {
	names := []string{}
	if s.pipeline != nil {
		names = s.pipeline.HandlerNames()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"handlers": names,
		"count":    len(names),
	})
}

// writeDeviceError maps device layer errors onto HTTP status codes.
func writeDeviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, device.ErrDeviceNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, device.ErrInvalidTransition),
		errors.Is(err, device.ErrNothingToUndo),
		errors.Is(err, device.ErrNothingToRedo):
		writeConflict(w, err.Error())
	default:
		writeInternalError(w, err.Error())
	}
}
