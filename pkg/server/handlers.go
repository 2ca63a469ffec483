package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"aegis-hq/aegis/pkg/governor"
	"aegis-hq/aegis/pkg/ledger"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// handleEvaluate renders a decision for one posted request.
//
// Error mapping: protocol violations (bad request body, replay conflicts)
// are 4xx; an uninitialized or halted service is 503. ESCALATE and DENY
// are ordinary 200 responses: they are decisions, not errors.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req governor.DecisionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	resp, err := s.service.Evaluate(r.Context(), &req)
	if err != nil {
		status, kind := errorStatus(err)
		writeError(w, status, kind, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRecentDecisions returns the most recent ledger entries.
func (s *Server) handleRecentDecisions(w http.ResponseWriter, r *http.Request) {
	n := 20
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 1000 {
			writeError(w, http.StatusBadRequest, "bad_request",
				errors.New("n must be an integer between 1 and 1000"))
			return
		}
		n = parsed
	}

	entries, err := s.service.RecentDecisions(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// handleHealth reports the decision service health contract.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Health())
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) (int, string) {
	var initErr *governor.InitializationError
	var replayErr *governor.ReplayConflictError
	var reqErr *governor.RequestError
	var integrityErr *ledger.IntegrityError

	switch {
	case errors.As(err, &replayErr):
		return http.StatusConflict, "replay_conflict"
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, "bad_request"
	case errors.As(err, &integrityErr):
		return http.StatusServiceUnavailable, "ledger_integrity"
	case errors.As(err, &initErr):
		return http.StatusServiceUnavailable, "not_ready"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind string, err error) {
	writeJSON(w, status, errorBody{Error: err.Error(), Type: kind})
}
