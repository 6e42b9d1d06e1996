package server

import (
	"encoding/json"
	"net/http"

	"github.com/tempo-ltl/tempo"
	"github.com/tempo-ltl/tempo/internal/ltl"
	"github.com/tempo-ltl/tempo/internal/solver"
	"github.com/tempo-ltl/tempo/internal/version"
)

// File api.go contains the request and response models of the API and the
// endpoint handlers.

// CheckRequest is the body of POST /check.
type CheckRequest struct {
	// Formula is the LTL formula to decide, in the same surface syntax the
	// command line accepts.
	Formula string `json:"formula"`

	// Model requests the witness trace for satisfiable formulas.
	Model bool `json:"model,omitempty"`

	// MaxDepth caps the tableau depth for this request; 0 defers to the
	// server's default.
	MaxDepth uint64 `json:"maxDepth,omitempty"`
}

// CheckResponse is the body of a successful check.
type CheckResponse struct {
	Result string         `json:"result"`
	Model  *ModelResponse `json:"model,omitempty"`
}

// ModelResponse is the JSON shape of a witness trace: one literal list per
// state, and the index of the state the loop re-enters.
type ModelResponse struct {
	States [][]string `json:"states"`
	Loop   int        `json:"loop"`
}

// ErrorResponse is the body of any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleCheck(w http.ResponseWriter, req *http.Request) {
	var cr CheckRequest
	if err := json.NewDecoder(req.Body).Decode(&cr); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	if cr.Formula == "" {
		writeError(w, http.StatusBadRequest, "no formula given")
		return
	}

	maxDepth := s.MaxDepth
	if cr.MaxDepth != 0 {
		maxDepth = cr.MaxDepth
	}

	v, err := tempo.Check(cr.Formula, tempo.Options{
		MaxDepth:   maxDepth,
		DisableSAT: s.DisableSAT,
	})
	if err != nil {
		if synErr, ok := err.(*ltl.SyntaxError); ok {
			writeError(w, http.StatusBadRequest, synErr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := CheckResponse{Result: v.Result.String()}
	if cr.Model && v.Result == solver.Satisfiable && v.Model != nil {
		resp.Model = modelResponse(v.Model)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.Current,
	})
}

func modelResponse(m *solver.Model) *ModelResponse {
	mr := &ModelResponse{
		States: make([][]string, len(m.States)),
		Loop:   m.LoopState,
	}
	for i, state := range m.States {
		lits := make([]string, len(state))
		for j, lit := range state {
			lits[j] = lit.String()
		}
		mr.States[i] = lits
	}
	return mr
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
