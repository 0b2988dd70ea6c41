package api

import (
	"fmt"
	"net/http"

	"github.com/shubh-37/startupai/internal/gate"
	"github.com/shubh-37/startupai/internal/models"
)

// gateRequest accepts both camelCase and snake_case project ids.
type gateRequest struct {
	ProjectID      string `json:"projectId"`
	ProjectIDSnake string `json:"project_id"`
	Stage          string `json:"stage"`
}

func (req gateRequest) projectID() string {
	if req.ProjectID != "" {
		return req.ProjectID
	}
	return req.ProjectIDSnake
}

func (s *Server) handleGateEvaluate(w http.ResponseWriter, r *http.Request) {
	var req gateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.projectID() == "" || req.Stage == "" {
		s.fail(w, r, fmt.Errorf("%w: project_id and stage are required", models.ErrInvalidInput))
		return
	}
	stage, err := gate.ParseStage(req.Stage)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.Gates.Evaluate(r.Context(), req.projectID(), stage)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateEvidence(w http.ResponseWriter, r *http.Request) {
	var e models.Evidence
	if err := decode(r, &e); err != nil {
		s.fail(w, r, err)
		return
	}
	e.ProjectID = r.PathValue("projectId")
	if e.Type == "" {
		s.fail(w, r, fmt.Errorf("%w: type is required", models.ErrInvalidInput))
		return
	}
	if e.Strength == "" {
		e.Strength = models.StrengthMedium
	}
	if !e.Strength.Valid() {
		s.fail(w, r, fmt.Errorf("%w: invalid strength %q", models.ErrInvalidInput, e.Strength))
		return
	}
	if e.QualityScore < 0 || e.QualityScore > 1 {
		s.fail(w, r, fmt.Errorf("%w: qualityScore must be between 0 and 1", models.ErrInvalidInput))
		return
	}
	if err := s.Evidence.Create(r.Context(), &e); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleListEvidence(w http.ResponseWriter, r *http.Request) {
	list, err := s.Evidence.ListByProject(r.Context(), r.PathValue("projectId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"evidence": list, "count": len(list)})
}
