package api

import (
	"net/http"

	"github.com/shubh-37/startupai/internal/collaboration"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req collaboration.CreateSessionRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	session, err := s.Orchestrator.CreateSession(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.Orchestrator.GetSession(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleRunSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.Orchestrator.RunSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleSessionsByCanvas(w http.ResponseWriter, r *http.Request) {
	sessions := s.Orchestrator.SessionsByCanvas(r.PathValue("canvasId"))
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions, "count": len(sessions)})
}

type startDebateRequest struct {
	Topic string `json:"topic"`
}

func (s *Server) handleStartDebate(w http.ResponseWriter, r *http.Request) {
	var req startDebateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	debate, err := s.Orchestrator.StartDebate(r.PathValue("id"), req.Topic)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, debate)
}

func (s *Server) handleGetDebate(w http.ResponseWriter, r *http.Request) {
	debate, err := s.Orchestrator.GetDebate(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, debate)
}

type positionRequest struct {
	AgentID  string   `json:"agentId"`
	Position string   `json:"position"`
	Evidence []string `json:"evidence"`
}

func (s *Server) handleAddPosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	id := r.PathValue("id")
	if err := s.Orchestrator.AddPosition(id, req.AgentID, req.Position, req.Evidence); err != nil {
		s.fail(w, r, err)
		return
	}
	debate, err := s.Orchestrator.GetDebate(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, debate)
}

func (s *Server) handleResolveDebate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	consensus, err := s.Orchestrator.ResolveDebate(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	debate, err := s.Orchestrator.GetDebate(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"consensus": consensus, "debate": debate})
}

type simulationRequest struct {
	Scenario string `json:"scenario"`
}

func (s *Server) handleRunSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.Orchestrator.RunSimulation(r.PathValue("id"), req.Scenario)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
