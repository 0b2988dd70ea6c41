package api

import (
	"net/http"

	"github.com/shubh-37/startupai/internal/agents"
	"github.com/shubh-37/startupai/internal/canvas"
)

func (s *Server) handleGenerateCanvas(w http.ResponseWriter, r *http.Request) {
	var req agents.GenerateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.Generator.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if result.Status != agents.StatusSuccess {
		writeJSON(w, http.StatusInternalServerError, result)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	c, err := s.Canvases.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCanvasQuality(w http.ResponseWriter, r *http.Request) {
	report, err := s.Canvases.Quality(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGenerateVisual(w http.ResponseWriter, r *http.Request) {
	var opts canvas.VisualOptions
	if err := decode(r, &opts); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.Canvases.GenerateVisualCanvas(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePublishCanvas(w http.ResponseWriter, r *http.Request) {
	c, err := s.Canvases.Publish(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleArchiveCanvas(w http.ResponseWriter, r *http.Request) {
	c, err := s.Canvases.Archive(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleListClientCanvases(w http.ResponseWriter, r *http.Request) {
	list, err := s.Canvases.ListByClient(r.Context(), r.PathValue("clientId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"canvases": list, "count": len(list)})
}
