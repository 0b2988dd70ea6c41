package api

import (
	"net/http"

	"github.com/shubh-37/startupai/internal/analysis"
)

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var in analysis.Inputs
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.Analysis.Run(r.Context(), in, requestUser(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
