package api

import (
	"net/http"
)

type startOnboardingRequest struct {
	UserID      string         `json:"userId"`
	PlanType    string         `json:"planType"`
	UserContext map[string]any `json:"userContext"`
}

func (s *Server) handleStartOnboarding(w http.ResponseWriter, r *http.Request) {
	var req startOnboardingRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = requestUser(r)
	}
	result, err := s.Onboarding.Start(r.Context(), userID, req.PlanType, req.UserContext)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetOnboarding(w http.ResponseWriter, r *http.Request) {
	session, err := s.Onboarding.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type onboardingMessageRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleOnboardingMessage(w http.ResponseWriter, r *http.Request) {
	var req onboardingMessageRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.Onboarding.SendMessage(r.Context(), r.PathValue("id"), req.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
