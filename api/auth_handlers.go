package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/auth"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse is the bearer credential envelope.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.auth.Register(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusBadRequest, "username and password are required")
	case errors.Is(err, auth.ErrUserExists):
		respondError(w, http.StatusConflict, "user already exists")
	case err != nil:
		log.Error().Err(err).Msg("user registration failed")
		respondError(w, http.StatusInternalServerError, "could not register user")
	default:
		respondJSON(w, http.StatusCreated, map[string]any{"success": true})
	}
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.auth.Authenticate(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondError(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		log.Error().Err(err).Msg("authentication failed")
		respondError(w, http.StatusInternalServerError, "could not authenticate")
		return
	}

	token, err := s.auth.IssueToken(auth.SanitizeUsername(req.Username))
	if err != nil {
		log.Error().Err(err).Msg("token issuance failed")
		respondError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
