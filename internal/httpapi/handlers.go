package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
	"github.com/ford-at-home/storygen-sub000/internal/config"
	"github.com/ford-at-home/storygen-sub000/internal/validation"
	"github.com/ford-at-home/storygen-sub000/internal/version"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	styles := make([]StyleResponse, 0, len(config.Styles))
	for _, st := range config.Styles {
		styles = append(styles, StyleResponse{ID: st.ID, Name: st.Name, Description: st.Description, MaxTokens: st.MaxTokens})
	}
	respondJSON(w, http.StatusOK, map[string]any{"styles": styles})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, apperr.Wrap(apperr.InvalidInput, err, "malformed request body"))
		return
	}

	result, err := s.engine.Start(r.Context(), req.CoreIdea, req.UserID)
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusCreated, StartResponse{
		SessionID:     result.SessionID,
		FirstQuestion: result.FirstQuestion,
		Stage:         string(result.Stage),
	})
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req ContinueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, apperr.Wrap(apperr.InvalidInput, err, "malformed request body"))
		return
	}

	result, err := s.engine.Continue(r.Context(), id, req.Text)
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusOK, ContinueResponse{
		ResponseText: result.Message,
		Stage:        string(result.Stage),
		Options:      toCandidateDTOs(result.Options),
		FinalStory:   toFinalStoryDTO(result.FinalStory),
	})
}

func (s *Server) handleSelectOption(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req SelectOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, apperr.Wrap(apperr.InvalidInput, err, "malformed request body"))
		return
	}

	optType, err := validation.Option(req.Type, req.Index)
	if err != nil {
		respondError(w, http.StatusBadRequest, apperr.Wrap(apperr.InvalidInput, err, err.Error()))
		return
	}

	result, err := s.engine.SelectOption(r.Context(), id, optType, req.Index)
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusOK, SelectOptionResponse{ResponseText: result.Message, Stage: string(result.Stage)})
}

func (s *Server) handleGenerateFinal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req GenerateFinalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, apperr.Wrap(apperr.InvalidInput, err, "malformed request body"))
		return
	}

	result, err := s.engine.GenerateFinal(r.Context(), id, req.Style)
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusOK, GenerateFinalResponse{FinalStory: *toFinalStoryDTO(&result.FinalStory)})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := s.engine.GetSession(r.Context(), id)
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (s *Server) handleListActive(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.engine.ListActiveSessions(r.Context())
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	out := make([]SessionResponse, len(sessions))
	for i, sess := range sessions {
		out[i] = toSessionResponse(sess)
	}
	respondJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError reports err as a structured body (spec §7: "every error
// response carries a stable error kind string and a human-readable
// message"), rather than collapsing the domain error into a single
// formatted string a client would have to parse back apart.
func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]any{"error": ErrorBody{
		Kind:    string(apperr.KindOf(err)),
		Message: apperr.MessageOf(err),
		Stage:   apperr.StageOf(err),
	}})
}

// statusFromError maps a domain error to an HTTP status via its apperr
// kind, generalized from the teacher's sentinel-error switch since every
// error this engine returns already carries a typed Kind.
func statusFromError(err error) int {
	return apperr.StatusCode(err)
}
