package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/portfolio-site/internal/adapt"
	"github.com/jonathan/portfolio-site/internal/catalog"
	"github.com/jonathan/portfolio-site/internal/i18n"
	"github.com/jonathan/portfolio-site/internal/session"
	"github.com/jonathan/portfolio-site/internal/types"
)

// SessionResponse represents the response for /api/session and /api/analyze
type SessionResponse struct {
	Status   types.Status          `json:"status"`
	Record   *types.AnalysisRecord `json:"record"`
	Language types.Language        `json:"language"`
	Tab      types.Tab             `json:"tab"`
	Hero     *adapt.Hero           `json:"hero,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// AdaptResponse represents the response for /api/adapt
type AdaptResponse struct {
	Hero *adapt.Hero `json:"hero"`
}

// ProjectsResponse represents the response for /api/projects
type ProjectsResponse struct {
	Language types.Language    `json:"language"`
	Projects []catalog.Entry   `json:"projects"`
	Stack    []types.StackItem `json:"stack"`
}

type projectsQuery struct {
	Lang string `validate:"omitempty,oneof=es en"`
}

func newSessionResponse(state *session.State) SessionResponse {
	resp := SessionResponse{
		Status:   state.Status,
		Record:   state.Record,
		Language: state.Language,
		Tab:      state.Tab,
	}
	if hero, err := adapt.Apply(state.Applied, state.Language); err == nil {
		resp.Hero = hero
	}
	return resp
}

// handleAPIAnalyze runs the upload flow and reports the outcome as JSON.
func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)

	file, err := s.uploadedFile(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer file.Close()

	state, err := s.flow.Submit(r.Context(), id, file)
	if err != nil {
		// Every analysis failure surfaces as the same notification.
		status := HTTPStatus(err)
		if state == nil {
			s.errorResponse(w, status, s.translator.T(types.DefaultLanguage, session.FlashAnalysisFailed))
			return
		}
		resp := newSessionResponse(state)
		resp.Error = s.translator.T(state.Language, session.FlashAnalysisFailed)
		s.jsonResponse(w, status, resp)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(state))
}

func (s *Server) handleAPISession(w http.ResponseWriter, r *http.Request) {
	state, err := s.flow.Get(r.Context(), s.sessionID(w, r))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to load session")
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(state))
}

// handleAPIAdapt applies the current record. Without one the hero is null.
func (s *Server) handleAPIAdapt(w http.ResponseWriter, r *http.Request) {
	hero, _, err := s.flow.Apply(r.Context(), s.sessionID(w, r))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, AdaptResponse{Hero: hero})
}

func (s *Server) handleAPIReset(w http.ResponseWriter, r *http.Request) {
	state, err := s.flow.Reset(r.Context(), s.sessionID(w, r))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to reset session")
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(state))
}

func (s *Server) handleAPIProjects(w http.ResponseWriter, r *http.Request) {
	q := projectsQuery{Lang: r.URL.Query().Get("lang")}
	if err := s.validate.Struct(q); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			err = &ErrValidation{Field: "lang", Message: "must be one of: es en"}
		}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	lang := i18n.ParseLanguage(q.Lang)
	s.jsonResponse(w, http.StatusOK, ProjectsResponse{
		Language: lang,
		Projects: s.catalog.List(lang),
		Stack:    s.catalog.Stack(),
	})
}
