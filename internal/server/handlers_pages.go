package server

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/jonathan/portfolio-site/internal/session"
	"github.com/jonathan/portfolio-site/internal/types"
)

const uploadField = "jobImage"

// handleIndex renders the full page. An optional ?tab= selects the active tab first.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	ctx := r.Context()

	var (
		state *session.State
		err   error
	)
	if tab := r.URL.Query().Get("tab"); tab != "" {
		state, err = s.flow.SwitchTab(ctx, id, types.Tab(tab))
	} else {
		state, err = s.flow.Get(ctx, id)
	}
	if err != nil {
		s.pageError(w, err)
		return
	}

	s.renderPage(w, http.StatusOK, state)

	if state.Flash != "" {
		if _, err := s.flow.DismissFlash(ctx, id); err != nil {
			s.logger.Error("failed to clear notification", "session", id, "error", err)
		}
	}
}

// handleAnalyze runs the upload flow and shows the outcome on the AI tab.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)

	file, err := s.uploadedFile(w, r)
	if err != nil {
		s.logger.Warn("upload rejected", "session", id, "error", err)
	}

	var body io.Reader
	if file != nil {
		defer file.Close()
		body = file
	}

	// Submit records failures on the session itself; the page shows them.
	if _, err := s.flow.Submit(r.Context(), id, body); err != nil && HTTPStatus(err) == http.StatusInternalServerError {
		s.pageError(w, err)
		return
	}
	http.Redirect(w, r, "/?tab="+string(types.TabAI), http.StatusSeeOther)
}

// handleAdapt applies the current record to the hero copy.
func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)

	hero, _, err := s.flow.Apply(r.Context(), id)
	if err != nil {
		if HTTPStatus(err) == http.StatusUnprocessableEntity {
			s.logger.Warn("record cannot be applied", "session", id, "error", err)
			http.Redirect(w, r, "/?tab="+string(types.TabAI), http.StatusSeeOther)
			return
		}
		s.pageError(w, err)
		return
	}
	if hero == nil {
		http.Redirect(w, r, "/?tab="+string(types.TabAI), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	if _, err := s.flow.Reset(r.Context(), id); err != nil {
		s.pageError(w, err)
		return
	}
	http.Redirect(w, r, "/?tab="+string(types.TabAI), http.StatusSeeOther)
}

func (s *Server) handleToggleLanguage(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	if _, err := s.flow.ToggleLanguage(r.Context(), id); err != nil {
		s.pageError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSwitchTab(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	if _, err := s.flow.SwitchTab(r.Context(), id, types.Tab(r.PathValue("tab"))); err != nil {
		s.pageError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleOpenProject renders the page with the project modal on its first image.
func (s *Server) handleOpenProject(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	projectID := r.PathValue("id")
	ctx := r.Context()

	state, err := s.flow.Get(ctx, id)
	if err != nil {
		s.pageError(w, err)
		return
	}
	// Returning from next/prev keeps the slide; a fresh visit starts at the first image.
	if state.Gallery == nil || state.Gallery.ProjectID != projectID {
		state, err = s.flow.OpenProject(ctx, id, projectID)
		if err != nil {
			s.pageError(w, err)
			return
		}
	}
	s.renderPage(w, http.StatusOK, state)
}

func (s *Server) handleNextSlide(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	projectID := r.PathValue("id")
	if _, err := s.flow.NextSlide(r.Context(), id, projectID); err != nil {
		s.pageError(w, err)
		return
	}
	http.Redirect(w, r, "/projects/"+projectID, http.StatusSeeOther)
}

func (s *Server) handlePrevSlide(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	projectID := r.PathValue("id")
	if _, err := s.flow.PrevSlide(r.Context(), id, projectID); err != nil {
		s.pageError(w, err)
		return
	}
	http.Redirect(w, r, "/projects/"+projectID, http.StatusSeeOther)
}

func (s *Server) handleCloseProject(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	if _, err := s.flow.CloseProject(r.Context(), id); err != nil {
		s.pageError(w, err)
		return
	}
	http.Redirect(w, r, "/?tab="+string(types.TabProjects), http.StatusSeeOther)
}

// uploadedFile enforces the upload limit and returns the screenshot part.
func (s *Server) uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, &ErrValidation{Field: uploadField, Message: "malformed multipart form"}
	}
	file, _, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, &ErrValidation{Field: uploadField, Message: "file is required"}
		}
		return nil, err
	}
	return file, nil
}

func (s *Server) renderPage(w http.ResponseWriter, status int, state *session.State) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, s.builder.Build(state)); err != nil {
		s.pageError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) pageError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "status", status)
	}
	http.Error(w, http.StatusText(status), status)
}
