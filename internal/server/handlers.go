// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/internal/review"
)

const maxBodyBytes = 1 << 20

// paperRequest is the body of POST and DELETE /papers. Clients send the
// full paper object they received from /diff; only the id is used.
type paperRequest struct {
	ID        string `json:"id" validate:"required"`
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Submitted string `json:"submitted"`
	Source    string `json:"source"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getDiff(w http.ResponseWriter, r *http.Request) {
	papers, err := s.svc.Diff(r.Context())
	if err != nil {
		s.logger.Error("diff failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load papers")
		return
	}
	s.metrics.untriaged.Set(float64(len(papers)))
	writeJSON(w, http.StatusOK, papers)
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Progress(r.Context())
	if err != nil {
		s.logger.Error("loading progress failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load progress")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) addPaper(w http.ResponseWriter, r *http.Request) {
	s.mark(w, r, "added", s.svc.Add)
}

func (s *Server) deletePaper(w http.ResponseWriter, r *http.Request) {
	s.mark(w, r, "deleted", s.svc.Delete)
}

func (s *Server) mark(w http.ResponseWriter, r *http.Request, action string, record func(context.Context, string) error) {
	id, err := s.decodeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := record(r.Context(), id); err != nil {
		if errors.Is(err, review.ErrEmptyID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("recording decision failed", zap.String("action", action), zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save progress")
		return
	}

	s.metrics.marks.WithLabelValues(action).Inc()
	s.logger.Info("paper "+action, zap.String("id", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// decodeID accepts either a paper object with an "id" field or a bare JSON
// string holding the id.
func (s *Server) decodeID(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "", errors.New("request body is required")
	}

	if body[0] == '"' {
		var id string
		if err := json.Unmarshal(body, &id); err != nil {
			return "", fmt.Errorf("invalid JSON: %w", err)
		}
		if id == "" {
			return "", review.ErrEmptyID
		}
		return id, nil
	}

	var req paperRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return "", review.ErrEmptyID
	}
	return req.ID, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
