package main

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"passquiz"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 64 << 10

const historyLimit = 20

type nameRequest struct {
	Name string `json:"name"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type submitRequest struct {
	Answers map[int]int `json:"answers"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// handleSetName starts an unauthenticated session for the submitted name
func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	name, err := passquiz.NormalizeName(req.Name)
	if err != nil {
		passquiz.VerboseLog("Rejected name: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid name")
		return
	}

	token, err := s.sessions.CreateSession(passquiz.SessionData{Name: name, IsAuthed: false})
	if err != nil {
		writeInternalError(w, "set-name", err)
		return
	}
	s.sessions.SetSessionCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// handleLogin upgrades the session when the password matches. Every attempt,
// successful or not, counts against the caller's rate limit until it succeeds.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	key := clientKey(r)

	limit := s.limiter.Check(key)
	if !limit.Allowed {
		log.Printf("Login rate limited for %s, resets in %s", key, limit.ResetIn)
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":   "Too many attempts. Please try again later.",
			"resetIn": millis(limit.ResetIn),
		})
		return
	}

	session := s.sessions.SessionFromRequest(r)
	if session == nil || session.Name == "" {
		writeError(w, http.StatusUnauthorized, "Session not found")
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.password)) != 1 {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error":     "Wrong password",
			"remaining": limit.Remaining,
			"resetIn":   millis(limit.ResetIn),
		})
		return
	}

	s.limiter.Reset(key)

	token, err := s.sessions.CreateSession(passquiz.SessionData{Name: session.Name, IsAuthed: true})
	if err != nil {
		writeInternalError(w, "login", err)
		return
	}
	s.sessions.SetSessionCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// handleSubmit scores the answers and caches the result in a cookie
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.SessionFromRequest(r)
	if session == nil || !session.IsAuthed {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Answers == nil {
		writeError(w, http.StatusBadRequest, "Invalid answers")
		return
	}

	// Answers to unknown questions cannot score and are dropped
	answers := make(map[int]int, len(req.Answers))
	for id, choice := range req.Answers {
		if _, ok := s.bank.Get(id); ok {
			answers[id] = choice
		}
	}

	score := s.bank.Score(answers)
	result := passquiz.NewQuizResult(score, answers, s.now())

	if err := s.results.Save(w, r, result); err != nil {
		writeInternalError(w, "submit", err)
		return
	}

	if s.db != nil {
		if _, err := s.db.RecordAttempt(r.Context(), session.Name, result); err != nil {
			log.Printf("Failed to record attempt for %s: %v", session.Name, err)
		}
	}

	log.Printf("%s scored %d/%d (%d%%)", session.Name, score.Correct, score.Total, score.Percentage)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "result": score})
}

// handleReset drops the cached result so the quiz can be retaken
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.SessionFromRequest(r)
	if session == nil || !session.IsAuthed {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.results.Clear(w, r); err != nil {
		writeInternalError(w, "reset", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// handleLogout clears the session and the cached result
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearSession(w)
	if err := s.results.Clear(w, r); err != nil {
		writeInternalError(w, "logout", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// handleHistory lists the caller's previous attempts
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.SessionFromRequest(r)
	if session == nil || !session.IsAuthed {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	attempts, err := s.listAttempts(r, session.Name)
	if errors.Is(err, passquiz.ErrHistoryDisabled) {
		writeError(w, http.StatusNotFound, "History disabled")
		return
	}
	if err != nil {
		writeInternalError(w, "history", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}

func (s *Server) listAttempts(r *http.Request, name string) ([]passquiz.Attempt, error) {
	if s.db == nil {
		return nil, passquiz.ErrHistoryDisabled
	}
	return s.db.ListAttempts(r.Context(), name, historyLimit)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
