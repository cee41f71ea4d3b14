package main

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"

	"passquiz"

	"github.com/gorilla/mux"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server serves the quiz pages and JSON API
type Server struct {
	bank      *passquiz.QuestionBank
	sessions  *passquiz.SessionManager
	results   *passquiz.ResultStore
	limiter   *passquiz.RateLimiter
	db        *passquiz.DB
	password  string
	templates map[string]*template.Template
	newRand   func() *rand.Rand
	now       func() time.Time
}

// ServerDeps are the collaborators a Server is built from. DB may be nil to
// disable attempt history; NewRand and Now default to time-seeded randomness
// and the wall clock.
type ServerDeps struct {
	Bank     *passquiz.QuestionBank
	Sessions *passquiz.SessionManager
	Results  *passquiz.ResultStore
	Limiter  *passquiz.RateLimiter
	DB       *passquiz.DB
	Password string
	NewRand  func() *rand.Rand
	Now      func() time.Time
}

// NewServer checks deps and parses the page templates
func NewServer(deps ServerDeps) (*Server, error) {
	if deps.Bank == nil || deps.Sessions == nil || deps.Results == nil || deps.Limiter == nil {
		return nil, errors.New("bank, sessions, results and limiter are required")
	}
	if deps.Password == "" {
		return nil, errors.New("password is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		bank:      deps.Bank,
		sessions:  deps.Sessions,
		results:   deps.Results,
		limiter:   deps.Limiter,
		db:        deps.DB,
		password:  deps.Password,
		templates: templates,
		newRand:   deps.NewRand,
		now:       deps.Now,
	}
	if s.newRand == nil {
		s.newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

func loadTemplates() (map[string]*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
	}

	templates := make(map[string]*template.Template)
	for _, name := range []string{"home", "login", "quiz", "results"} {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// Routes builds the HTTP handler
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(recoverMiddleware, logMiddleware)

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/quiz", s.handleQuizPage).Methods(http.MethodGet)
	r.HandleFunc("/results", s.handleResultsPage).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session/name", s.handleSetName).Methods(http.MethodPost)
	api.HandleFunc("/session/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/session/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/quiz/submit", s.handleSubmit).Methods(http.MethodPost)
	api.HandleFunc("/quiz/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/quiz/history", s.handleHistory).Methods(http.MethodGet)

	return r
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates[name].ExecuteTemplate(&buf, "base.html", data); err != nil {
		log.Printf("Template error in %s: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg})
}

func writeInternalError(w http.ResponseWriter, where string, err error) {
	log.Printf("Internal error in %s: %v", where, err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// clientKey identifies the caller for rate limiting
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return "unknown"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !passquiz.Verbose() {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		passquiz.VerboseLog("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				writeInternalError(w, r.URL.Path, fmt.Errorf("panic: %v", p))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
