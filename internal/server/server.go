// Package server exposes quiz generation and review scheduling over HTTP.
package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhisek/medstud/internal/quiz"
	"github.com/abhisek/medstud/internal/quizgen"
	"github.com/abhisek/medstud/internal/spacedrep"
	"github.com/abhisek/medstud/internal/store"
)

// ClientHeader names the request header whose value isolates one
// caller's cached quizzes from another's.
const ClientHeader = "X-Client-ID"

// maxBodyBytes bounds uploaded study text.
const maxBodyBytes = 4 << 20

// Container holds the dependencies of the router. Generator and Scheduler
// are required; the rest may be nil.
type Container struct {
	Generator *quizgen.Generator
	Scheduler *spacedrep.Scheduler
	Events    store.EventRepo
	Items     store.ReviewRepo
	Logger    *log.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

type server struct {
	c Container

	// mu keeps each answer event and its review update in request order.
	mu sync.Mutex
}

// NewRouter creates the API router.
func NewRouter(c Container) http.Handler {
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	s := &server{c: c}

	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/quizzes", s.createQuiz).Methods(http.MethodPost)
	v1.HandleFunc("/reviews", s.recordReview).Methods(http.MethodPost)
	v1.HandleFunc("/reviews/due", s.dueReviews).Methods(http.MethodGet)

	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.c.Logger.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

func (s *server) recorder(r *http.Request) *quiz.Recorder {
	return &quiz.Recorder{
		Events:    s.c.Events,
		Scheduler: s.c.Scheduler,
		SessionID: r.Header.Get(ClientHeader),
		Now:       s.c.Now,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
