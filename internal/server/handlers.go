package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/abhisek/medstud/internal/extract"
	"github.com/abhisek/medstud/internal/quiz"
	"github.com/abhisek/medstud/internal/quizgen"
	"github.com/abhisek/medstud/internal/spacedrep"
)

const defaultCount = 10

// CreateQuizRequest is the body of POST /v1/quizzes.
type CreateQuizRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
	Count  int    `json:"count"`
	Model  string `json:"model"`
	Mode   string `json:"mode"`
}

// QuizItem is a generated item together with its stable ID.
type QuizItem struct {
	ID string `json:"id"`
	quizgen.Item
}

// CreateQuizResponse is the body returned by POST /v1/quizzes.
type CreateQuizResponse struct {
	Items    []QuizItem   `json:"items"`
	Headings []string     `json:"headings"`
	Meta     extract.Meta `json:"meta"`
}

// createQuiz handles POST /v1/quizzes
func (s *server) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	format := extract.FormatText
	if req.Format != "" {
		f, err := extract.ParseFormat(req.Format)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = f
	}
	mode, err := quizgen.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	count := req.Count
	if count == 0 {
		count = defaultCount
	}

	doc, err := extract.Extract(extract.FromBytes([]byte(req.Text)), format)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	gen := s.c.Generator.WithCache(quizgen.Scoped(s.c.Generator.Cache(), r.Header.Get(ClientHeader)))
	items := gen.Generate(r.Context(), doc, quizgen.Options{Count: count, Model: req.Model, Mode: mode})

	if s.c.Items != nil {
		if err := quiz.SaveItems(r.Context(), s.c.Items, items); err != nil {
			s.c.Logger.Printf("save items: %v", err)
		}
	}

	resp := CreateQuizResponse{
		Items:    make([]QuizItem, len(items)),
		Headings: doc.Headings,
		Meta:     doc.Meta,
	}
	for i, it := range items {
		resp.Items[i] = QuizItem{ID: it.ID(), Item: it}
	}
	writeJSON(w, http.StatusOK, resp)
}

// RecordReviewRequest is the body of POST /v1/reviews.
type RecordReviewRequest struct {
	ItemID  string `json:"item_id"`
	Correct bool   `json:"correct"`
	Answer  string `json:"answer"`
}

// recordReview handles POST /v1/reviews
func (s *server) recordReview(w http.ResponseWriter, r *http.Request) {
	var req RecordReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ItemID) == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	s.mu.Lock()
	rec, err := s.recorder(r).Record(r.Context(), quiz.Answer{
		ItemID:   req.ItemID,
		Given:    req.Answer,
		Feedback: quiz.Feedback{Graded: true, Correct: req.Correct},
	})
	s.mu.Unlock()
	if err != nil {
		s.c.Logger.Printf("record review %s: %v", req.ItemID, err)
		writeError(w, http.StatusInternalServerError, "failed to record review")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DueReview is one entry of GET /v1/reviews/due.
type DueReview struct {
	spacedrep.Record
	Item *quizgen.Item `json:"item,omitempty"`
}

// dueReviews handles GET /v1/reviews/due
func (s *server) dueReviews(w http.ResponseWriter, r *http.Request) {
	due := s.c.Scheduler.Due(s.c.Now())

	out := make([]DueReview, len(due))
	ids := make([]string, len(due))
	for i, rec := range due {
		out[i] = DueReview{Record: rec}
		ids[i] = rec.ID
	}

	if s.c.Items != nil && len(ids) > 0 {
		items, err := quiz.LoadItems(r.Context(), s.c.Items, ids)
		if err != nil {
			s.c.Logger.Printf("load due items: %v", err)
		}
		for i := range out {
			if it, ok := items[out[i].ID]; ok {
				out[i].Item = &it
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"due": out})
}
