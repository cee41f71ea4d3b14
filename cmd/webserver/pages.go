package main

import (
	"log"
	"net/http"

	"passquiz"
)

type reviewOption struct {
	Text      string
	IsCorrect bool
	IsChosen  bool
}

type reviewItem struct {
	Category  string
	Question  string
	Options   []reviewOption
	Answered  bool
	IsCorrect bool
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{}
	if session := s.sessions.SessionFromRequest(r); session != nil {
		data["Name"] = session.Name
	}
	s.render(w, "home", data)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.SessionFromRequest(r)
	if session == nil || session.Name == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if session.IsAuthed {
		http.Redirect(w, r, "/quiz", http.StatusSeeOther)
		return
	}

	s.render(w, "login", map[string]interface{}{
		"Name": session.Name,
	})
}

// handleQuizPage serves a fresh random order of questions and options on
// every request, so reloading the page reshuffles.
func (s *Server) handleQuizPage(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireAuthed(w, r)
	if !ok {
		return
	}

	questions := passquiz.Randomize(s.bank.All(), s.newRand())

	s.render(w, "quiz", map[string]interface{}{
		"Name":      session.Name,
		"Questions": questions,
		"Total":     len(questions),
	})
}

func (s *Server) handleResultsPage(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireAuthed(w, r)
	if !ok {
		return
	}

	result := s.results.Load(r)
	if result == nil {
		http.Redirect(w, r, "/quiz", http.StatusSeeOther)
		return
	}

	data := map[string]interface{}{
		"Name":       session.Name,
		"Correct":    result.Correct,
		"Total":      result.Total,
		"Percentage": result.Percentage,
		"Passed":     passquiz.Passed(result.Percentage),
		"Review":     buildReview(s.bank.All(), result.Answers),
	}

	if s.db != nil {
		n, err := s.db.CountAttempts(r.Context(), session.Name)
		if err != nil {
			log.Printf("Failed to count attempts for %s: %v", session.Name, err)
		} else {
			data["Attempts"] = n
		}
	}

	s.render(w, "results", data)
}

// requireAuthed redirects to the entry point or the login page when the
// session does not allow taking the quiz.
func (s *Server) requireAuthed(w http.ResponseWriter, r *http.Request) (*passquiz.SessionData, bool) {
	session := s.sessions.SessionFromRequest(r)
	if session == nil || session.Name == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	if !session.IsAuthed {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, false
	}
	return session, true
}

func buildReview(questions []passquiz.Question, answers map[int]int) []reviewItem {
	review := make([]reviewItem, 0, len(questions))
	for _, q := range questions {
		chosen, answered := answers[q.ID]

		item := reviewItem{
			Category:  q.Category,
			Question:  q.Question,
			Answered:  answered,
			IsCorrect: answered && chosen == q.CorrectIndex,
			Options:   make([]reviewOption, len(q.Options)),
		}
		for i, opt := range q.Options {
			item.Options[i] = reviewOption{
				Text:      opt,
				IsCorrect: i == q.CorrectIndex,
				IsChosen:  answered && i == chosen,
			}
		}
		review = append(review, item)
	}
	return review
}
