// internal/httpserver/routes_daily.go
//
// HTTP routes for the "character of the day" mode.
//   - POST /daily/new → start a session whose target is today's daily pick
//
// The session is otherwise a normal game session: guesses, toggles, hints
// and reset all go through /api/game. Reset on a daily session picks the
// daily target again.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/hsr-guess/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/date", s.handleDailyDate)
	})
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	s.startSession(w, r, s.opts.DailyPicker, true)
}

// handleDailyDate reports which UTC day the daily target belongs to.
func (s *Server) handleDailyDate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"date": daily.DateKey(time.Now())})
}
