// internal/httpserver/routes_game.go
//
// HTTP routes for a player's game session, mounted under /api/game:
//   - POST /new        → start (or replace) the session with a random target
//   - GET  /           → current snapshot
//   - POST /guess      → submit a guess by character id
//   - POST /attributes → toggle an attribute column
//   - POST /hints      → turn directional hints on/off
//   - POST /reset      → new target, same column/hint preferences
//
// Every response that changes state returns the full snapshot so the client
// can re-render without a second request.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hsr-guess/internal/dataset"
	"github.com/robalobadob/hsr-guess/internal/game"
	"github.com/robalobadob/hsr-guess/internal/prefs"
	"github.com/robalobadob/hsr-guess/internal/schema"
	"github.com/robalobadob/hsr-guess/internal/store"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/", s.handleGetGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/attributes", s.handleToggleAttribute)
		r.Post("/hints", s.handleHints)
		r.Post("/reset", s.handleReset)
	})
}

// snapshot is what the client renders after every operation.
type snapshot struct {
	State        game.State         `json:"state"`
	Won          bool               `json:"won"`
	Daily        bool               `json:"daily"`
	HintsEnabled bool               `json:"hintsEnabled"`
	Columns      []schema.Attribute `json:"columns"`
	Rows         []game.Row         `json:"rows"` // oldest first
	Target       *characterRes      `json:"target,omitempty"`
}

func (s *Server) snapshotOf(sess *store.Session, g *game.Game) snapshot {
	snap := snapshot{
		State:        g.State(),
		Won:          g.Won(),
		Daily:        sess.Daily,
		HintsEnabled: g.HintsEnabled(),
		Columns:      g.ActiveAttributes(),
		Rows:         g.Board(),
	}
	if t, ok := g.Target(); ok {
		v := s.characterView(t)
		snap.Target = &v
	}
	return snap
}

// ------------------------------- /new --------------------------------------

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.startSession(w, r, s.opts.Picker, false)
}

// startSession creates a fresh game for the caller, restores stored
// preferences, and replaces any live session.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, picker game.Picker, isDaily bool) {
	pid := s.playerID(w, r)

	g := game.New(s.opts.Schema, game.WithPicker(picker))
	if err := g.LoadDataset(s.opts.Dataset); err != nil {
		writeGameError(w, err)
		return
	}
	if err := g.StartSession(); err != nil {
		writeGameError(w, err)
		return
	}
	s.restorePrefs(r.Context(), pid, g)

	sess := store.NewSession(pid, g)
	sess.Daily = isDaily
	if err := s.opts.Sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("player", pid).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	var snap snapshot
	_ = sess.Do(func(g *game.Game) error {
		snap = s.snapshotOf(sess, g)
		return nil
	})
	log.Info().Str("player", pid).Bool("daily", isDaily).Msg("session started")
	writeJSON(w, http.StatusOK, snap)
}

// restorePrefs applies the player's saved columns and hint flag to g.
func (s *Server) restorePrefs(ctx context.Context, pid string, g *game.Game) {
	if s.opts.Prefs == nil {
		return
	}
	p, found, err := s.opts.Prefs.Load(ctx, pid)
	if err != nil {
		log.Warn().Err(err).Str("player", pid).Msg("load prefs")
		return
	}
	if !found {
		return
	}
	g.SetActiveKeys(p.Columns)
	g.SetHintsEnabled(p.Hints)
}

// savePrefs persists the current columns and hint flag. Failures are logged
// and never fail the request.
func (s *Server) savePrefs(ctx context.Context, pid string, p prefs.Prefs) {
	if s.opts.Prefs == nil {
		return
	}
	if err := s.opts.Prefs.Save(ctx, pid, p); err != nil {
		log.Warn().Err(err).Str("player", pid).Msg("save prefs")
	}
}

// session looks up the caller's live session.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *store.Session, error) {
	pid := s.playerID(w, r)
	sess, err := s.opts.Sessions.Get(r.Context(), pid)
	return pid, sess, err
}

// ------------------------------- GET / -------------------------------------

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(w, r)
	if err != nil {
		writeGameError(w, err)
		return
	}
	var snap snapshot
	_ = sess.Do(func(g *game.Game) error {
		snap = s.snapshotOf(sess, g)
		return nil
	})
	writeJSON(w, http.StatusOK, snap)
}

// ------------------------------ /guess -------------------------------------

type guessReq struct {
	// CharacterID accepts either a JSON string or number.
	CharacterID dataset.Value `json:"characterId"`
}

type guessRes struct {
	Won      bool     `json:"won"`
	Row      game.Row `json:"row"`
	Snapshot snapshot `json:"snapshot"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CharacterID.IsList() {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	pid, sess, err := s.session(w, r)
	if err != nil {
		writeGameError(w, err)
		return
	}

	var res guessRes
	err = sess.Do(func(g *game.Game) error {
		before := g.Won()
		won, row, err := g.SubmitGuessID(req.CharacterID.String())
		if err != nil {
			return err
		}
		res = guessRes{Won: won, Row: row, Snapshot: s.snapshotOf(sess, g)}
		if won && !before {
			log.Info().Str("player", pid).Int("guesses", len(g.Guesses())).Msg("target found")
		}
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ---------------------------- /attributes ----------------------------------

type toggleReq struct {
	Key    string `json:"key"`
	Active *bool  `json:"active"`
}

func (s *Server) handleToggleAttribute(w http.ResponseWriter, r *http.Request) {
	var req toggleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if _, ok := s.opts.Schema.Lookup(req.Key); !ok {
		writeError(w, http.StatusBadRequest, "unknown_attribute")
		return
	}
	pid, sess, err := s.session(w, r)
	if err != nil {
		writeGameError(w, err)
		return
	}

	var snap snapshot
	var p prefs.Prefs
	_ = sess.Do(func(g *game.Game) error {
		g.ToggleAttribute(req.Key, *req.Active)
		p = prefs.Prefs{Columns: g.ActiveKeys(), Hints: g.HintsEnabled()}
		snap = s.snapshotOf(sess, g)
		return nil
	})
	s.savePrefs(r.Context(), pid, p)
	writeJSON(w, http.StatusOK, snap)
}

// ------------------------------ /hints -------------------------------------

type hintsReq struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleHints(w http.ResponseWriter, r *http.Request) {
	var req hintsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	pid, sess, err := s.session(w, r)
	if err != nil {
		writeGameError(w, err)
		return
	}

	var snap snapshot
	var p prefs.Prefs
	_ = sess.Do(func(g *game.Game) error {
		g.SetHintsEnabled(*req.Enabled)
		p = prefs.Prefs{Columns: g.ActiveKeys(), Hints: g.HintsEnabled()}
		snap = s.snapshotOf(sess, g)
		return nil
	})
	s.savePrefs(r.Context(), pid, p)
	writeJSON(w, http.StatusOK, snap)
}

// ------------------------------ /reset -------------------------------------

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	pid, sess, err := s.session(w, r)
	if err != nil {
		writeGameError(w, err)
		return
	}

	var snap snapshot
	err = sess.Do(func(g *game.Game) error {
		keys, hints := g.ActiveKeys(), g.HintsEnabled()
		if err := g.Reset(); err != nil {
			return err
		}
		g.SetActiveKeys(keys)
		g.SetHintsEnabled(hints)
		snap = s.snapshotOf(sess, g)
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	log.Info().Str("player", pid).Bool("daily", sess.Daily).Msg("session reset")
	writeJSON(w, http.StatusOK, snap)
}
