// internal/httpserver/server.go
//
// HTTP wiring for the guessing game.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery,
//     timeouts, CORS, JSON content type).
//   - Public endpoints: "/", "/health", schema and character search.
//   - Game endpoints under /api/game and /api/daily (see routes_game.go,
//     routes_daily.go).
//
// Notes:
//   - Each player owns at most one live session, keyed by the player ID
//     carried in a signed cookie (identity.go).
//   - Preference persistence is optional; a nil PrefStore just skips it.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hsr-guess/internal/daily"
	"github.com/robalobadob/hsr-guess/internal/dataset"
	"github.com/robalobadob/hsr-guess/internal/game"
	"github.com/robalobadob/hsr-guess/internal/prefs"
	"github.com/robalobadob/hsr-guess/internal/schema"
	"github.com/robalobadob/hsr-guess/internal/store"
)

// PrefStore persists per-player preferences. *prefs.Store satisfies it.
type PrefStore interface {
	Load(ctx context.Context, playerID string) (prefs.Prefs, bool, error)
	Save(ctx context.Context, playerID string, p prefs.Prefs) error
}

// Options carries the server's collaborators and settings.
type Options struct {
	Schema        *schema.Schema
	Dataset       *dataset.Dataset
	Sessions      store.Store
	Prefs         PrefStore // optional
	TokenSecret   string
	ClientOrigin  string
	SecureCookies bool
	DailySalt     string
	Picker        game.Picker // defaults to game.CryptoPicker
	DailyPicker   game.Picker // defaults to daily.NewPicker(DailySalt)
}

// Server bundles the router with the game collaborators.
type Server struct {
	r    *chi.Mux
	opts Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Sessions == nil {
		opts.Sessions = store.NewMemoryStore()
	}
	if opts.Picker == nil {
		opts.Picker = game.CryptoPicker{}
	}
	if opts.DailyPicker == nil {
		opts.DailyPicker = daily.NewPicker(opts.DailySalt)
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.ClientOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.r.Use(jsonContentType)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "hsr-guess",
			"endpoints": []string{
				"/health", "GET /api/schema", "GET /api/characters?q=",
				"POST /api/game/new", "GET /api/game", "POST /api/game/guess",
				"POST /api/game/attributes", "POST /api/game/hints",
				"POST /api/game/reset", "POST /api/daily/new",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "characters": s.opts.Dataset.Len()})
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Get("/schema", s.handleSchema)
		r.Get("/characters", s.handleSearch)
		s.mountGame(r)
		s.mountDaily(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ catalogue ----------------------------------

type schemaRes struct {
	Attributes []schema.Attribute `json:"attributes"`
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schemaRes{Attributes: s.opts.Schema.All()})
}

// characterRes is the autocomplete / reveal view of a character.
type characterRes struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// handleSearch backs the name autocomplete: GET /api/characters?q=&limit=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	out := []characterRes{}
	for _, c := range s.opts.Dataset.Search(r.URL.Query().Get("q"), limit) {
		out = append(out, s.characterView(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// characterView uses the first mandatory image attribute as the portrait.
func (s *Server) characterView(c *dataset.Character) characterRes {
	res := characterRes{ID: c.ID, Name: c.Name}
	for _, a := range s.opts.Schema.Mandatory() {
		if a.Type == schema.TypeImage {
			res.Image = c.Image(a)
			break
		}
	}
	return res
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeGameError maps core errors onto HTTP responses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, "invalid_guess")
	case errors.Is(err, game.ErrNoSession), errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "no_session")
	case errors.Is(err, dataset.ErrDataLoad), errors.Is(err, dataset.ErrEmptyDataset):
		writeError(w, http.StatusServiceUnavailable, "dataset_unavailable")
	default:
		log.Error().Err(err).Msg("game operation failed")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
