package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/huddleup/gameplan/internal/utils"
	"github.com/huddleup/gameplan/pkg/cache"
	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/sirupsen/logrus"
)

// Store is everything the HTTP API reads and writes. *storage.DB implements it.
type Store interface {
	gameplan.PlanStore
	gameplan.DataStore
	PlanDataVersion(ctx context.Context, id string) (int64, error)

	ListSituations(ctx context.Context, userID string) ([]gameplan.Situation, error)
	ReplaceSituations(ctx context.Context, userID string, situations []gameplan.Situation) ([]gameplan.Situation, error)

	ListPlays(ctx context.Context) ([]gameplan.Play, error)
	AddPlay(ctx context.Context, p gameplan.Play) (gameplan.Play, error)
	DeletePlay(ctx context.Context, id string) error

	ListScripts(ctx context.Context, planID string) ([]gameplan.PlayScript, error)
	GetScript(ctx context.Context, id string) (gameplan.PlayScript, error)
	PutScript(ctx context.Context, s gameplan.PlayScript) (gameplan.PlayScript, error)
	DeleteScript(ctx context.Context, id string) error
	ReorderScript(ctx context.Context, id string, from, to int) (gameplan.PlayScript, error)
	ResolveScript(ctx context.Context, s gameplan.PlayScript) ([]gameplan.Play, error)

	Authenticate(ctx context.Context, username, password string) (gameplan.User, error)
}

type Config struct {
	JWTSecret   []byte
	TokenTTL    time.Duration
	CORSOrigins []string
	CacheTTL    time.Duration
}

type Server struct {
	Store    Store
	Registry *gameplan.Registry
	Content  *gameplan.Content
	Cache    cache.Cache
	CacheTTL time.Duration

	auth        *Auth
	corsOrigins []string
}

func New(store Store, c cache.Cache, cfg Config) *Server {
	if c == nil {
		c = cache.NewMemory()
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &Server{
		Store:       store,
		Registry:    gameplan.NewRegistry(store, store),
		Content:     gameplan.NewContent(store),
		Cache:       c,
		CacheTTL:    cfg.CacheTTL,
		auth:        NewAuth(cfg.JWTSecret, cfg.TokenTTL),
		corsOrigins: cfg.CORSOrigins,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/auth/login", s.handleLogin)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.auth.RequireAuth)

		r.Get("/situations", s.handleGetSituations)
		r.Post("/situations", s.handleReplaceSituations)
		r.Get("/bootstrap", s.handleBootstrap)

		r.Get("/plays", s.handleListPlays)
		r.Post("/plays", s.handleAddPlay)
		r.Delete("/plays/{playID}", s.handleDeletePlay)

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", s.handleListPlans)
			r.Post("/", s.handleAddPlan)
			r.Get("/next-week", s.handleNextWeek)

			r.Route("/{planID}", func(r chi.Router) {
				r.Get("/", s.handleGetPlan)
				r.Put("/", s.handleUpdatePlan)
				r.Delete("/", s.handleDeletePlan)
				r.Post("/copy", s.handleCopyPlan)

				r.Get("/data", s.handleGetData)
				r.Put("/data", s.handleSaveData)
				r.Post("/sections/{sectionID}/plays", s.handleAddSectionPlay)
				r.Delete("/sections/{sectionID}/plays/{playID}", s.handleRemoveSectionPlay)
				r.Put("/sections/{sectionID}/status", s.handleSectionStatus)
				r.Post("/moves", s.handleMovePlay)

				r.Get("/callsheet", s.handleCallSheet)
				r.Get("/practice", s.handlePractice)

				r.Get("/scripts", s.handleListScripts)
				r.Post("/scripts", s.handleAddScript)
				r.Get("/scripts/{scriptID}", s.handleGetScript)
				r.Delete("/scripts/{scriptID}", s.handleDeleteScript)
				r.Post("/scripts/{scriptID}/moves", s.handleMoveScriptPlay)
			})
		})
	})
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		utils.Log.Infof("Starting server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		utils.Log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": chimiddleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}
