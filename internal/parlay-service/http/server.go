package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/sports-parlay-engine/internal/parlay-service/repo"
	"github.com/radieske/sports-parlay-engine/pkg/contracts/events"
)

type Reader interface {
	Latest(ctx context.Context, sport string) ([]events.ParlayBuilt, error)
	ByID(ctx context.Context, id string) (events.ParlayBuilt, error)
}

type Cache interface {
	GetLatest(ctx context.Context, sport string) ([]events.ParlayBuilt, bool, error)
	SetLatest(ctx context.Context, sport string, parlays []events.ParlayBuilt) error
}

// API expõe os endpoints REST de consulta de parlays
// Utiliza um repositório de leitura (Postgres) e cache (Redis)
type API struct {
	Log            *zap.Logger
	ReadRepo       Reader
	Cache          Cache
	WS             http.HandlerFunc // nil desabilita /ws
	AllowedOrigins []string
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/v1/parlays", a.listLatest)     // Parlays da última execução de um esporte
	r.Get("/v1/parlays/{id}", a.getParlay) // Um parlay com suas pernas
	if a.WS != nil {
		r.Get("/ws", a.WS)
	}
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listLatest retorna os parlays mais recentes, preferencialmente do cache
func (a *API) listLatest(w http.ResponseWriter, r *http.Request) {
	sport := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sport")))
	if sport == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sport required"})
		return
	}

	cached, ok, err := a.Cache.GetLatest(r.Context(), sport)
	if err != nil {
		a.Log.Warn("redis get failed", zap.String("sport", sport), zap.Error(err))
	}
	if ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	parlays, err := a.ReadRepo.Latest(r.Context(), sport)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if parlays == nil {
		parlays = []events.ParlayBuilt{}
	}
	if len(parlays) > 0 {
		if err := a.Cache.SetLatest(r.Context(), sport, parlays); err != nil {
			a.Log.Warn("redis set failed", zap.String("sport", sport), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, parlays)
}

func (a *API) getParlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	p, err := a.ReadRepo.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}
