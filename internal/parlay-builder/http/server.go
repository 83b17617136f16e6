package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/dto"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/engine"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/recorder"
)

const (
	defaultRecent = 20
	maxRecent     = 100
)

// Runner é implementado por runner.Runner
type Runner interface {
	Run(ctx context.Context, sport string, exp *engine.Exposure) (model.RunResult, error)
}

// API expõe o disparo manual do motor e o histórico de execuções
type API struct {
	Log      *zap.Logger
	Runner   Runner
	Recorder recorder.Recorder
	Limiter  *rate.Limiter // nil = sem limite
	Sports   []string      // esportes aceitos; vazio aceita qualquer um

	OnThrottled func() // métricas
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Post("/v1/runs", a.triggerRun)       // Executa o motor para um esporte
	r.Get("/v1/runs/recent", a.recentRuns) // Últimas execuções registradas
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

// triggerRun executa o motor na hora para ?sport=
func (a *API) triggerRun(w http.ResponseWriter, r *http.Request) {
	sport := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sport")))
	if sport == "" {
		writeError(w, http.StatusBadRequest, "sport required")
		return
	}
	if len(a.Sports) > 0 && !slices.Contains(a.Sports, sport) {
		writeError(w, http.StatusBadRequest, "unsupported sport "+sport)
		return
	}

	if a.Limiter != nil && !a.Limiter.Allow() {
		if a.OnThrottled != nil {
			a.OnThrottled()
		}
		w.Header().Set("Retry-After", "5")
		writeError(w, http.StatusTooManyRequests, "too many runs; try again later")
		return
	}

	res, err := a.Runner.Run(r.Context(), sport, nil)
	if err != nil {
		a.Log.Warn("manual run failed", zap.String("sport", sport), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.FromRun(res))
}

// recentRuns lista o histórico do recorder; aceita ?sport= e ?limit=
func (a *API) recentRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecent
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxRecent)
	}
	sport := strings.ToLower(r.URL.Query().Get("sport"))

	runs, err := a.Recorder.RecentRuns(r.Context(), sport, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []recorder.RunSummary{}
	}
	writeJSON(w, http.StatusOK, runs)
}
