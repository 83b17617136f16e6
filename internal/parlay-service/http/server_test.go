package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/sports-parlay-engine/internal/parlay-service/repo"
	"github.com/radieske/sports-parlay-engine/pkg/contracts/events"
)

const knownID = "6f1c2f0e-6a5b-4b8e-9a57-2d7f1f6b9c01"

type fakeReader struct {
	latest map[string][]events.ParlayBuilt
	calls  int
}

func (f *fakeReader) Latest(_ context.Context, sport string) ([]events.ParlayBuilt, error) {
	f.calls++
	if sport == "boom" {
		return nil, errors.New("db down")
	}
	return f.latest[sport], nil
}

func (f *fakeReader) ByID(_ context.Context, id string) (events.ParlayBuilt, error) {
	if id != knownID {
		return events.ParlayBuilt{}, repo.ErrNotFound
	}
	return events.ParlayBuilt{ParlayID: id, Sport: "nba", LegCount: 3}, nil
}

type fakeCache struct {
	data map[string][]events.ParlayBuilt
	sets int
}

func (f *fakeCache) GetLatest(_ context.Context, sport string) ([]events.ParlayBuilt, bool, error) {
	p, ok := f.data[sport]
	return p, ok, nil
}

func (f *fakeCache) SetLatest(_ context.Context, sport string, p []events.ParlayBuilt) error {
	f.sets++
	f.data[sport] = p
	return nil
}

func newAPI() (*API, *fakeReader, *fakeCache) {
	rd := &fakeReader{latest: map[string][]events.ParlayBuilt{
		"nba": {{ParlayID: "a", Sport: "nba"}, {ParlayID: "b", Sport: "nba"}},
	}}
	c := &fakeCache{data: map[string][]events.ParlayBuilt{}}
	return &API{Log: zap.NewNop(), ReadRepo: rd, Cache: c, AllowedOrigins: []string{"*"}}, rd, c
}

func get(h http.Handler, url string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestListLatest_ReadThrough(t *testing.T) {
	api, rd, c := newAPI()
	h := api.Router()

	for i := 0; i < 2; i++ {
		rec := get(h, "/v1/parlays?sport=NBA")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var got []events.ParlayBuilt
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
	}
	if rd.calls != 1 || c.sets != 1 {
		t.Errorf("db calls = %d, cache sets = %d, want 1 and 1", rd.calls, c.sets)
	}
}

func TestListLatest(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantBody   string
	}{
		{"missing sport", "/v1/parlays", http.StatusBadRequest, ""},
		{"empty sport", "/v1/parlays?sport=nhl", http.StatusOK, "[]\n"},
		{"db failure", "/v1/parlays?sport=boom", http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, _, c := newAPI()
			rec := get(api.Router(), tt.url)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if c.sets != 0 {
				t.Error("empty or failed lookups must not be cached")
			}
		})
	}
}

func TestGetParlay(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"found", knownID, http.StatusOK},
		{"not found", "0b0c7a9e-3d1f-4c55-8b0e-1f2a3b4c5d6e", http.StatusNotFound},
		{"invalid id", "not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, _, _ := newAPI()
			rec := get(api.Router(), "/v1/parlays/"+tt.id)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	api, _, _ := newAPI()
	req := httptest.NewRequest(http.MethodOptions, "/v1/parlays?sport=nba", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
