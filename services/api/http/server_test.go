package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandemic-stats/covid-dashboard/services/api/config"
	"github.com/pandemic-stats/covid-dashboard/services/api/dataset"
	"github.com/pandemic-stats/covid-dashboard/services/api/pages"
	"github.com/pandemic-stats/covid-dashboard/services/api/present"
)

type stubSource struct {
	casesErr error
}

func fp(v float64) *float64 { return &v }

func (s *stubSource) Cases(context.Context) (dataset.Table[dataset.CaseRecord], error) {
	if s.casesErr != nil {
		return dataset.Table[dataset.CaseRecord]{}, s.casesErr
	}
	d := func(day int) time.Time { return time.Date(2021, time.March, day, 0, 0, 0, 0, time.UTC) }
	return dataset.Table[dataset.CaseRecord]{Source: "cases.csv", Rows: []dataset.CaseRecord{
		{Country: "Chile", Date: d(1), NewCases: fp(3), CumulativeCases: fp(3), NewDeaths: fp(0), CumulativeDeaths: fp(0)},
		{Country: "Chile", Date: d(2), NewCases: fp(4), CumulativeCases: fp(7), NewDeaths: fp(1), CumulativeDeaths: fp(1)},
		{Country: "Peru", Date: d(2), NewCases: fp(8), CumulativeCases: fp(8), NewDeaths: fp(2), CumulativeDeaths: fp(2)},
	}}, nil
}

func (s *stubSource) Vaccinations(context.Context) (dataset.Table[dataset.VaccinationRecord], error) {
	return dataset.Table[dataset.VaccinationRecord]{}, nil
}

func (s *stubSource) Coordinates(context.Context) ([]dataset.Coordinate, error) {
	return []dataset.Coordinate{{Country: "CL", Name: "Chile", Latitude: fp(-35), Longitude: fp(-71)}}, nil
}

type stubAdmin struct {
	refreshed  int
	refreshErr error
}

func (a *stubAdmin) Sources() dataset.Sources {
	return dataset.Sources{Cases: "cases.csv", Vaccinations: "https://example.org/v.csv", Coordinates: "countries.csv"}
}

func (a *stubAdmin) Cached() []dataset.CacheInfo {
	return []dataset.CacheInfo{{Key: "https://example.org/v.csv", Rows: 10}}
}

func (a *stubAdmin) Refresh(context.Context) ([]dataset.CacheInfo, error) {
	a.refreshed++
	return a.Cached(), a.refreshErr
}

func newTestServer(t *testing.T, src *stubSource, admin *stubAdmin, token string) *Server {
	t.Helper()
	cfg := config.Config{Port: 0, BearerToken: token, FetchTimeout: time.Second, CacheTTL: time.Hour}
	router := pages.Default(src, present.NewFormatter("en"), pages.Options{})
	return New(cfg, router, admin, nil)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func do(s *Server, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubAdmin{}, "")
	w := do(s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthzPingsStore(t *testing.T) {
	cfg := config.Config{CacheTTL: time.Hour}
	router := pages.Default(&stubSource{}, present.NewFormatter("en"), pages.Options{})

	s := New(cfg, router, &stubAdmin{}, stubPinger{})
	w := do(s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	s = New(cfg, router, &stubAdmin{}, stubPinger{err: errors.New("connection refused")})
	w = do(s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","error":"connection refused"}`, w.Body.String())
}

func TestMenu(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubAdmin{}, "")
	w := do(s, http.MethodGet, "/api/v1/pages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v1", w.Header().Get("X-API-Version"))

	body := decode(t, w)
	data := body["data"].([]any)
	require.Len(t, data, 4)
	assert.Equal(t, "home", data[0].(map[string]any)["slug"])
	assert.Equal(t, float64(4), body["meta"].(map[string]any)["count"])
}

func TestRenderPage(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubAdmin{}, "")
	w := do(s, http.MethodGet, "/api/v1/pages/cases?country=Chile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, "cases", data["page"])
	assert.Equal(t, "Chile", data["selector"])
	assert.Equal(t, "2021-03-02T00:00:00Z", body["meta"].(map[string]any)["latest_date"])

	metrics := data["metrics"].([]any)
	first := metrics[0].(map[string]any)
	assert.Equal(t, "TotalCases", first["id"])
	assert.Equal(t, "7", first["value"])
}

func TestRenderUnknownPage(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubAdmin{}, "")
	w := do(s, http.MethodGet, "/api/v1/pages/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode(t, w)["error"], "unknown page")
}

func TestRenderSourceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unavailable", &dataset.SourceUnavailableError{Source: "cases.csv", Err: errors.New("gone")}, http.StatusServiceUnavailable},
		{"schema", &dataset.SchemaMismatchError{Source: "cases.csv", Missing: []string{"Country"}}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &stubSource{casesErr: tt.err}, &stubAdmin{}, "")
			w := do(s, http.MethodGet, "/api/v1/pages/cases", nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCountries(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubAdmin{}, "")
	w := do(s, http.MethodGet, "/api/v1/pages/cases/countries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"All", "Chile", "Peru"}, decode(t, w)["data"])

	w = do(s, http.MethodGet, "/api/v1/pages/home/countries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["data"])
}

func TestChartImage(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubAdmin{}, "")

	w := do(s, http.MethodGet, "/api/v1/pages/cases/charts/daily.png?width=4&height=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), img.Bounds().Dy(), "width=4 height=3")

	w = do(s, http.MethodGet, "/api/v1/pages/cases/charts/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(s, http.MethodGet, "/api/v1/pages/cases/charts/daily?width=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSources(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubAdmin{}, "")
	w := do(s, http.MethodGet, "/api/v1/sources", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, "cases.csv", data["sources"].(map[string]any)["cases"])
	assert.Len(t, data["cache"], 1)
	assert.Equal(t, "1h0m0s", body["meta"].(map[string]any)["cache_ttl"])
}

func TestRefreshRequiresToken(t *testing.T) {
	admin := &stubAdmin{}
	s := newTestServer(t, &stubSource{}, admin, "secret")

	w := do(s, http.MethodPost, "/api/v1/sources/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(s, http.MethodPost, "/api/v1/sources/refresh", http.Header{"Authorization": {"Bearer wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, admin.refreshed)

	w = do(s, http.MethodPost, "/api/v1/sources/refresh", http.Header{"Authorization": {"Bearer secret"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, admin.refreshed)

	// Reads stay public.
	w = do(s, http.MethodGet, "/api/v1/pages", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshFailure(t *testing.T) {
	admin := &stubAdmin{refreshErr: &dataset.SourceUnavailableError{Source: "https://example.org/v.csv", Err: errors.New("timeout")}}
	s := newTestServer(t, &stubSource{}, admin, "")

	w := do(s, http.MethodPost, "/api/v1/sources/refresh", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
