package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/lintang-b-s/roadroute/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadroute/pkg/server"
	"github.com/lintang-b-s/roadroute/pkg/server/rest/service"
	"github.com/lintang-b-s/roadroute/pkg/snap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, svc RouteService) (*chi.Mux, *Metrics) {
	t.Helper()
	m := NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(PromeHttpMiddleware(m))
	RouteRouter(r, svc, m)
	return r, m
}

func newTestService(t *testing.T) *service.RouteService {
	t.Helper()
	// A(0,0,0) -1-> B(10,0,0) -2-> C(20,0,0) -3-> D(30,0,0), plus E(0,50,0) -4-> F(10,50,0)
	net, err := datastructure.NewRoadNetworkBuilder().
		AddJunction(1, datastructure.NewPoint(0, 0, 0)).
		AddJunction(2, datastructure.NewPoint(10, 0, 0)).
		AddJunction(3, datastructure.NewPoint(20, 0, 0)).
		AddJunction(4, datastructure.NewPoint(30, 0, 0)).
		AddJunction(5, datastructure.NewPoint(0, 50, 0)).
		AddJunction(6, datastructure.NewPoint(10, 50, 0)).
		AddLink(1, 1, 2).
		AddLink(2, 2, 3).
		AddLink(3, 3, 4).
		AddLink(4, 5, 6).
		Build()
	require.NoError(t, err)
	indexed, err := snap.NewIndexedNetwork(net, snap.WithMaxSnapDistance(15))
	require.NoError(t, err)
	return service.NewRouteService(indexed,
		service.WithCalculatorOptions(routingalgorithm.WithLogger(log.New(io.Discard, "", 0))),
		service.WithWorkers(2))
}

func doPost(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCalculateHandler(t *testing.T) {
	r, m := newTestRouter(t, newTestService(t))

	rec := doPost(t, r, "/api/route/calculate",
		`{"start":{"x":5,"y":0,"z":0},"destination":{"x":25,"y":0}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []datastructure.LinkID{1, 2, 3}, resp.Links)
	assert.InDelta(t, 30.0, resp.Distance, 1e-9)
	assert.Len(t, resp.Path, 4)
	assert.Equal(t, "found", resp.Outcome)
	assert.Equal(t, 1, resp.ExpandedJunctions)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.routeOutcomes.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/route/calculate", "POST", "200")))
}

func TestCalculateHandlerErrors(t *testing.T) {
	r, m := newTestRouter(t, newTestService(t))

	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantText   string
	}{
		{
			name:       "malformed json",
			body:       `{"start":`,
			wantStatus: http.StatusBadRequest,
			wantText:   "Invalid request.",
		},
		{
			name:       "missing coordinate",
			body:       `{"start":{"x":5},"destination":{"x":25,"y":0}}`,
			wantStatus: http.StatusBadRequest,
			wantText:   "Y is a required field",
		},
		{
			name:       "position outside the network",
			body:       `{"start":{"x":5,"y":500},"destination":{"x":25,"y":0}}`,
			wantStatus: http.StatusNotFound,
			wantText:   "not covered on my map",
		},
		{
			name:       "no route",
			body:       `{"start":{"x":5,"y":0},"destination":{"x":5,"y":50}}`,
			wantStatus: http.StatusNotFound,
			wantText:   "no route from link 1 to link 4",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := doPost(t, r, "/api/route/calculate", c.body)
			assert.Equal(t, c.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), c.wantText)
		})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.routeOutcomes.WithLabelValues("no_path")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.routeOutcomes.WithLabelValues("unresolved_endpoint")))
}

func TestCalculateBatchHandler(t *testing.T) {
	r, _ := newTestRouter(t, newTestService(t))

	body := `{"queries":[
		{"start":{"x":5,"y":0},"destination":{"x":15,"y":0}},
		{"start":{"x":5,"y":0},"destination":{"x":5,"y":50}},
		{"start":{"x":12,"y":1},"destination":{"x":29,"y":-1}}
	]}`
	rec := doPost(t, r, "/api/route/batch", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BatchRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)

	require.NotNil(t, resp.Results[0].Route)
	assert.Equal(t, []datastructure.LinkID{1, 2}, resp.Results[0].Route.Links)
	assert.Nil(t, resp.Results[1].Route)
	assert.Contains(t, resp.Results[1].Error, "no route")
	require.NotNil(t, resp.Results[2].Route)
	assert.Equal(t, []datastructure.LinkID{2, 3}, resp.Results[2].Route.Links)

	t.Run("empty batch", func(t *testing.T) {
		rec := doPost(t, r, "/api/route/batch", `{"queries":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNearestLinksHandler(t *testing.T) {
	r, _ := newTestRouter(t, newTestService(t))

	rec := doPost(t, r, "/api/route/nearest-links", `{"point":{"x":14,"y":2,"z":0},"k":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp NearestLinksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Links, 2)
	assert.Equal(t, datastructure.LinkID(2), resp.Links[0].LinkID)
	assert.InDelta(t, 2.0, resp.Links[0].Distance, 1e-9)
	assert.Equal(t, PointResponse{X: 14, Y: 0, Z: 0}, resp.Links[0].Projection)

	rec = doPost(t, r, "/api/route/nearest-links", `{"point":{"x":14,"y":2},"k":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "K is a required field")
}

type failingService struct{}

func (failingService) Calculate(ctx context.Context, start, destination datastructure.Point) (service.RouteResult, error) {
	return service.RouteResult{}, server.WrapErrorf(errors.New("disk on fire"), server.ErrInternalServerError, "internal server error")
}

func (failingService) CalculateBatch(ctx context.Context, queries []service.RouteQuery) ([]service.BatchResult, error) {
	return nil, server.NewErrorf(server.ErrBadParamInput, "batch too large")
}

func (failingService) NearestLinks(ctx context.Context, p datastructure.Point, k int) ([]snap.NearLink, error) {
	return nil, errors.New("unexpected")
}

func TestHandlersHideInternalErrors(t *testing.T) {
	r, m := newTestRouter(t, failingService{})

	rec := doPost(t, r, "/api/route/calculate", `{"start":{"x":0,"y":0},"destination":{"x":1,"y":1}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
	assert.Equal(t, 0, testutil.CollectAndCount(m.routeOutcomes))

	rec = doPost(t, r, "/api/route/batch", `{"queries":[{"start":{"x":0,"y":0},"destination":{"x":1,"y":1}}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "batch too large")

	rec = doPost(t, r, "/api/route/nearest-links", `{"point":{"x":0,"y":0},"k":1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestErrorRenderer(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantText   string
	}{
		{server.NewErrorf(server.ErrNotFound, "nothing here"), http.StatusNotFound, "nothing here"},
		{server.NewErrorf(server.ErrBadParamInput, "k must be positive"), http.StatusBadRequest, "k must be positive"},
		{server.WrapErrorf(errors.New("disk"), server.ErrInternalServerError, "boom"), http.StatusInternalServerError, "internal server error"},
		{errors.New("plain"), http.StatusInternalServerError, "internal server error"},
	}

	for _, c := range cases {
		resp := ErrorRenderer(c.err).(*ErrResponse)
		assert.Equal(t, c.wantStatus, resp.HTTPStatusCode)
		assert.Equal(t, c.wantText, resp.ErrorText)
	}
}
