package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/lintang-b-s/roadroute/pkg/server"
	"github.com/lintang-b-s/roadroute/pkg/server/rest/service"
	"github.com/lintang-b-s/roadroute/pkg/snap"
	"github.com/lintang-b-s/roadroute/pkg/util"
)

const maxBatchQueries = 1000

type RouteService interface {
	Calculate(ctx context.Context, start, destination datastructure.Point) (service.RouteResult, error)
	CalculateBatch(ctx context.Context, queries []service.RouteQuery) ([]service.BatchResult, error)
	NearestLinks(ctx context.Context, p datastructure.Point, k int) ([]snap.NearLink, error)
}

type RouteHandler struct {
	svc      RouteService
	m        *Metrics
	validate *validator.Validate
	trans    ut.Translator
}

func RouteRouter(r *chi.Mux, svc RouteService, m *Metrics) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &RouteHandler{svc: svc, m: m, validate: validate, trans: trans}

	r.Group(func(r chi.Router) {
		r.Route("/api/route", func(r chi.Router) {
			r.Post("/calculate", handler.Calculate)
			r.Post("/batch", handler.CalculateBatch)
			r.Post("/nearest-links", handler.NearestLinks)
		})
	})
}

// PointRequest model info
//
//	@Description	position in the road network's coordinate space
type PointRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
	Z *float64 `json:"z"`
}

func (p PointRequest) toPoint() datastructure.Point {
	var x, y, z float64
	if p.X != nil {
		x = *p.X
	}
	if p.Y != nil {
		y = *p.Y
	}
	if p.Z != nil {
		z = *p.Z
	}
	return datastructure.NewPoint(x, y, z)
}

// CalculateRouteRequest model info
//
//	@Description	request body for point to point route calculation
type CalculateRouteRequest struct {
	Start       PointRequest `json:"start"`
	Destination PointRequest `json:"destination"`
}

func (s *CalculateRouteRequest) Bind(r *http.Request) error {
	return nil
}

// PointResponse model info
//
//	@Description	position in the road network's coordinate space
type PointResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func newPointResponse(p datastructure.Point) PointResponse {
	return PointResponse{X: p.X, Y: p.Y, Z: p.Z}
}

// RouteResponse model info
//
//	@Description	response body for route calculation
type RouteResponse struct {
	Links             []datastructure.LinkID `json:"links"`
	Distance          float64                `json:"distance"`
	Path              []PointResponse        `json:"path"`
	Polyline          string                 `json:"polyline,omitempty"`
	GeoDistance       float64                `json:"geo_distance,omitempty"`
	Outcome           string                 `json:"outcome"`
	ExpandedJunctions int                    `json:"expanded_junctions"`
	Cached            bool                   `json:"cached"`
}

func RenderRouteResponse(res service.RouteResult) *RouteResponse {
	path := make([]PointResponse, 0, len(res.Path))
	for _, p := range res.Path {
		path = append(path, newPointResponse(p))
	}
	return &RouteResponse{
		Links:             res.Route.Links,
		Distance:          util.RoundFloat(res.Distance, 2),
		Path:              path,
		Polyline:          res.Polyline,
		GeoDistance:       util.RoundFloat(res.GeoDistance, 2),
		Outcome:           res.Outcome.String(),
		ExpandedJunctions: res.Expanded,
		Cached:            res.Cached,
	}
}

// Calculate
//
//	@Summary		shortest route between two positions. both positions snap to their nearest road link, the route is found with A* over junctions
//	@Description	shortest route between two positions. both positions snap to their nearest road link, the route is found with A* over junctions
//	@Tags			routes
//	@Param			body	body	CalculateRouteRequest	true	"request body route calculation"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/route/calculate [post]
//	@Success		200	{object}	RouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	data := &CalculateRouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(*data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	res, err := h.svc.Calculate(r.Context(), data.Start.toPoint(), data.Destination.toPoint())
	h.observe(res, err)
	if err != nil {
		render.Render(w, r, ErrorRenderer(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderRouteResponse(res))
}

// observe records the outcome of calculations that reached the route calculator.
func (h *RouteHandler) observe(res service.RouteResult, err error) {
	if err != nil && server.CodeOf(err) != server.ErrNotFound {
		return
	}
	h.m.observeRoute(res.Outcome.String(), res.Expanded, res.Cached)
}

// BatchRouteRequest model info
//
//	@Description	request body for many independent route calculations
type BatchRouteRequest struct {
	Queries []CalculateRouteRequest `json:"queries" validate:"required,min=1,max=1000,dive"`
}

func (s *BatchRouteRequest) Bind(r *http.Request) error {
	if len(s.Queries) > maxBatchQueries {
		return fmt.Errorf("at most %d queries per batch", maxBatchQueries)
	}
	return nil
}

// BatchRouteItem model info
//
//	@Description	one entry of a batch response. route is empty when error is set
type BatchRouteItem struct {
	Route *RouteResponse `json:"route,omitempty"`
	Error string         `json:"error,omitempty"`
}

// BatchRouteResponse model info
//
//	@Description	response body for batch route calculation, in the order of the queries
type BatchRouteResponse struct {
	Results []BatchRouteItem `json:"results"`
}

func RenderBatchRouteResponse(results []service.BatchResult) *BatchRouteResponse {
	items := make([]BatchRouteItem, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			items = append(items, BatchRouteItem{Error: userMessage(res.Err)})
			continue
		}
		items = append(items, BatchRouteItem{Route: RenderRouteResponse(res.Result)})
	}
	return &BatchRouteResponse{Results: items}
}

// CalculateBatch
//
//	@Summary		many independent route calculations in one request, spread over a worker pool
//	@Description	many independent route calculations in one request, spread over a worker pool
//	@Tags			routes
//	@Param			body	body	BatchRouteRequest	true	"request body batch route calculation"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/route/batch [post]
//	@Success		200	{object}	BatchRouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RouteHandler) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	data := &BatchRouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(*data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	queries := make([]service.RouteQuery, 0, len(data.Queries))
	for _, q := range data.Queries {
		queries = append(queries, service.RouteQuery{Start: q.Start.toPoint(), Destination: q.Destination.toPoint()})
	}

	results, err := h.svc.CalculateBatch(r.Context(), queries)
	if err != nil {
		render.Render(w, r, ErrorRenderer(err))
		return
	}
	for _, res := range results {
		h.observe(res.Result, res.Err)
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderBatchRouteResponse(results))
}

// NearestLinksRequest model info
//
//	@Description	request body for nearest road links lookup
type NearestLinksRequest struct {
	Point PointRequest `json:"point"`
	K     int          `json:"k" validate:"required,min=1,max=100"`
}

func (s *NearestLinksRequest) Bind(r *http.Request) error {
	return nil
}

// NearLinkResponse model info
//
//	@Description	road link near the query point
type NearLinkResponse struct {
	LinkID     datastructure.LinkID `json:"link_id"`
	Distance   float64              `json:"distance"`
	Projection PointResponse        `json:"projection"`
}

// NearestLinksResponse model info
//
//	@Description	response body for nearest road links lookup, closest first
type NearestLinksResponse struct {
	Links []NearLinkResponse `json:"links"`
}

func RenderNearestLinksResponse(links []snap.NearLink) *NearestLinksResponse {
	resp := make([]NearLinkResponse, 0, len(links))
	for _, l := range links {
		resp = append(resp, NearLinkResponse{
			LinkID:     l.LinkID,
			Distance:   util.RoundFloat(l.Distance, 3),
			Projection: newPointResponse(l.Projection),
		})
	}
	return &NearestLinksResponse{Links: resp}
}

// NearestLinks
//
//	@Summary		k road links closest to a position
//	@Description	k road links closest to a position, with the distance and the closest point on each link
//	@Tags			routes
//	@Param			body	body	NearestLinksRequest	true	"request body nearest links"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/route/nearest-links [post]
//	@Success		200	{object}	NearestLinksResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RouteHandler) NearestLinks(w http.ResponseWriter, r *http.Request) {
	data := &NearestLinksRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(*data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	links, err := h.svc.NearestLinks(r.Context(), data.Point.toPoint(), data.K)
	if err != nil {
		render.Render(w, r, ErrorRenderer(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderNearestLinksResponse(links))
}

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrNotFoundRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Not found.",
		AppCode:        int64(server.ErrNotFound),
		ErrorText:      userMessage(err),
	}
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}

// ErrorRenderer maps the code of a service error to its http response.
func ErrorRenderer(err error) render.Renderer {
	switch server.CodeOf(err) {
	case server.ErrNotFound:
		return ErrNotFoundRend(err)
	case server.ErrBadParamInput:
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusBadRequest,
			StatusText:     "Invalid request.",
			AppCode:        int64(server.ErrBadParamInput),
			ErrorText:      userMessage(err),
		}
	default:
		return ErrInternalServerErrorRend(errors.New("internal server error"))
	}
}

func userMessage(err error) string {
	var e *server.Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}
