package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"lintang/routeviz/pkg/indictment"
	"lintang/routeviz/pkg/overlay"
	"lintang/routeviz/pkg/server"
	"lintang/routeviz/pkg/server/rest/service"
	"lintang/routeviz/pkg/solution"
	"lintang/routeviz/pkg/spatial"
	"lintang/routeviz/pkg/util"
	"lintang/routeviz/pkg/viewer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type OverlayService interface {
	List(ctx context.Context) ([]string, error)
	Render(ctx context.Context, id string) (*service.RenderResult, error)
	RenderDocument(ctx context.Context, doc solution.Document, indictments []indictment.Indictment) *service.RenderResult
	ScoreBadge(ctx context.Context, id string) (overlay.Badge, error)
	Nearest(ctx context.Context, id string, lat, lon float64, k int) ([]spatial.Hit, error)
	Snapshot(id string) (*overlay.Overlay, error)
	SnapshotMarkers(id string, lat, lon, radiusKm float64) ([]overlay.Marker, error)
	ShowView(ctx context.Context, id string) (*viewer.Frame, error)
	CurrentView() (*viewer.Frame, bool)
}

type OverlayHandler struct {
	svc          OverlayService
	promeMetrics *metrics
}

func OverlayRouter(r *chi.Mux, svc OverlayService, m *metrics) {
	handler := &OverlayHandler{svc, m}

	r.Group(func(r chi.Router) {
		r.Route("/api/overlays", func(r chi.Router) {
			r.Get("/", handler.list)
			r.Post("/render", handler.renderDocument)
			r.Put("/view", handler.showView)
			r.Get("/view", handler.currentView)
			r.Get("/{id}", handler.overlay)
			r.Get("/{id}/geojson", handler.geojson)
			r.Get("/{id}/itinerary", handler.itinerary)
			r.Get("/{id}/score", handler.score)
			r.Get("/{id}/nearest", handler.nearest)
			r.Get("/{id}/snapshot", handler.snapshot)
			r.Get("/{id}/snapshot/markers", handler.snapshotMarkers)
		})
	})
}

// ListResponse model info
//
//	@Description	solution ids known to the solver
type ListResponse struct {
	IDs []string `json:"ids"`
}

// list
//
//	@Summary		list solutions
//	@Description	list the solution ids the solver service knows about
//	@Tags			overlays
//	@Produce		application/json
//	@Router			/overlays [get]
//	@Success		200	{object}	ListResponse
//	@Failure		502	{object}	ErrResponse
func (h *OverlayHandler) list(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.List(r.Context())
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &ListResponse{IDs: ids})
}

// OverlayResponse model info
//
//	@Description	rendered overlay of one solution
type OverlayResponse struct {
	PassID  string           `json:"passId"`
	Overlay *overlay.Overlay `json:"overlay"`
	Badge   *overlay.Badge   `json:"badge,omitempty"`
}

func NewOverlayResponse(res *service.RenderResult) *OverlayResponse {
	resp := &OverlayResponse{
		PassID:  res.PassID,
		Overlay: res.Overlay,
	}
	if res.Analysis != nil {
		b := overlay.ScoreBadge(*res.Analysis)
		resp.Badge = &b
	}
	return resp
}

// overlay
//
//	@Summary		render a solution
//	@Description	fetch a solution and its indictments from the solver and render the map overlay
//	@Tags			overlays
//	@Param			id	path	string	true	"solution id"
//	@Produce		application/json
//	@Router			/overlays/{id} [get]
//	@Success		200	{object}	OverlayResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		502	{object}	ErrResponse
func (h *OverlayHandler) overlay(w http.ResponseWriter, r *http.Request) {
	h.promeMetrics.OverlayQueryCount.WithLabelValues("overlay").Inc()
	res, err := h.svc.Render(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewOverlayResponse(res))
}

// geojson
//
//	@Summary		render a solution as GeoJSON
//	@Description	the overlay as a FeatureCollection: a LineString per route and a Point per marker
//	@Tags			overlays
//	@Param			id	path	string	true	"solution id"
//	@Produce		application/json
//	@Router			/overlays/{id}/geojson [get]
//	@Success		200
//	@Failure		404	{object}	ErrResponse
func (h *OverlayHandler) geojson(w http.ResponseWriter, r *http.Request) {
	h.promeMetrics.OverlayQueryCount.WithLabelValues("geojson").Inc()
	res, err := h.svc.Render(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, res.Overlay.FeatureCollection())
}

// itinerary
//
//	@Summary		itinerary of a solution
//	@Description	list view of a solution: a badge per route and per visit with popover content
//	@Tags			overlays
//	@Param			id	path	string	true	"solution id"
//	@Produce		application/json
//	@Router			/overlays/{id}/itinerary [get]
//	@Success		200	{object}	itinerary.View
//	@Failure		404	{object}	ErrResponse
func (h *OverlayHandler) itinerary(w http.ResponseWriter, r *http.Request) {
	h.promeMetrics.OverlayQueryCount.WithLabelValues("itinerary").Inc()
	res, err := h.svc.Render(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, res.Itinerary)
}

// score
//
//	@Summary		score badge
//	@Description	solution-wide score with its per-constraint breakdown
//	@Tags			overlays
//	@Param			id	path	string	true	"solution id"
//	@Produce		application/json
//	@Router			/overlays/{id}/score [get]
//	@Success		200	{object}	overlay.Badge
//	@Failure		404	{object}	ErrResponse
func (h *OverlayHandler) score(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.ScoreBadge(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, b)
}

// NearestRequest model info
//
//	@Description	query parameters of a nearest marker lookup
type NearestRequest struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
	K   int     `validate:"gte=1,lte=100"`
}

// NearestHit model info
//
//	@Description	a marker near the query point
type NearestHit struct {
	Group    int            `json:"group"`
	Marker   overlay.Marker `json:"marker"`
	Distance float64        `json:"distance"`
}

type NearestResponse struct {
	Hits []NearestHit `json:"hits"`
}

func NewNearestResponse(hits []spatial.Hit) *NearestResponse {
	resp := &NearestResponse{Hits: make([]NearestHit, 0, len(hits))}
	for _, h := range hits {
		resp.Hits = append(resp.Hits, NearestHit{
			Group:    h.Group,
			Marker:   h.Marker,
			Distance: util.RoundFloat(h.Distance, 2),
		})
	}
	return resp
}

// nearest
//
//	@Summary		markers near a point
//	@Description	the k markers of the latest overlay of a solution closest to lat,lon (distance in meters)
//	@Tags			overlays
//	@Param			id	path	string	true	"solution id"
//	@Param			lat	query	number	true	"latitude"
//	@Param			lon	query	number	true	"longitude"
//	@Param			k	query	int		false	"number of markers (default 1)"
//	@Produce		application/json
//	@Router			/overlays/{id}/nearest [get]
//	@Success		200	{object}	NearestResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *OverlayHandler) nearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if err := errors.Join(errLat, errLon); err != nil {
		render.Render(w, r, ErrInvalidRequest(errors.New("lat and lon must be numbers")))
		return
	}
	data := &NearestRequest{Lat: lat, Lon: lon, K: 1}
	if ks := q.Get("k"); ks != "" {
		k, err := strconv.Atoi(ks)
		if err != nil {
			render.Render(w, r, ErrInvalidRequest(errors.New("k must be an integer")))
			return
		}
		data.K = k
	}
	if !validateRequest(w, r, data) {
		return
	}

	h.promeMetrics.OverlayQueryCount.WithLabelValues("nearest").Inc()
	hits, err := h.svc.Nearest(r.Context(), chi.URLParam(r, "id"), data.Lat, data.Lon, data.K)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewNearestResponse(hits))
}

// snapshot
//
//	@Summary		latest stored overlay
//	@Description	the overlay stored by the last render of a solution, without contacting the solver
//	@Tags			overlays
//	@Param			id	path	string	true	"solution id"
//	@Produce		application/json
//	@Router			/overlays/{id}/snapshot [get]
//	@Success		200	{object}	overlay.Overlay
//	@Failure		404	{object}	ErrResponse
func (h *OverlayHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	ov, err := h.svc.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, ov)
}

// SnapshotMarkersRequest model info
//
//	@Description	query parameters of a snapshot area lookup
type SnapshotMarkersRequest struct {
	Lat      float64 `validate:"gte=-90,lte=90"`
	Lon      float64 `validate:"gte=-180,lte=180"`
	RadiusKm float64 `validate:"gt=0,lte=50"`
}

// snapshotMarkers
//
//	@Summary		stored markers in an area
//	@Description	markers of the stored overlay whose location lies within radius_km of lat,lon (H3 cell granularity)
//	@Tags			overlays
//	@Param			id			path	string	true	"solution id"
//	@Param			lat			query	number	true	"latitude"
//	@Param			lon			query	number	true	"longitude"
//	@Param			radius_km	query	number	true	"search radius in km"
//	@Produce		application/json
//	@Router			/overlays/{id}/snapshot/markers [get]
//	@Success		200	{array}		overlay.Marker
//	@Failure		400	{object}	ErrResponse
func (h *OverlayHandler) snapshotMarkers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	radius, errRadius := strconv.ParseFloat(q.Get("radius_km"), 64)
	if err := errors.Join(errLat, errLon, errRadius); err != nil {
		render.Render(w, r, ErrInvalidRequest(errors.New("lat, lon and radius_km must be numbers")))
		return
	}
	data := &SnapshotMarkersRequest{Lat: lat, Lon: lon, RadiusKm: radius}
	if !validateRequest(w, r, data) {
		return
	}

	ms, err := h.svc.SnapshotMarkers(chi.URLParam(r, "id"), data.Lat, data.Lon, data.RadiusKm)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, ms)
}

// RenderRequest model info
//
//	@Description	solver payload (either schema) plus its indictments, rendered without contacting the solver
type RenderRequest struct {
	Solution    json.RawMessage         `json:"solution" validate:"required"`
	Indictments []indictment.Indictment `json:"indictments" validate:"omitempty,dive"`
}

func (s *RenderRequest) Bind(r *http.Request) error {
	if len(s.Solution) == 0 || string(s.Solution) == "null" {
		return errors.New("solution is required")
	}
	return nil
}

// renderDocument
//
//	@Summary		render an inline solution
//	@Description	render a solution document posted by the caller; nothing is stored
//	@Tags			overlays
//	@Param			body	body	RenderRequest	true	"solution and indictments"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/overlays/render [post]
//	@Success		200	{object}	OverlayResponse
//	@Failure		400	{object}	ErrResponse
func (h *OverlayHandler) renderDocument(w http.ResponseWriter, r *http.Request) {
	data := &RenderRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !validateRequest(w, r, data) {
		return
	}

	doc, err := solution.DecodeDocument(bytes.NewReader(data.Solution))
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	h.promeMetrics.OverlayQueryCount.WithLabelValues("render").Inc()
	res := h.svc.RenderDocument(r.Context(), doc, data.Indictments)
	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewOverlayResponse(res))
}

// ViewRequest model info
//
//	@Description	switch the live view to a solution
type ViewRequest struct {
	ID string `json:"id" validate:"required,max=128"`
}

func (s *ViewRequest) Bind(r *http.Request) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	return nil
}

// showView
//
//	@Summary		switch the live view
//	@Description	render a solution into the live view; a switch overtaken by a later one answers 409
//	@Tags			view
//	@Param			body	body	ViewRequest	true	"solution id"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/overlays/view [put]
//	@Success		200	{object}	viewer.Frame
//	@Failure		404	{object}	ErrResponse
//	@Failure		409	{object}	ErrResponse
func (h *OverlayHandler) showView(w http.ResponseWriter, r *http.Request) {
	data := &ViewRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !validateRequest(w, r, data) {
		return
	}

	f, err := h.svc.ShowView(r.Context(), data.ID)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, f)
}

// currentView
//
//	@Summary		current live view
//	@Tags			view
//	@Produce		application/json
//	@Router			/overlays/view [get]
//	@Success		200	{object}	viewer.Frame
//	@Failure		404	{object}	ErrResponse
func (h *OverlayHandler) currentView(w http.ResponseWriter, r *http.Request) {
	f, ok := h.svc.CurrentView()
	if !ok {
		render.Render(w, r, ErrChi(server.WrapErrorf(nil, server.ErrNotFound, "no solution is shown yet")))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, f)
}

func validateRequest(w http.ResponseWriter, r *http.Request, data interface{}) bool {
	validate := validator.New()
	if err := validate.Struct(data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return false
	}
	return true
}

// ErrResponse model info
//
//	@Description	error response body
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

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusConflict:
		statusText = "View superseded."
	case http.StatusBadRequest:
		statusText = "Bad request."
	case http.StatusBadGateway:
		statusText = "Solver unavailable."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	} else {
		switch ierr.Code() {
		case server.ErrInternalServerError:
			return http.StatusInternalServerError
		case server.ErrNotFound:
			return http.StatusNotFound
		case server.ErrConflict:
			return http.StatusConflict
		case server.ErrBadParamInput:
			return http.StatusBadRequest
		case server.ErrUpstream:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}
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
