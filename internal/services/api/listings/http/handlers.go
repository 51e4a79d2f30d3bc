// Package http provides http transport for listings
package http

import (
	stdhttp "net/http"

	"pestwatch/internal/core/cursor"
	"pestwatch/internal/modkit/httpkit"
	"pestwatch/internal/platform/net/middleware"
	str "pestwatch/internal/platform/strings"
	"pestwatch/internal/services/api/listings/domain"
)

// Register mounts listing endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, auth middleware.AuthPort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/{collection}", h.page)
	httpkit.Get(r, "/detections/{id}", h.detection)

	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.IngestInput](pr, "/detections", h.ingest)
	})
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /listings/{collection} Listings paginate
// @Summary Page through detections, verifications or history, newest first
// @Tags Listings
// @Produce json
// @Param collection path string true "detections, verifications or history"
// @Param limit query int false "Page size, default 10"
// @Param cursor query string false "Id of the last record of the previous page"
// @Param pred_id query string false "Restrict history to one detection"
// @Success 200 {object} domain.Listing "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Router /listings/{collection} [get]
func (h *handlers) page(r *stdhttp.Request) (any, error) {
	limit, err := httpkit.QueryInt(r, "limit", cursor.DefaultLimit)
	if err != nil {
		return nil, err
	}
	return h.svc.Page(r.Context(), domain.PageQuery{
		Collection: httpkit.Param(r, "collection"),
		Limit:      limit,
		Cursor:     httpkit.Query(r, "cursor"),
		PredID:     httpkit.Query(r, "pred_id"),
	})
}

// swagger:route GET /listings/detections/{id} Listings getDetection
// @Summary Fetch one detection with its resolved state
// @Tags Listings
// @Produce json
// @Param id path string true "Detection id"
// @Success 200 {object} domain.DetectionView "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /listings/detections/{id} [get]
func (h *handlers) detection(r *stdhttp.Request) (any, error) {
	return h.svc.Detection(r.Context(), httpkit.Param(r, "id"))
}

// swagger:route POST /listings/detections Listings ingestDetection
// @Summary Accept a detection from the analysis pipeline
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.IngestInput true "Detection"
// @Success 201 {object} domain.Ingested "created"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 409 {object} httpkit.Envelope "duplicate id"
// @Router /listings/detections [post]
func (h *handlers) ingest(r *stdhttp.Request, in domain.IngestInput) (any, error) {
	uid, _ := httpkit.User(r)
	in.UserID = str.Coalesce(in.UserID, uid)
	out, err := h.svc.Ingest(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}
