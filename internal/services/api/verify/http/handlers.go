// Package http provides http transport for verifications
package http

import (
	stdhttp "net/http"

	"pestwatch/internal/modkit/httpkit"
	"pestwatch/internal/platform/net/middleware"
	str "pestwatch/internal/platform/strings"
	"pestwatch/internal/services/api/verify/domain"
)

// Register mounts verification endpoints on the given router
// writes sit behind the bearer middleware, reads stay public
func Register(r httpkit.Router, s domain.ServicePort, auth middleware.AuthPort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.byStatus)
	httpkit.Get(r, "/history/{predID}", h.history)
	httpkit.Get(r, "/{id}", h.get)

	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.CreateInput](pr, "/", h.create)
		httpkit.PatchJSON[domain.UpdateInput](pr, "/{id}", h.update)
	})
}

type handlers struct{ svc domain.ServicePort }

// caller falls back to the authenticated user when the body leaves it empty
func caller(r *stdhttp.Request, given string) string {
	uid, _ := httpkit.User(r)
	return str.Coalesce(given, uid)
}

// swagger:route POST /verifications Verifications createVerification
// @Summary Submit the first review of a detection
// @Tags Verifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.CreateInput true "Verification"
// @Success 201 {object} domain.Created "created"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 404 {object} httpkit.Envelope "unknown detection"
// @Failure 409 {object} httpkit.Envelope "already verified"
// @Router /verifications [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	in.VerifierID = caller(r, in.VerifierID)
	out, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// swagger:route PATCH /verifications/{id} Verifications updateVerification
// @Summary Apply a partial update and record it in the audit trail
// @Tags Verifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Verification id"
// @Param payload body domain.UpdateInput true "Update"
// @Success 200 {object} domain.Updated "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /verifications/{id} [patch]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	return h.svc.Update(r.Context(), httpkit.Param(r, "id"), in.Updates, caller(r, in.ChangedBy), in.Reason)
}

// swagger:route GET /verifications Verifications verificationsByStatus
// @Summary List verifications with a given status
// @Tags Verifications
// @Produce json
// @Param status query string true "pending, verified or rejected"
// @Success 200 {array} records.Verification "ok"
// @Router /verifications [get]
func (h *handlers) byStatus(r *stdhttp.Request) (any, error) {
	return h.svc.ByStatus(r.Context(), httpkit.Query(r, "status"))
}

// swagger:route GET /verifications/{id} Verifications getVerification
// @Summary Fetch one verification
// @Tags Verifications
// @Produce json
// @Param id path string true "Verification id"
// @Success 200 {object} records.Verification "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /verifications/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"))
}

// swagger:route GET /verifications/history/{predID} Verifications verificationHistory
// @Summary Audit trail of a detection, oldest first
// @Tags Verifications
// @Produce json
// @Param predID path string true "Detection id"
// @Success 200 {object} domain.HistoryView "ok"
// @Router /verifications/history/{predID} [get]
func (h *handlers) history(r *stdhttp.Request) (any, error) {
	return h.svc.History(r.Context(), httpkit.Param(r, "predID"))
}
