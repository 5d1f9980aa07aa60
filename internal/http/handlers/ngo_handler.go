// NGO directory endpoints.
//
// These predate the versioned API and keep their original contract, which
// deployed web clients depend on:
//   - GET  /api/approved-ngos      → [{id,name,description}] or {"error": ...}
//   - POST /api/send-ngo-request   → {"message": ...}
//
// Method checks happen in the handler so wrong verbs get the flat 405 bodies.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/services"
)

// Fixed response texts of the NGO endpoints.
const (
	msgNGORequestOK      = "Your request has been submitted successfully! It will be reviewed by our team."
	msgNGOMissingFields  = "Missing required fields in request."
	msgNGOInvalidBody    = "Invalid request body format."
	msgNGOSubmitFailed   = "Failed to submit request due to an internal error."
	msgMethodNotAllowed  = "Method Not Allowed"
	msgApprovedNGOFailed = "Failed to fetch approved NGOs"
)

// ApprovedNGOs godoc
// @ID          approvedNGOs
// @Summary     Approved NGO directory
// @Tags        NGOs
// @Produce     json
// @Success     200  {array}  api.NGO
// @Failure     405  {object} api.FunctionError
// @Failure     500  {object} api.FunctionError
// @Router      /api/approved-ngos [get]
func (h *Handlers) ApprovedNGOs(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		funcError(c, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}
	list, err := h.ngos.Approved(c.Request.Context())
	if err != nil {
		logError(c, err)
		funcError(c, http.StatusInternalServerError, msgApprovedNGOFailed)
		return
	}
	out := make([]api.NGO, len(list))
	for i, n := range list {
		out[i] = api.NGO{ID: n.ID, Name: n.Name, Description: n.Description}
	}
	ok(c, http.StatusOK, out)
}

// SendNGORequest godoc
// @ID          sendNGORequest
// @Summary     Ask for an NGO to be listed
// @Description All five fields are required. Requests are stored for review.
// @Tags        NGOs
// @Accept      json
// @Produce     json
// @Param       body  body  api.NGORequest  true  "Listing request"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.MessageResponse
// @Failure     405  {object} api.MessageResponse
// @Failure     500  {object} api.MessageResponse
// @Router      /api/send-ngo-request [post]
func (h *Handlers) SendNGORequest(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		funcMessage(c, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}
	var req api.NGORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		funcMessage(c, http.StatusBadRequest, msgNGOInvalidBody)
		return
	}
	_, err := h.ngos.Submit(c.Request.Context(), domain.NGORequest{
		Name:               req.Name,
		Description:        req.Description,
		Contact:            req.Contact,
		Email:              req.Email,
		RegistrationNumber: req.RegistrationNumber,
	})
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			funcMessage(c, http.StatusBadRequest, msgNGOMissingFields)
			return
		}
		logError(c, err)
		funcMessage(c, http.StatusInternalServerError, msgNGOSubmitFailed)
		return
	}
	funcMessage(c, http.StatusOK, msgNGORequestOK)
}
