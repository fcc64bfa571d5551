package v1

import (
	"net/http"

	"contact-mailer-backend/internal/delivery/http/response"
	"contact-mailer-backend/internal/domain"
	"contact-mailer-backend/pkg/apperror"
	"contact-mailer-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, limit gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", limit, handler.SubmitContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validates the submission and emails it to the operator mailbox. Limited to 5 requests per minute per client address.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactSubmission  true  "Contact Form Data"
// @Success      200      {object}  domain.ContactResponse
// @Failure      422      {object}  response.ErrorResponse
// @Failure      429      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.Validation(validation.FieldErrors(err)))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, domain.ContactResponse{
		Status:  "success",
		Message: domain.ContactThankYou,
	})
}
