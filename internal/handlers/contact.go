// internal/handlers/contact.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillset/skillset-backend/internal/services"
	"github.com/skillset/skillset-backend/internal/utils"
)

type ContactHandler struct {
	mailer services.Mailer
}

func NewContactHandler(mailer services.Mailer) *ContactHandler {
	return &ContactHandler{mailer: mailer}
}

// POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var form services.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&form); err != nil {
		utils.BadRequestResponse(c, utils.ValidationMessage(err))
		return
	}

	if err := h.mailer.SendContactEmail(&form); err != nil {
		logrus.WithError(err).Error("Contact email delivery failed")
		utils.InternalErrorResponse(c, "Failed to send message. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Your message has been sent successfully",
	})
}
