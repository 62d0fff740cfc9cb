package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pranay9392/meity-audit-v2/internal/api/middleware"
	"github.com/Pranay9392/meity-audit-v2/internal/services"
)

// RemarkHandler exposes free-text remarks on audit requests.
type RemarkHandler struct {
	remarks *services.RemarkService
}

func NewRemarkHandler(remarks *services.RemarkService) *RemarkHandler {
	return &RemarkHandler{remarks: remarks}
}

type addRemarkBody struct {
	Comment string `json:"comment" binding:"required"`
}

// Add appends a free-text remark to a request's audit trail.
func (h *RemarkHandler) Add(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	var body addRemarkBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	remark, err := h.remarks.Add(actor, c.Param("uuid"), body.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, remark)
}
