package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pranay9392/meity-audit-v2/internal/api/middleware"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
	"github.com/Pranay9392/meity-audit-v2/internal/services"
)

// DocumentHandler exposes document upload, download and deletion.
type DocumentHandler struct {
	documents *services.DocumentService
}

func NewDocumentHandler(documents *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Upload attaches a multipart file to an audit request.
func (h *DocumentHandler) Upload(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	docType := models.DocumentType(c.PostForm("document_type"))
	description := c.PostForm("description")

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	doc, err := h.documents.Upload(actor, c.Param("uuid"), docType, fileHeader.Filename, description, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Download streams a document back to the caller.
func (h *DocumentHandler) Download(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	rc, doc, err := h.documents.Open(actor, c.Param("uuid"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		middleware.GetRequestLogger(c).WithError(err).Warn("document stream interrupted")
	}
}

// Delete removes a document the caller uploaded.
func (h *DocumentHandler) Delete(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	if err := h.documents.Delete(actor, c.Param("uuid")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}
