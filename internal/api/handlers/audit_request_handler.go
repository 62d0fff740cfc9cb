package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pranay9392/meity-audit-v2/internal/api/middleware"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
	"github.com/Pranay9392/meity-audit-v2/internal/services"
)

// AuditRequestHandler exposes the audit request lifecycle over HTTP.
type AuditRequestHandler struct {
	requests *services.AuditRequestService
}

func NewAuditRequestHandler(requests *services.AuditRequestService) *AuditRequestHandler {
	return &AuditRequestHandler{requests: requests}
}

// List returns the requests visible to the caller's role.
func (h *AuditRequestHandler) List(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)
	requests, err := h.requests.ListVisible(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

type createAuditRequestBody struct {
	ServiceProviderName string `json:"service_provider_name" binding:"required"`
	DataCenterLocation  string `json:"data_center_location" binding:"required"`
	Description         string `json:"description"`
}

// Create opens a new audit request for the acting CSP.
func (h *AuditRequestHandler) Create(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	var body createAuditRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	request, err := h.requests.Create(actor, services.CreateAuditRequestInput{
		ServiceProviderName: body.ServiceProviderName,
		DataCenterLocation:  body.DataCenterLocation,
		Description:         body.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// Get returns one request with its documents and remark trail.
func (h *AuditRequestHandler) Get(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)
	request, err := h.requests.GetDetail(actor, c.Param("uuid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

type updateDetailsBody struct {
	ServiceProviderName *string `json:"service_provider_name"`
	DataCenterLocation  *string `json:"data_center_location"`
	Description         *string `json:"description"`
}

// UpdateDetails amends the descriptive fields of a request still in its
// initial state.
func (h *AuditRequestHandler) UpdateDetails(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	var body updateDetailsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	request, err := h.requests.UpdateDetails(actor, c.Param("uuid"), services.UpdateDetailsInput{
		ServiceProviderName: body.ServiceProviderName,
		DataCenterLocation:  body.DataCenterLocation,
		Description:         body.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

type updateStatusBody struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus applies one workflow transition.
func (h *AuditRequestHandler) UpdateStatus(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	var body updateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	request, err := h.requests.AttemptTransition(actor, c.Param("uuid"), models.Status(body.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// UploadCertificate attaches or replaces the certificate of empanelment.
func (h *AuditRequestHandler) UploadCertificate(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	request, err := h.requests.UploadCertificate(actor, c.Param("uuid"), fileHeader.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// DownloadCertificate streams the stored certificate of empanelment.
func (h *AuditRequestHandler) DownloadCertificate(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	rc, err := h.requests.OpenCertificate(actor, c.Param("uuid"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="certificate_of_empanelment"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		middleware.GetRequestLogger(c).WithError(err).Warn("certificate stream interrupted")
	}
}
