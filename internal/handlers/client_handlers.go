package handlers

import (
	"errors"
	"io"
	"net/http"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const maxPhotoUploadBytes = 32 << 20

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

func (h *ClientHandler) respondClientError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from clientService")
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
	case errors.Is(err, services.ErrClientValidation), errors.Is(err, services.ErrDateFormat):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrUploadFailed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeInternalServerError, "Photo upload failed.", err.Error()))
	default:
		respondBackendError(c, err, "Failed to "+action+".")
	}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	h.saveClient(c, "", http.StatusCreated)
}

// UpdateClient replaces every field of an existing client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	h.saveClient(c, c.Param("id"), http.StatusOK)
}

func (h *ClientHandler) saveClient(c *gin.Context, clientID string, status int) {
	var req services.SaveClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SaveClient: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}

	client, err := h.clientService.SaveClient(c.Request.Context(), clientID, req)
	if err != nil {
		h.respondClientError(c, err, "save client")
		return
	}
	c.JSON(status, client)
}

// GetClients lists clients filtered by ?search= (name or CPF) and ?status=.
func (h *ClientHandler) GetClients(c *gin.Context) {
	status := models.ClientStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		utils.RespondValidationFailed(c, "unknown status "+string(status))
		return
	}
	clients := h.clientService.ListClients(services.ClientFilter{Search: c.Query("search"), Status: status})
	c.JSON(http.StatusOK, gin.H{"data": clients, "total": len(clients)})
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	client, err := h.clientService.GetClient(c.Param("id"))
	if err != nil {
		h.respondClientError(c, err, "fetch client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		h.respondClientError(c, err, "delete client")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddClinicalRecord appends an evolution entry to the client's history.
func (h *ClientHandler) AddClinicalRecord(c *gin.Context) {
	var req services.AddClinicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "AddClinicalRecord: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}

	client, err := h.clientService.AddClinicalRecord(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondClientError(c, err, "add clinical record")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UploadPhotos stores the multipart "photos" files and returns their public URLs.
func (h *ClientHandler) UploadPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondValidationFailed(c, "expected multipart form with photos: "+err.Error())
		return
	}
	headers := form.File["photos"]
	files := make([]services.PhotoFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxPhotoUploadBytes {
			utils.RespondValidationFailed(c, fh.Filename+" is too large")
			return
		}
		files = append(files, services.PhotoFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	urls, err := h.clientService.UploadPhotos(c.Request.Context(), c.Param("id"), files)
	if err != nil {
		h.respondClientError(c, err, "upload photos")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"urls": urls})
}
