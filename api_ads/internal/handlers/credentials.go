package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/theo45530/commerceai-pro/pkg/middleware"
	"github.com/theo45530/commerceai-pro/pkg/models"
)

// CredentialsRequest is the body of POST /credentials/:platform
type CredentialsRequest struct {
	Credentials map[string]string `json:"credentials" binding:"required"`
}

// SetCredentials stores gateway connector credentials for a platform.
// Every secret value is field-encrypted before it reaches the database.
func SetCredentials(c middleware.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if len(req.Credentials) == 0 {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Credentials must not be empty"})
		return
	}

	platform := c.Param("platform")
	encrypted := make(map[string]string, len(req.Credentials))
	for key, value := range req.Credentials {
		sealed, err := encryptor.Encrypt(value)
		if err != nil {
			logger.WithError(err).WithField("platform", platform).Error("Credential encryption failed")
			c.JSON(http.StatusInternalServerError, middleware.H{"error": "Credential encryption failed"})
			return
		}
		encrypted[key] = sealed
	}

	creds := models.PlatformCredentials{
		ID:          uuid.New().String(),
		Platform:    platform,
		Credentials: encrypted,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := store.UpsertCredentials(c.Request.Context(), creds); err != nil {
		logger.WithError(err).WithField("platform", platform).Error("Failed to store credentials")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to store credentials"})
		return
	}

	c.JSON(http.StatusOK, middleware.H{"platform": platform, "stored": true})
}

// GetCredentials reports which credential fields are configured for a
// platform. Secret values are never returned.
func GetCredentials(c middleware.Context) {
	platform := c.Param("platform")
	stored, err := store.GetCredentials(c.Request.Context(), platform)
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "No credentials configured for platform"})
		return
	}

	fields := make([]string, 0, len(stored.Credentials))
	for key := range stored.Credentials {
		fields = append(fields, key)
	}
	sort.Strings(fields)

	c.JSON(http.StatusOK, middleware.H{
		"platform":   platform,
		"fields":     fields,
		"updated_at": stored.UpdatedAt,
	})
}
