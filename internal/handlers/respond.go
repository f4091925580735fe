// Package handlers translates HTTP requests into record-access calls
// and maps domain failures onto status codes.
package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mannequins/backend/internal/apperr"
	"mannequins/backend/internal/models"
	"mannequins/backend/internal/storage"
)

// Store is the record-access surface the handlers consume, implemented
// by *storage.Store and mocked in tests.
type Store interface {
	CreateUser(ctx context.Context, in storage.UserNew, role models.Role, signInType models.SignInType, verified bool) (string, error)
	GetUser(ctx context.Context, filter storage.UserFilter) (*models.User, error)
	VerifyUser(ctx context.Context, filter storage.UserFilter) (*models.User, error)
	UpdateUser(ctx context.Context, filter storage.UserFilter, patch storage.UserPatch) error
	DeleteUser(ctx context.Context, filter storage.UserFilter) error

	CreateProject(ctx context.Context, in storage.ProjectNew, userID string) (string, error)
	GetProject(ctx context.Context, filter storage.ProjectFilter) (*models.Project, error)
	VerifyProject(ctx context.Context, filter storage.ProjectFilter) (*models.Project, error)
	ListProjects(ctx context.Context, filter storage.ProjectFilter, req storage.PageRequest) (*storage.Page[models.Project], error)
	UpdateProject(ctx context.Context, filter storage.ProjectFilter, patch storage.ProjectPatch) error
	GrantProjectAccess(ctx context.Context, filter storage.ProjectFilter, userID string) error
	RevokeProjectAccess(ctx context.Context, filter storage.ProjectFilter, userID string) error
	DeleteProject(ctx context.Context, filter storage.ProjectFilter) error

	CreateFile(ctx context.Context, data []byte, in storage.FileNew) (string, error)
	GetFile(ctx context.Context, filter storage.FileFilter) (*models.File, error)
	VerifyFile(ctx context.Context, filter storage.FileFilter) (*models.File, error)
	ListFiles(ctx context.Context, filter storage.FileFilter) ([]models.File, error)
	FileData(ctx context.Context, filter storage.FileFilter) ([]byte, *models.File, error)
	UpdateFile(ctx context.Context, filter storage.FileFilter, patch storage.FilePatch) error
	DeleteFile(ctx context.Context, filter storage.FileFilter) error
}

// respondError maps the error taxonomy to status codes. Unknown errors
// fall through to 500 with the underlying message surfaced.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindUnauthorized, apperr.KindExpired:
		status = http.StatusUnauthorized
	case apperr.KindBadRequest:
		status = http.StatusBadRequest
	default:
		log.Printf("[Handlers] Internal error: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
