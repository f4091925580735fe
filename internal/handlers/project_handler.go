package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mannequins/backend/internal/middleware"
	"mannequins/backend/internal/storage"
)

// ProjectHandler owns project CRUD and the access-list endpoints.
type ProjectHandler struct {
	store Store
}

func NewProjectHandler(store Store) *ProjectHandler {
	return &ProjectHandler{store: store}
}

type ProjectCreatePayload struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload ProjectCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	id, err := h.store.CreateProject(c.Request.Context(), storage.ProjectNew{
		Name:        payload.Name,
		Description: payload.Description,
	}, user.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Project created successfully",
		"project_id": id,
	})
}

// List returns one page of the caller's projects, most recently
// modified first.
func (h *ProjectHandler) List(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))

	result, err := h.store.ListProjects(c.Request.Context(),
		storage.ProjectFilter{OwnerID: user.ID.Hex()},
		storage.PageRequest{Page: page, Size: size})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	project, err := h.store.VerifyProject(c.Request.Context(), storage.ProjectFilter{
		ID:      c.Param("projectId"),
		OwnerID: user.ID.Hex(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type ProjectUpdatePayload struct {
	Name        *string                   `json:"name"`
	Description *string                   `json:"description"`
	Methodology *storage.MethodologyPatch `json:"methodology"`
}

// Update applies a partial patch. A name change is pre-checked against
// the caller's other projects so the conflict surfaces as 409 rather
// than an index error.
func (h *ProjectHandler) Update(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload ProjectUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	projectID := c.Param("projectId")

	if payload.Name != nil {
		existing, err := h.store.GetProject(ctx, storage.ProjectFilter{
			OwnerID: user.ID.Hex(),
			Name:    *payload.Name,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		if existing != nil && existing.ID.Hex() != projectID {
			c.JSON(http.StatusConflict, gin.H{"error": "Project name already exists"})
			return
		}
	}

	err := h.store.UpdateProject(ctx,
		storage.ProjectFilter{ID: projectID, OwnerID: user.ID.Hex()},
		storage.ProjectPatch{
			Name:        payload.Name,
			Description: payload.Description,
			Methodology: payload.Methodology,
		})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project updated successfully"})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.store.DeleteProject(c.Request.Context(), storage.ProjectFilter{
		ID:      c.Param("projectId"),
		OwnerID: user.ID.Hex(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

type AccessGrantPayload struct {
	UserID string `json:"user_id" binding:"required"`
}

// GrantAccess adds a user to the project's access list, letting them
// download the project's restricted files.
func (h *ProjectHandler) GrantAccess(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload AccessGrantPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.VerifyUser(ctx, storage.UserFilter{ID: payload.UserID}); err != nil {
		respondError(c, err)
		return
	}

	err := h.store.GrantProjectAccess(ctx, storage.ProjectFilter{
		ID:      c.Param("projectId"),
		OwnerID: user.ID.Hex(),
	}, payload.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access granted"})
}

// RevokeAccess removes a user from the project's access list.
func (h *ProjectHandler) RevokeAccess(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.store.RevokeProjectAccess(c.Request.Context(), storage.ProjectFilter{
		ID:      c.Param("projectId"),
		OwnerID: user.ID.Hex(),
	}, c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access revoked"})
}
