package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mannequins/backend/internal/middleware"
	"mannequins/backend/internal/models"
	"mannequins/backend/internal/storage"
)

const maxUploadBytes = 20 << 20

// FileHandler owns file uploads, metadata CRUD and the two download
// endpoints with their access gates.
type FileHandler struct {
	store Store
}

func NewFileHandler(store Store) *FileHandler {
	return &FileHandler{store: store}
}

// Upload accepts a multipart image upload into a project. The payload
// is buffered to a temp file for the duration of the request; the
// deferred cleanup runs on every exit path.
func (h *FileHandler) Upload(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	projectID := c.Param("projectId")
	if _, err := h.store.VerifyProject(ctx, storage.ProjectFilter{ID: projectID, OwnerID: user.ID.Hex()}); err != nil {
		respondError(c, err)
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing form data"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file format"})
		return
	}

	group := c.PostForm("file_group")
	restrictAccess := true
	if v := c.PostForm("restrict_access"); v != "" {
		if parsed, perr := strconv.ParseBool(v); perr == nil {
			restrictAccess = parsed
		} else {
			restrictAccess = !strings.EqualFold(v, "no")
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading upload"})
		return
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to buffer upload"})
		return
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil {
			log.Printf("[FileHandler] Failed to remove temp file %s: %v", tmp.Name(), err)
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to buffer upload"})
		return
	}
	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to buffer upload"})
		return
	}

	id, err := h.store.CreateFile(ctx, data, storage.FileNew{
		Filename:       fileHeader.Filename,
		UserID:         user.ID.Hex(),
		ProjectID:      projectID,
		Group:          group,
		RestrictAccess: restrictAccess,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := h.store.VerifyFile(ctx, storage.FileFilter{ID: id, OwnerID: user.ID.Hex()})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

// Update patches a project file's mutable metadata.
func (h *FileHandler) Update(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var patch storage.FilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	projectID := c.Param("projectId")
	fileID := c.Param("fileId")

	if _, err := h.store.VerifyProject(ctx, storage.ProjectFilter{ID: projectID, OwnerID: user.ID.Hex()}); err != nil {
		respondError(c, err)
		return
	}

	filter := storage.FileFilter{ID: fileID, ProjectID: projectID, OwnerID: user.ID.Hex()}
	if err := h.store.UpdateFile(ctx, filter, patch); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File updated successfully", "id": fileID})
}

// Delete removes a project file's metadata record and blob.
func (h *FileHandler) Delete(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	projectID := c.Param("projectId")

	if _, err := h.store.VerifyProject(ctx, storage.ProjectFilter{ID: projectID, OwnerID: user.ID.Hex()}); err != nil {
		respondError(c, err)
		return
	}

	filter := storage.FileFilter{ID: c.Param("fileId"), ProjectID: projectID, OwnerID: user.ID.Hex()}
	if err := h.store.DeleteFile(ctx, filter); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File removed successfully"})
}

// Download serves a file to its owner or to members of the owning
// project's access list. Denial is a 404 so the endpoint never
// confirms the file exists to anyone else.
func (h *FileHandler) Download(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	file, err := h.store.VerifyFile(ctx, storage.FileFilter{ID: c.Param("fileId")})
	if err != nil {
		respondError(c, err)
		return
	}

	allowed := file.UserID == user.ID.Hex()
	if !allowed && file.ProjectID != "" {
		project, err := h.store.GetProject(ctx, storage.ProjectFilter{
			ID:                 file.ProjectID,
			AccessListContains: user.ID.Hex(),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		allowed = project != nil
	}
	if !allowed {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	h.serveFile(c, file)
}

// DownloadUnrestricted is the anonymous download route. Only files
// explicitly marked unrestricted are served; anything else is a 404.
func (h *FileHandler) DownloadUnrestricted(c *gin.Context) {
	ctx := c.Request.Context()
	file, err := h.store.VerifyFile(ctx, storage.FileFilter{ID: c.Param("fileId")})
	if err != nil {
		respondError(c, err)
		return
	}
	if file.RestrictAccess {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	h.serveFile(c, file)
}

func (h *FileHandler) serveFile(c *gin.Context, file *models.File) {
	data, _, err := h.store.FileData(c.Request.Context(), storage.FileFilter{ID: file.ID.Hex()})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}
