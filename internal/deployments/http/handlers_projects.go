package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dappforge/dappforge-backend/internal/deployments/frontend"
	"github.com/gin-gonic/gin"
)

// ListProjects lists the projects recorded for an owner address
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListByOwner(c.Request.Context(), c.Param("ownerAddress"))
	if err != nil {
		writeError(c, err, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetProject retrieves a single project by ID
func (h *Handler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch project")
		return
	}

	c.JSON(http.StatusOK, project)
}

// GenerateFrontend streams a zip holding the UI component for a project
func (h *Handler) GenerateFrontend(c *gin.Context) {
	id, ok := parseID(c, "projectId")
	if !ok {
		return
	}

	file, err := h.projectService.ExportFrontend(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to generate frontend")
		return
	}

	var buf bytes.Buffer
	if err := frontend.WriteArchive(&buf, file); err != nil {
		writeError(c, err, "Failed to generate frontend")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", frontend.ArchiveName))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid project id", err.Error())
		return 0, false
	}
	return id, true
}
