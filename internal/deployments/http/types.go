package http

import (
	"github.com/dappforge/dappforge-backend/internal/deployments/service"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for deployments and recorded projects
type Handler struct {
	deployService  *service.DeploymentService
	projectService *service.ProjectService
}

// New creates a new Handler
func New(deployService *service.DeploymentService, projectService *service.ProjectService) *Handler {
	return &Handler{
		deployService:  deployService,
		projectService: projectService,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// visualRequest is the body of POST /deploy-visual.
type visualRequest struct {
	OwnerAddress string   `json:"ownerAddress"`
	Name         string   `json:"name"`
	Components   []string `json:"components"`
}

func respondError(c *gin.Context, status int, message, details string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Details: details})
}
