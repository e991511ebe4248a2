package http

import (
	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/gin-gonic/gin"
)

// Register registers the deployment and project routes. deployMiddleware runs
// in front of the deploy routes only.
func (h *Handler) Register(rg *gin.RouterGroup, deployMiddleware ...gin.HandlerFunc) {
	rg.GET("/", h.Greeting)

	deploy := rg.Group("", deployMiddleware...)
	deploy.POST("/deploy", h.DeployContract(domain.TypeToken))
	deploy.POST("/deploy-nft", h.DeployContract(domain.TypeNFT))
	deploy.POST("/deploy-dao", h.DeployContract(domain.TypeDAO))
	deploy.POST("/deploy-staking", h.DeployContract(domain.TypeStaking))
	deploy.POST("/deploy-visual", h.DeployVisual)

	rg.GET("/projects/:ownerAddress", h.ListProjects)
	rg.GET("/projects/:ownerAddress/events", h.StreamProjectEvents)
	rg.GET("/project/:id", h.GetProject)
	rg.GET("/generate-frontend/:projectId", h.GenerateFrontend)
}
