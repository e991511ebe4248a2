package http

import (
	"net/http"

	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/gin-gonic/gin"
)

// Greeting answers the root route.
func (h *Handler) Greeting(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from the dApp builder backend!"})
}

// DeployContract returns the handler deploying a single-template contract of type t
func (h *Handler) DeployContract(t domain.ContractType) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, fields, err := decodeFields(c.Request.Body)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}

		result, err := h.deployService.Deploy(c.Request.Context(), domain.DeployRequest{
			Type:         t,
			OwnerAddress: owner,
			Fields:       fields,
		})
		if err != nil {
			writeError(c, err, "Deployment failed")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// DeployVisual deploys the components picked in the visual builder as one module
func (h *Handler) DeployVisual(c *gin.Context) {
	var body visualRequest
	if err := decodeBody(c.Request.Body, &body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.deployService.DeployVisual(c.Request.Context(), domain.VisualDeployRequest{
		OwnerAddress: body.OwnerAddress,
		Name:         body.Name,
		Components:   body.Components,
	})
	if err != nil {
		writeError(c, err, "Visual deployment failed")
		return
	}

	c.JSON(http.StatusOK, result)
}
