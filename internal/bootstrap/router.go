package bootstrap

import (
	"slices"
	"time"

	httpapi "github.com/dappforge/dappforge-backend/internal/api/http"
	"github.com/dappforge/dappforge-backend/internal/api/http/middleware"
	deployhttp "github.com/dappforge/dappforge-backend/internal/deployments/http"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type RouterDeps struct {
	ServiceName     string
	Version         string
	DB              httpapi.Pinger
	ToolchainBinary string
	ScratchRoot     string
	Logger          zerolog.Logger
	CORSOrigins     []string
	DeployLimiter   *rate.Limiter
	Deployments     *deployhttp.Handler
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	r.Use(middleware.MetricsMiddleware())

	healthHandler := httpapi.NewHealthHandler(httpapi.HealthOptions{
		ServiceName:     dep.ServiceName,
		Version:         dep.Version,
		DB:              dep.DB,
		ToolchainBinary: dep.ToolchainBinary,
		ScratchRoot:     dep.ScratchRoot,
	})
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if dep.Deployments != nil {
		dep.Deployments.Register(&r.RouterGroup, middleware.RateLimitMiddleware(dep.DeployLimiter))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
