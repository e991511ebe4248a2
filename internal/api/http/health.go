package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusUp       = "up"
	statusDown     = "down"
	statusDisabled = "disabled"

	probeTimeout = time.Second
)

// HealthResponse reports whether a deploy could run right now: the ledger is
// reachable, the aptos binary resolves and the scratch root accepts writes.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db"`
	Toolchain string    `json:"toolchain"`
	Scratch   string    `json:"scratch"`
	Errors    []string  `json:"errors,omitempty"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthOptions selects the checks to run. A nil DB or an empty
// ToolchainBinary or ScratchRoot disables that check.
type HealthOptions struct {
	ServiceName     string
	Version         string
	DB              Pinger
	ToolchainBinary string
	ScratchRoot     string
}

type HealthHandler struct {
	opts HealthOptions
}

func NewHealthHandler(opts HealthOptions) *HealthHandler {
	return &HealthHandler{opts: opts}
}

// HealthCheck answers 503 with status "degraded" when any enabled check fails.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.opts.ServiceName,
		Version:   h.opts.Version,
	}

	record := func(name string, enabled bool, check func() error) string {
		if !enabled {
			return statusDisabled
		}
		if err := check(); err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", name, err))
			return statusDown
		}
		return statusUp
	}

	resp.DB = record("db", h.opts.DB != nil, func() error {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()
		return h.opts.DB.PingContext(ctx)
	})
	resp.Toolchain = record("toolchain", h.opts.ToolchainBinary != "", func() error {
		_, err := exec.LookPath(h.opts.ToolchainBinary)
		return err
	})
	resp.Scratch = record("scratch", h.opts.ScratchRoot != "", func() error {
		return checkWritableDir(h.opts.ScratchRoot)
	})

	code := http.StatusOK
	if len(resp.Errors) > 0 {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}

func checkWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("not a directory")
	}

	f, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return err
	}
	name := f.Name()
	return errors.Join(f.Close(), os.Remove(name))
}
