package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadyCheck is one named dependency test for the readiness endpoint.
type ReadyCheck struct {
	Name string
	OK   func() bool
}

// StatusHandler serves liveness and readiness. Readiness returns 200 only
// when every registered check passes.
type StatusHandler struct {
	started time.Time
	checks  []ReadyCheck
}

func NewStatusHandler(checks ...ReadyCheck) *StatusHandler {
	return &StatusHandler{started: time.Now(), checks: checks}
}

func (h *StatusHandler) Register(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

func (h *StatusHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "healthy")
}

func (h *StatusHandler) Ready(c *gin.Context) {
	ready := true
	deps := map[string]bool{}
	for _, chk := range h.checks {
		ok := chk.OK()
		deps[chk.Name] = ok
		if !ok {
			ready = false
		}
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}
	c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(h.started).String()})
}
