// Package handlers wires the HTTP surface onto the orchestrator, in the
// style of the original SimulationHandler: thin request/response glue,
// validation delegated to the domain layer, errors translated into a
// typed JSON envelope.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/paddockml/racesim/internal/domain"
	"github.com/paddockml/racesim/internal/factors"
	"github.com/paddockml/racesim/internal/orchestrator"
)

// ErrorResponse is the uniform error envelope returned to API clients.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// SimulationHandler exposes the orchestrator over HTTP.
type SimulationHandler struct {
	orch         *orchestrator.Orchestrator
	factorClient *factors.Client
	logger       *logrus.Logger
}

func NewSimulationHandler(orch *orchestrator.Orchestrator, factorClient *factors.Client, logger *logrus.Logger) *SimulationHandler {
	return &SimulationHandler{orch: orch, factorClient: factorClient, logger: logger}
}

// SubmitRequest is the wire shape of a simulation submission.
type SubmitRequest struct {
	Drivers []domain.DriverMetrics   `json:"drivers"`
	Context domain.RaceContext       `json:"context"`
	Factors []domain.VariationFactor `json:"factors,omitempty"`
}

// Submit starts a simulation run. It is a no-op error if one is already in
// flight (spec §4.8: "Re-entry is forbidden").
func (h *SimulationHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Code:    "INVALID_REQUEST",
			Details: map[string]string{"validation_error": err.Error()},
		})
		return
	}

	run, err := h.orch.Submit(req.Drivers, req.Context, req.Factors)
	if err != nil {
		h.logger.WithError(err).Warn("simulation submission rejected")
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "simulation could not be started",
			Code:    "SUBMIT_REJECTED",
			Details: map[string]string{"reason": err.Error()},
		})
		return
	}

	c.JSON(http.StatusAccepted, run)
}

// Status reports the orchestrator's current run and progress.
func (h *SimulationHandler) Status(c *gin.Context) {
	run := h.orch.CurrentRun()
	if run == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no simulation has been submitted", Code: "NO_RUN"})
		return
	}

	progress, _ := h.orch.Progress()
	c.JSON(http.StatusOK, gin.H{
		"run":      run,
		"progress": progress,
		"running":  h.orch.IsRunning(),
	})
}

// Result returns the current run's full result, including an in-flight
// run's partial record (Result will be nil until it completes).
func (h *SimulationHandler) Result(c *gin.Context) {
	run := h.orch.CurrentRun()
	if run == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no simulation has been submitted", Code: "NO_RUN"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// Cancel requests cancellation of the in-flight run.
func (h *SimulationHandler) Cancel(c *gin.Context) {
	h.orch.Cancel()
	c.JSON(http.StatusAccepted, gin.H{"message": "cancellation requested"})
}

// History returns the bounded run history.
func (h *SimulationHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.History())
}

// RefreshFactors fetches the latest variation factors from the configured
// external endpoint, tolerating cooldown/circuit-breaker rejection as a
// normal (non-5xx) response rather than an internal error.
func (h *SimulationHandler) RefreshFactors(c *gin.Context) {
	if h.factorClient == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "no variation factor endpoint configured",
			Code:  "FACTORS_UNCONFIGURED",
		})
		return
	}

	result, err := h.factorClient.Fetch(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, ErrorResponse{
			Error:   "variation factors unavailable, continuing with last known set",
			Code:    "FACTORS_FETCH_FAILED",
			Details: map[string]string{"reason": err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
