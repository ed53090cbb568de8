// Package factors implements the external collaborator named in spec §6:
// the HTTP endpoint that serves news-derived VariationFactor lists. It is
// circuit-broken and cooldown-gated (spec §4.8.7, §7 ExternalFetch).
package factors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/paddockml/racesim/internal/domain"
	"github.com/paddockml/racesim/pkg/logger"
)

// Envelope is the wire shape of the factor endpoint response (spec §6).
type Envelope struct {
	Factors   []rawFactor `json:"factors"`
	Source    string      `json:"source"`
	UpdatedAt string      `json:"updatedAt"`
}

// rawFactor mirrors domain.VariationFactor but tolerates malformed entries,
// which are dropped rather than failing the whole fetch (spec §6).
type rawFactor struct {
	ID          string                `json:"id"`
	Label       string                `json:"label"`
	Description string                `json:"description"`
	ImpactType  domain.ImpactType     `json:"impactType"`
	Targets     []domain.FactorTarget `json:"targets"`
	Magnitude   float64               `json:"magnitude"`
	Enabled     bool                  `json:"enabled"`
}

// DefaultCooldown is the minimum interval between factor refresh requests
// (spec §4.8.7).
const DefaultCooldown = 30 * time.Second

// Client fetches variation factors from a configured endpoint, tolerating
// network failures, non-JSON bodies, and malformed entries without ever
// propagating an error to the UI (spec §7 ExternalFetch is a warning, not a
// fatal error).
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *logrus.Logger
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
}

// NewClient builds a Client against endpoint, with a cooldown-gating
// limiter and a circuit breaker tripping once more than 3 consecutive
// failures have occurred.
func NewClient(endpoint string, logger *logrus.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "variation-factors",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Info("variation factor circuit breaker state changed")
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   endpoint,
		logger:     logger,
		breaker:    breaker,
		// rate.NewLimiter's refill period is the cooldown: one token every
		// DefaultCooldown, burst of 1 so a premature request is refused
		// outright rather than queued.
		limiter: rate.NewLimiter(rate.Every(DefaultCooldown), 1),
	}
}

// Result carries the parsed factor list plus source metadata from one fetch.
type Result struct {
	Factors   []domain.VariationFactor
	Source    string
	UpdatedAt string
}

// Fetch retrieves the current factor list. If the cooldown has not
// elapsed, it returns a user-visible error and makes no network call
// (spec §4.8.7). Network/parse failures are wrapped as a non-fatal
// domain.ExternalFetchError; callers should proceed with the last known
// factor set rather than aborting the simulation.
func (c *Client) Fetch(ctx context.Context) (*Result, error) {
	if !c.limiter.Allow() {
		return nil, domain.NewValidationError("factor refresh requested before cooldown elapsed")
	}

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doFetch(ctx)
	})
	if err != nil {
		c.logger.WithError(err).Warn("variation factor fetch failed; continuing with last known factors")
		return nil, domain.NewExternalFetchError("failed to fetch variation factors", err)
	}

	result := raw.(*Result)
	logger.WithFactorSource(c.logger, result.Source).WithField("count", len(result.Factors)).Debug("variation factors fetched")
	return result, nil
}

func (c *Client) doFetch(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("variation factor endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("variation factor endpoint returned non-JSON body: %w", err)
	}

	factors := make([]domain.VariationFactor, 0, len(env.Factors))
	for _, rf := range env.Factors {
		if err := rf.ImpactType.Validate(); err != nil {
			// Malformed entries are dropped silently, never surfaced as a
			// fetch failure (spec §6).
			continue
		}
		// Entries arriving without an id still need one: the UI toggles
		// factors on and off by id, so an empty id would make two unnamed
		// factors indistinguishable.
		id := rf.ID
		if id == "" {
			id = uuid.NewString()
		}
		factors = append(factors, domain.VariationFactor{
			ID:          id,
			Label:       rf.Label,
			Description: rf.Description,
			ImpactType:  rf.ImpactType,
			Targets:     rf.Targets,
			Magnitude:   domain.ClampMagnitude(rf.Magnitude),
			Enabled:     rf.Enabled,
		})
	}

	source := env.Source
	if source == "" {
		source = resp.Header.Get("X-Analysis-Source")
	}
	updatedAt := env.UpdatedAt
	if updatedAt == "" {
		updatedAt = resp.Header.Get("X-Updated-At")
	}

	return &Result{Factors: factors, Source: source, UpdatedAt: updatedAt}, nil
}
