package health

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"kamgar-sahayak/backend/pkg/logger"
)

// Status represents the health status of a component
type Status string

const (
	// StatusUp indicates a component is working correctly
	StatusUp Status = "up"
	// StatusDown indicates a component is not working
	StatusDown Status = "down"
	// StatusDegraded indicates a component is responding abnormally
	StatusDegraded Status = "degraded"
)

// Component is one health-checked dependency. Critical components take the
// whole service unhealthy when down; non-critical ones are reported only.
type Component struct {
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	Description string    `json:"description,omitempty"`
	Error       string    `json:"error,omitempty"`
	Critical    bool      `json:"critical"`
	LastChecked time.Time `json:"last_checked"`
}

// Check probes one component and reports its status
type Check func() (Status, string, error)

type registeredCheck struct {
	check    Check
	critical bool
}

// Checker runs registered checks periodically and aggregates the results
type Checker struct {
	mu         sync.RWMutex
	checks     map[string]registeredCheck
	components map[string]*Component
	period     time.Duration
	log        *logger.Logger
}

// NewChecker creates a health checker that probes every period
func NewChecker(log *logger.Logger, period time.Duration) *Checker {
	c := &Checker{
		checks:     make(map[string]registeredCheck),
		components: make(map[string]*Component),
		period:     period,
		log:        log,
	}

	c.Register("self", false, func() (Status, string, error) {
		return StatusUp, "Health checker is running", nil
	})

	return c
}

// Register adds a check under the given name
func (c *Checker) Register(name string, critical bool, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = registeredCheck{check: check, critical: critical}
	c.components[name] = &Component{
		Name:        name,
		Status:      StatusDown,
		Description: "Not checked yet",
		Critical:    critical,
	}
}

// RegisterDatabaseCheck wires the database ping as a critical check
func (c *Checker) RegisterDatabaseCheck(ping func() error) {
	c.Register("database", true, func() (Status, string, error) {
		if err := ping(); err != nil {
			return StatusDown, "Database connection failed", err
		}
		return StatusUp, "Database connection is established", nil
	})
}

// RegisterAPICheck probes an HTTP endpoint. Registered non-critical: the
// review queue must stay reachable while a collaborator is down.
func (c *Checker) RegisterAPICheck(name, endpoint string, client *http.Client) {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	c.Register("api-"+name, false, func() (Status, string, error) {
		start := time.Now()
		resp, err := client.Get(endpoint)
		if err != nil {
			return StatusDown, "API request failed", err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return StatusDegraded, fmt.Sprintf("API returned status %d", resp.StatusCode),
				fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return StatusUp, fmt.Sprintf("API is responding (latency: %s)", time.Since(start)), nil
	})
}

// RunChecks executes every registered check once
func (c *Checker) RunChecks() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, rc := range c.checks {
		status, description, err := rc.check()

		component := c.components[name]
		component.Status = status
		component.Description = description
		component.LastChecked = time.Now()
		component.Error = ""

		if err != nil {
			component.Error = err.Error()
			c.log.Error("Health check failed",
				"component", name,
				"status", string(status),
				"error", err.Error(),
			)
		}
	}
}

// Start runs checks immediately and then on every period
func (c *Checker) Start() {
	go func() {
		c.RunChecks()

		ticker := time.NewTicker(c.period)
		defer ticker.Stop()

		for range ticker.C {
			c.RunChecks()
		}
	}()
}

// GetStatus returns a snapshot of all component states
func (c *Checker) GetStatus() map[string]*Component {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]*Component, len(c.components))
	for name, component := range c.components {
		copied := *component
		result[name] = &copied
	}
	return result
}

// IsSystemHealthy reports whether every critical component is up
func (c *Checker) IsSystemHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, component := range c.components {
		if component.Critical && component.Status == StatusDown {
			return false
		}
	}
	return true
}
