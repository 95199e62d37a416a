package services

import (
	"fmt"

	"github.com/dcvalino/mysite/core"
)

// Operation IDs adapters bind handlers to
const (
	OpRegisterForm   = "registerForm"
	OpRegisterSubmit = "registerSubmit"
	OpListGames      = "listGames"
	OpGameDetail     = "gameDetail"
	OpLogout         = "logout"
	OpHealth         = "health"
)

// BaseEndpoints returns the framework-agnostic route table of the site.
//
// Adapters look endpoints up by OperationID and attach their own handlers,
// wrapping Protected ones in the session gate.
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/register",
			Method: "GET",
			Metadata: core.EndpointMetadata{
				OperationID: OpRegisterForm,
				Description: "Render the registration form",
			},
		},
		{
			Path:   "/register",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: OpRegisterSubmit,
				Description: "Register a new identity with email and password",
			},
		},
		{
			Path:      "/main",
			Method:    "GET",
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: OpListGames,
				Description: "List the game catalog",
			},
		},
		{
			Path:      "/detail",
			Method:    "GET",
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: OpGameDetail,
				Description: "Show a single game selected by juego_id",
			},
		},
		{
			Path:   "/logout",
			Method: "GET",
			Metadata: core.EndpointMetadata{
				OperationID: OpLogout,
				Description: "End the current session",
			},
		},
		{
			Path:   "/health",
			Method: "GET",
			Metadata: core.EndpointMetadata{
				OperationID: OpHealth,
				Description: "Liveness check",
			},
		},
	}
}

// EndpointRegistry holds the route table and rejects duplicate METHOD:PATH
// combinations.
type EndpointRegistry struct {
	// endpoints stores all registered endpoints keyed by "METHOD:PATH"
	endpoints map[string]*core.Endpoint
	order     []string
}

// NewEndpointRegistry creates a registry with the base endpoints pre-registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	for _, ep := range BaseEndpoints() {
		// base endpoints never collide with each other
		_ = reg.register(ep)
	}

	return reg
}

func endpointKey(ep core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

func (r *EndpointRegistry) register(ep core.Endpoint) error {
	key := endpointKey(ep)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = &ep
	r.order = append(r.order, key)
	return nil
}

// Register adds extra endpoints. Either all of them are added or none are.
func (r *EndpointRegistry) Register(endpoints []core.Endpoint) error {
	seen := make(map[string]bool, len(endpoints))
	for _, ep := range endpoints {
		key := endpointKey(ep)
		if _, exists := r.endpoints[key]; exists {
			return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
		}
		if seen[key] {
			return fmt.Errorf("duplicate endpoint in batch: %s %s", ep.Method, ep.Path)
		}
		seen[key] = true
	}

	for _, ep := range endpoints {
		_ = r.register(ep)
	}

	return nil
}

// Endpoints returns every registered endpoint in registration order
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.endpoints[key])
	}
	return result
}

// Lookup finds an endpoint by operation ID
func (r *EndpointRegistry) Lookup(operationID string) (*core.Endpoint, bool) {
	for _, key := range r.order {
		if ep := r.endpoints[key]; ep.Metadata.OperationID == operationID {
			return ep, true
		}
	}
	return nil, false
}
