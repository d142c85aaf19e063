package model

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Service types the control session uses.
const (
	ServiceRenderingControl  = "RenderingControl"
	ServiceAVTransport       = "AVTransport"
	ServiceConnectionManager = "ConnectionManager"
)

// Service is one control surface of a device.
type Service struct {
	mu sync.RWMutex

	// ServiceType is the full type URN
	// (e.g. "urn:schemas-upnp-org:service:RenderingControl:1").
	ServiceType string

	// ServiceID is the service identifier URN.
	ServiceID string

	// ControlURL is the absolute URL actions are posted to.
	ControlURL string

	// EventSubURL is the absolute event subscription URL.
	EventSubURL string

	// SCPDURL is the absolute URL of the service description.
	SCPDURL string

	// State variables indexed by name.
	variables map[string]*StateVariable
}

// NewService creates a service with the given type and control URL.
func NewService(serviceType, controlURL string) *Service {
	return &Service{
		ServiceType: serviceType,
		ControlURL:  controlURL,
		variables:   make(map[string]*StateVariable),
	}
}

// Name returns the short service name, e.g. "RenderingControl".
func (s *Service) Name() string {
	name, _ := splitServiceType(s.ServiceType)
	return name
}

// Version returns the service version, or 0 if the type has none.
func (s *Service) Version() int {
	_, v := splitServiceType(s.ServiceType)
	return v
}

// Matches returns true if name is the service's full type or its short name.
func (s *Service) Matches(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasPrefix(name, "urn:") {
		return s.ServiceType == name
	}
	return s.Name() == name
}

// AddStateVariable adds or replaces a state variable.
func (s *Service) AddStateVariable(v *StateVariable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.variables == nil {
		s.variables = make(map[string]*StateVariable)
	}
	s.variables[v.Name] = v
}

// StateVariable returns the named state variable.
func (s *Service) StateVariable(name string) (*StateVariable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.variables[name]
	return v, ok
}

// StateVariables returns the state variables sorted by name.
func (s *Service) StateVariables() []*StateVariable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*StateVariable, 0, len(s.variables))
	for _, v := range s.variables {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StateVariableCount returns the number of known state variables.
func (s *Service) StateVariableCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.variables)
}

// splitServiceType splits "urn:<domain>:service:<name>:<version>".
func splitServiceType(t string) (string, int) {
	parts := strings.Split(t, ":")
	if len(parts) < 4 || parts[0] != "urn" || parts[2] != "service" {
		return t, 0
	}
	name := parts[3]
	if len(parts) < 5 {
		return name, 0
	}
	v, err := strconv.Atoi(parts[4])
	if err != nil {
		return name, 0
	}
	return name, v
}
