package status

import (
	"sort"
	"sync"
	"time"
)

type Health string

const (
	Healthy Health = "healthy"
	Warning Health = "warning"
	Error   Health = "error"
)

// ServiceStatus is operational metadata about one registered service.
type ServiceStatus struct {
	Name        string `json:"name"`
	Endpoint    string `json:"endpoint"`
	Status      Health `json:"status"`
	Details     string `json:"details,omitempty"`
	LastUpdated string `json:"lastUpdated"`
}

// Registry is an explicitly constructed service registry. It is built in
// main and injected where needed; there is no package-level instance.
type Registry struct {
	mu       sync.RWMutex
	services map[string]ServiceStatus
}

func NewRegistry() *Registry {
	return &Registry{services: make(map[string]ServiceStatus)}
}

func (r *Registry) Register(name, endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.services[name] = ServiceStatus{
		Name:        name,
		Endpoint:    endpoint,
		Status:      Healthy,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
}

func (r *Registry) SetStatus(name string, health Health, details string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.services[name]
	if !ok {
		return
	}
	s.Status = health
	s.Details = details
	s.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	r.services[name] = s
}

func (r *Registry) Lookup(name string) (ServiceStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.services[name]
	return s, ok
}

// List returns all registered services sorted by name.
func (r *Registry) List() []ServiceStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ServiceStatus, 0, len(r.services))
	for _, s := range r.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
