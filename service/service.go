// Package service manages the lifecycle of long-lived engine subsystems:
// audio backends, narration, the animation clock.
package service

import (
	"fmt"
)

// Service is the lifecycle contract for infrastructure subsystems.
//
// Lifecycle:
//  1. Construction
//  2. Init() - acquire resources (audio device, terminal)
//  3. Start() - launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources; idempotent
type Service interface {
	Name() string
	Init() error
	Start() error
	Stop() error
}

// Manager initializes and starts services in registration order and stops
// them in reverse.
type Manager struct {
	services []Service
	started  int
}

func NewManager() *Manager {
	return &Manager{}
}

// Add registers a service. Registration order is start order.
func (m *Manager) Add(services ...Service) {
	m.services = append(m.services, services...)
}

// Run initializes then starts every service. On any failure, already
// started services are stopped before the error returns.
func (m *Manager) Run() error {
	for _, s := range m.services {
		if err := s.Init(); err != nil {
			m.Shutdown()
			return fmt.Errorf("init %s: %w", s.Name(), err)
		}
	}
	for _, s := range m.services {
		if err := s.Start(); err != nil {
			m.Shutdown()
			return fmt.Errorf("start %s: %w", s.Name(), err)
		}
		m.started++
	}
	return nil
}

// Shutdown stops started services in reverse order. Safe to call twice.
func (m *Manager) Shutdown() {
	for i := m.started - 1; i >= 0; i-- {
		m.services[i].Stop()
	}
	m.started = 0
}
