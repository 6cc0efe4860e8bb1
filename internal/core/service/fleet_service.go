package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetops/fleet-console/internal/core/domain"
)

const (
	defaultJitterInterval = 5 * time.Second
	// jitterAmplitude bounds each positional step to ±0.0005 degrees.
	jitterAmplitude = 0.001
)

// seedFleet is the demo fleet shown on the dashboard map.
var seedFleet = []domain.Vehicle{
	{ID: "VEH-001", Name: "Vehicle #001", Driver: "Juan Dela Cruz", Status: domain.VehicleActive, Lat: 14.3245, Lng: 120.9245, Color: "red"},
	{ID: "VEH-002", Name: "Vehicle #002", Driver: "Maria Santos", Status: domain.VehicleActive, Lat: 14.3250, Lng: 120.9255, Color: "green"},
	{ID: "VEH-003", Name: "Vehicle #003", Driver: "Pedro Reyes", Status: domain.VehicleIdle, Lat: 14.3230, Lng: 120.9220, Color: "yellow"},
	{ID: "VEH-004", Name: "Vehicle #004", Driver: "Ana Garcia", Status: domain.VehicleActive, Lat: 14.3260, Lng: 120.9270, Color: "blue"},
}

// FleetService serves simulated vehicle positions for the live map. A
// background ticker drifts each vehicle a small random step at a fixed
// interval; Snapshot hands out copies so callers never see the feed mutate.
type FleetService struct {
	mu       sync.RWMutex
	vehicles []domain.Vehicle
	interval time.Duration
	logger   zerolog.Logger
}

func NewFleetService(interval time.Duration, logger zerolog.Logger) *FleetService {
	if interval <= 0 {
		interval = defaultJitterInterval
	}
	vehicles := make([]domain.Vehicle, len(seedFleet))
	copy(vehicles, seedFleet)
	now := time.Now().UTC()
	for i := range vehicles {
		vehicles[i].UpdatedAt = now
	}
	return &FleetService{vehicles: vehicles, interval: interval, logger: logger}
}

// Start launches the jitter loop. It stops when ctx is cancelled.
func (s *FleetService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Debug().Msg("fleet feed stopped")
				return
			case <-ticker.C:
				s.jitter()
			}
		}
	}()
}

// Snapshot returns a copy of the current vehicle positions.
func (s *FleetService) Snapshot() []domain.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Vehicle, len(s.vehicles))
	copy(out, s.vehicles)
	return out
}

// CountByStatus reports how many vehicles currently hold each status.
func (s *FleetService) CountByStatus() map[domain.VehicleStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.VehicleStatus]int, 2)
	for _, v := range s.vehicles {
		counts[v.Status]++
	}
	return counts
}

func (s *FleetService) jitter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for i := range s.vehicles {
		s.vehicles[i].Lat += (rand.Float64() - 0.5) * jitterAmplitude
		s.vehicles[i].Lng += (rand.Float64() - 0.5) * jitterAmplitude
		s.vehicles[i].UpdatedAt = now
	}
}
