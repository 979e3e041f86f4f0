package model

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/cells/utils"
)

// State is the lifecycle position of a Simulation
type State int

const (
	StateSeeded State = iota
	StateIterating
	// StateSteady means the last generation equals its predecessor
	StateSteady
	// StateLimited means MaxGenerations was reached first
	StateLimited
	// StateCycling means a grid repeated within CycleWindow generations
	StateCycling
	// StateCancelled means the context ended the run
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateSeeded:
		return "seeded"
	case StateIterating:
		return "iterating"
	case StateSteady:
		return "steady"
	case StateLimited:
		return "limited"
	case StateCycling:
		return "cycling"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Result summarises a finished run
type Result struct {
	State       State
	Generations int
	Grid        *Grid
}

// Simulation owns the current grid and drives it until a terminal state
type Simulation struct {
	grid       *Grid
	renderer   Renderer
	config     utils.Config
	pool       *GridPool
	stats      *utils.Stats
	state      State
	generation int
	history    []string
}

// NewSimulation prepares a run starting from seed. The seed grid is owned by
// the simulation from here on.
func NewSimulation(seed *Grid, renderer Renderer, config utils.Config) *Simulation {
	var pool *GridPool
	if config.UseMemoryPool {
		pool = NewGridPool()
	}

	return &Simulation{
		grid:     seed,
		renderer: renderer,
		config:   config,
		pool:     pool,
		stats:    utils.NewStats(),
		state:    StateSeeded,
	}
}

// State returns the current lifecycle state
func (s *Simulation) State() State {
	return s.state
}

// Generation returns the number of generations computed so far
func (s *Simulation) Generation() int {
	return s.generation
}

// Grid returns the current generation
func (s *Simulation) Grid() *Grid {
	return s.grid
}

// Stats returns the running statistics
func (s *Simulation) Stats() *utils.Stats {
	return s.stats
}

// Step computes and displays one generation and moves to the resulting
// state. It reports whether the simulation can continue.
func (s *Simulation) Step() (bool, error) {
	if s.done() {
		return false, nil
	}
	frameStart := time.Now()

	s.state = StateIterating
	s.generation++

	next := s.grid.NextGeneration(s.pool)
	if err := s.renderer.Display(next); err != nil {
		GridToPool(next, s.pool)
		return false, errors.Wrapf(err, "[Simulation.Step] failed to display generation %d", s.generation)
	}

	s.stats.Update(s.generation, next.CountLivingCells(), time.Since(frameStart))
	if s.config.ShowStats {
		log.Printf("gen: %d | living: %d | avg pop: %.1f | runtime: %.1fs",
			s.generation, s.stats.Population, s.stats.AveragePopulation, s.stats.Runtime().Seconds())
	}

	if next.Equal(s.grid) {
		GridToPool(next, s.pool)
		s.state = StateSteady
		return false, nil
	}

	if s.config.CycleWindow > 0 {
		hash := next.Hash()
		if slices.Contains(s.history, hash) {
			s.replace(next)
			s.state = StateCycling
			return false, nil
		}
		s.history = append(s.history, s.grid.Hash())
		if len(s.history) > s.config.CycleWindow {
			s.history = s.history[1:]
		}
	}

	s.replace(next)

	if s.config.MaxGenerations > 0 && s.generation >= s.config.MaxGenerations {
		s.state = StateLimited
		return false, nil
	}
	return true, nil
}

// Run displays the seed and steps until a terminal state is reached or ctx
// is cancelled. Without MaxGenerations or CycleWindow an oscillating grid
// runs until cancellation.
func (s *Simulation) Run(ctx context.Context) (Result, error) {
	if s.state == StateSeeded {
		if err := s.renderer.Display(s.grid); err != nil {
			return s.result(), errors.Wrap(err, "[Simulation.Run] failed to display seed")
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			s.state = StateCancelled
			return s.result(), nil
		}

		more, err := s.Step()
		if err != nil {
			return s.result(), err
		}
		if !more {
			return s.result(), nil
		}

		if err = s.pause(ctx); err != nil {
			s.state = StateCancelled
			return s.result(), nil
		}
	}
}

func (s *Simulation) pause(ctx context.Context) error {
	if s.config.FrameRate <= 0 {
		return nil
	}

	timer := time.NewTimer(s.config.FrameRate)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// replace makes next the current grid and releases the old one
func (s *Simulation) replace(next *Grid) {
	old := s.grid
	s.grid = next
	GridToPool(old, s.pool)
}

func (s *Simulation) done() bool {
	switch s.state {
	case StateSteady, StateLimited, StateCycling, StateCancelled:
		return true
	}
	return false
}

func (s *Simulation) result() Result {
	return Result{State: s.state, Generations: s.generation, Grid: s.grid}
}
