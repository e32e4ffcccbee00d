package services

import (
	"errors"
	"sync"

	"github.com/benmeehan/nav-handoff/internal/constants"
	"github.com/benmeehan/nav-handoff/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNilDestination is returned when Initialize is called without a destination.
var ErrNilDestination = errors.New("navigation destination is nil")

// WaypointSubsystem builds the waypoints for a building.
type WaypointSubsystem interface {
	InitializeWaypoints(buildingName string)
}

// NavigationSubsystem guides the user to a destination.
type NavigationSubsystem interface {
	StartNavigation(destination models.Destination)
}

// HostReturnSignal asks the app that launched the receiver to take control back.
type HostReturnSignal interface {
	RequestReturnToHost() error
}

// Presenter shows a destination to the user.
type Presenter interface {
	Present(destination models.Destination)
}

// PipelineDeps are the collaborators of an InitializationPipeline. Waypoints,
// Navigation and Host are optional.
type PipelineDeps struct {
	Resolver   *DestinationResolver
	Presenter  Presenter
	Waypoints  WaypointSubsystem
	Navigation NavigationSubsystem
	Host       HostReturnSignal
}

// InitializationPipeline resolves a destination, presents it and hands it to the
// waypoint and navigation subsystems. It keeps the latest destination for queries.
type InitializationPipeline struct {
	deps   PipelineDeps
	logger zerolog.Logger

	mu           sync.RWMutex
	state        constants.PipelineState
	current      *models.Destination
	resolutionID string
}

// NewInitializationPipeline creates a pipeline in the uninitialized state.
func NewInitializationPipeline(deps PipelineDeps, logger zerolog.Logger) *InitializationPipeline {
	return &InitializationPipeline{
		deps:   deps,
		logger: logger,
		state:  constants.StateUninitialized,
	}
}

// ResolveAndInitialize resolves a new destination and initializes navigation with it,
// superseding any earlier destination.
func (p *InitializationPipeline) ResolveAndInitialize() error {
	if p.deps.Resolver == nil {
		p.logger.Error().Msg("No destination resolver wired")
		return errors.New("destination resolver is not configured")
	}

	p.setState(constants.StateResolving)
	destination := p.deps.Resolver.Resolve()
	return p.Initialize(&destination)
}

// Initialize presents destination and forwards it to the subsystems. A nil destination
// is logged and leaves the pipeline as it was.
func (p *InitializationPipeline) Initialize(destination *models.Destination) error {
	if destination == nil {
		p.logger.Error().Err(ErrNilDestination).Msg("Cannot initialize navigation")
		return ErrNilDestination
	}

	d := *destination
	id := uuid.New().String()

	p.mu.Lock()
	p.current = &d
	p.resolutionID = id
	p.state = constants.StatePresenting
	p.mu.Unlock()

	logger := p.logger.With().Str("resolution_id", id).Logger()

	if p.deps.Presenter != nil {
		p.deps.Presenter.Present(d)
	}

	if p.deps.Waypoints != nil {
		p.deps.Waypoints.InitializeWaypoints(d.BuildingName)
	}

	if p.deps.Navigation != nil {
		p.deps.Navigation.StartNavigation(d)
	}

	p.setState(constants.StateActive)

	logger.Info().
		Str("building", d.BuildingName).
		Str("room", d.RoomName).
		Msg("Navigation initialized")
	return nil
}

// GetCurrentDestination returns the latest destination. The boolean is false before the
// first successful initialization.
func (p *InitializationPipeline) GetCurrentDestination() (models.Destination, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current == nil {
		return models.Destination{}, false
	}
	return *p.current, true
}

// ResolutionID identifies the current destination in logs and messages.
func (p *InitializationPipeline) ResolutionID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resolutionID
}

// State returns the pipeline state.
func (p *InitializationPipeline) State() constants.PipelineState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// ReturnToHost asks the host to take control back. Failures are logged only.
func (p *InitializationPipeline) ReturnToHost() {
	if p.deps.Host == nil {
		p.logger.Debug().Msg("No host return signal wired")
		return
	}

	if err := p.deps.Host.RequestReturnToHost(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to return to host")
		return
	}
	p.logger.Info().Msg("Requested return to host")
}

func (p *InitializationPipeline) setState(state constants.PipelineState) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
}
