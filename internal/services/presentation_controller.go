package services

import (
	"sync"
	"time"

	"github.com/benmeehan/nav-handoff/internal/models"
	"github.com/benmeehan/nav-handoff/internal/utils"
	"github.com/benmeehan/nav-handoff/pkg/ui"
	"github.com/rs/zerolog"
)

// PresentationSurface groups the UI handles the controller writes to. Any of them may be
// nil and is then skipped.
type PresentationSurface struct {
	Panel            ui.Panel
	DestinationLabel ui.Label
	DescriptionLabel ui.Label
	RoomLabel        ui.Label
}

// PresentationController shows a destination for a limited time.
type PresentationController struct {
	surface      PresentationSurface
	scheduler    utils.Scheduler
	dismissDelay time.Duration
	logger       zerolog.Logger

	mu         sync.Mutex
	pending    utils.Timer
	generation uint64
}

// NewPresentationController creates a PresentationController that hides the surface
// dismissDelay after each Present.
func NewPresentationController(surface PresentationSurface, scheduler utils.Scheduler,
	dismissDelay time.Duration, logger zerolog.Logger) *PresentationController {
	return &PresentationController{
		surface:      surface,
		scheduler:    scheduler,
		dismissDelay: dismissDelay,
		logger:       logger,
	}
}

// Present writes d to the surface, reveals it and schedules its dismissal. A dismissal
// still pending from an earlier Present is cancelled.
func (p *PresentationController) Present(d models.Destination) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.surface.Panel != nil {
		p.surface.Panel.SetActive(true)
	}
	if p.surface.DestinationLabel != nil {
		p.surface.DestinationLabel.SetText("Destination: " + d.BuildingName)
	}
	if p.surface.DescriptionLabel != nil {
		p.surface.DescriptionLabel.SetText(d.Description)
	}
	// An empty room leaves the label as it was.
	if p.surface.RoomLabel != nil && d.HasRoom() {
		p.surface.RoomLabel.SetText("Room: " + d.RoomName)
	}

	p.cancelPendingLocked()
	if p.scheduler == nil {
		return
	}

	generation := p.generation
	p.pending = p.scheduler.Schedule(p.dismissDelay, func() {
		p.dismissScheduled(generation)
	})

	p.logger.Debug().Dur("dismiss_delay", p.dismissDelay).Msg("Destination presented")
}

// Dismiss hides the surface. Hiding a hidden surface is a no-op.
func (p *PresentationController) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.hideLocked()
}

// Stop cancels a pending dismissal without touching the surface.
func (p *PresentationController) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancelPendingLocked()
}

// HasPendingDismissal reports whether a dismissal is scheduled.
func (p *PresentationController) HasPendingDismissal() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}

func (p *PresentationController) dismissScheduled(generation uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Superseded by a later Present or Stop after the timer had already fired.
	if generation != p.generation {
		return
	}
	p.pending = nil
	p.hideLocked()
}

func (p *PresentationController) hideLocked() {
	if p.surface.Panel == nil || !p.surface.Panel.IsActive() {
		return
	}
	p.surface.Panel.SetActive(false)
	p.logger.Debug().Msg("Destination dismissed")
}

func (p *PresentationController) cancelPendingLocked() {
	p.generation++
	if p.pending != nil {
		p.pending.Stop()
		p.pending = nil
	}
}
