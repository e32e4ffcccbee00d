package services

import (
	"errors"
	"sync"

	"github.com/benmeehan/nav-handoff/pkg/platform"
	"github.com/rs/zerolog"
)

// Dispatcher runs tasks on the main loop.
type Dispatcher interface {
	Submit(task func()) bool
	SubmitAndWait(task func()) bool
}

// NavigationService drives the pipeline over the receiver's lifetime: startup
// permissions and resolution, re-resolution on new hand-offs, and teardown.
type NavigationService struct {
	pipeline    *InitializationPipeline
	presenter   *PresentationController
	dispatcher  Dispatcher
	permissions platform.PermissionRequester
	required    []platform.Permission
	logger      zerolog.Logger

	mu      sync.Mutex
	running bool
}

// NewNavigationService creates a NavigationService. permissions and presenter may be nil.
func NewNavigationService(pipeline *InitializationPipeline, presenter *PresentationController, dispatcher Dispatcher,
	permissions platform.PermissionRequester, required []platform.Permission, logger zerolog.Logger) *NavigationService {
	return &NavigationService{
		pipeline:    pipeline,
		presenter:   presenter,
		dispatcher:  dispatcher,
		permissions: permissions,
		required:    required,
		logger:      logger,
	}
}

// Start requests the startup permissions and queues the first resolution.
func (s *NavigationService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Warn().Msg("NavigationService is already running")
		return errors.New("navigation service is already running")
	}

	platform.RequestStartupPermissions(s.permissions, s.logger, s.required...)

	if !s.dispatcher.Submit(s.resolve) {
		return errors.New("main loop is not running")
	}

	s.running = true
	s.logger.Info().Msg("NavigationService started")
	return nil
}

// Retrigger queues a new resolution after the host handed over a new session.
func (s *NavigationService) Retrigger(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.logger.Info().Str("session", sessionID).Msg("New hand-off, resolving destination again")
	s.dispatcher.Submit(s.resolve)
}

// Stop returns control to the host and cancels the pending dismissal.
func (s *NavigationService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Warn().Msg("NavigationService is not running")
		return errors.New("navigation service is not running")
	}

	s.dispatcher.SubmitAndWait(func() {
		s.pipeline.ReturnToHost()
		if s.presenter != nil {
			s.presenter.Stop()
		}
	})

	s.running = false
	s.logger.Info().Msg("NavigationService stopped")
	return nil
}

func (s *NavigationService) resolve() {
	if err := s.pipeline.ResolveAndInitialize(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to initialize navigation")
	}
}
