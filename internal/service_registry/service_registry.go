package service_registry

import (
	"errors"
	"fmt"

	"github.com/benmeehan/nav-handoff/internal/services"
	"github.com/benmeehan/nav-handoff/internal/utils"
	"github.com/benmeehan/nav-handoff/pkg/file"
	"github.com/benmeehan/nav-handoff/pkg/handoff"
	"github.com/benmeehan/nav-handoff/pkg/mqtt"
	"github.com/benmeehan/nav-handoff/pkg/platform"
	"github.com/rs/zerolog"
)

// Service is the interface for all plug-in services
type Service interface {
	Start() error
	Stop() error
}

// ServiceRegistry manages the lifecycle of various services in the system.
type ServiceRegistry struct {
	services    map[string]Service // Stores registered services
	serviceKeys []string           // Maintains order of service registration
	mqttClient  mqtt.MQTTClient
	fileClient  file.FileOperations
	pipeline    *services.InitializationPipeline
	Logger      zerolog.Logger
}

// NewServiceRegistry initializes a new service registry with dependencies. mqttClient
// may be nil when no component uses the broker.
func NewServiceRegistry(mqttClient mqtt.MQTTClient, fileClient file.FileOperations, logger zerolog.Logger) *ServiceRegistry {
	return &ServiceRegistry{
		services:   make(map[string]Service),
		mqttClient: mqttClient,
		fileClient: fileClient,
		Logger:     logger,
	}
}

// RegisterService adds a new service to the registry.
func (sr *ServiceRegistry) RegisterService(name string, svc Service) {
	if _, exists := sr.services[name]; exists {
		sr.Logger.Warn().Msgf("Service %s is already registered", name)
		return
	}
	sr.services[name] = svc
	sr.serviceKeys = append(sr.serviceKeys, name)
	sr.Logger.Info().Msgf("Registered service: %s", name)
}

// StartServices initiates all registered services in order.
// If a service fails to start, it stops already started services.
func (sr *ServiceRegistry) StartServices() error {
	startedServices := []string{}

	for _, name := range sr.serviceKeys {
		svc := sr.services[name]
		sr.Logger.Info().Msgf("Starting service: %s", name)
		if err := svc.Start(); err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to start service: %s", name)

			// Stop already started services before returning
			sr.Logger.Warn().Msg("Stopping already started services due to startup failure...")
			for i := len(startedServices) - 1; i >= 0; i-- {
				_ = sr.services[startedServices[i]].Stop()
			}
			return fmt.Errorf("start %s: %w", name, err)
		}
		startedServices = append(startedServices, name)
	}

	return nil
}

// StopServices stops all services in reverse order.
func (sr *ServiceRegistry) StopServices() error {
	var stopErrors []error
	for i := len(sr.serviceKeys) - 1; i >= 0; i-- {
		name := sr.serviceKeys[i]
		if err := sr.services[name].Stop(); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", name, err))
		}
	}
	if len(stopErrors) > 0 {
		for _, e := range stopErrors {
			sr.Logger.Error().Err(e).Msg("Service stop failure")
		}
		return errors.Join(stopErrors...)
	}
	return nil
}

// ServiceNames returns the registered service names in start order.
func (sr *ServiceRegistry) ServiceNames() []string {
	return append([]string(nil), sr.serviceKeys...)
}

// Pipeline returns the navigation pipeline built by RegisterServices.
func (sr *ServiceRegistry) Pipeline() *services.InitializationPipeline {
	return sr.pipeline
}

// RegisterServices wires the hand-off source, the navigation pipeline and its
// subsystems from config and registers the resulting services.
func (sr *ServiceRegistry) RegisterServices(config *utils.Config, loop *utils.MainLoop, surface services.PresentationSurface) error {
	if config.NeedsMQTT() && sr.mqttClient == nil {
		return errors.New("configuration requires an MQTT client")
	}

	gate, err := handoff.NewVersionGate(config.Handoff.MinVersion)
	if err != nil {
		sr.Logger.Error().Err(err).Msg("Invalid hand-off version constraint")
		return err
	}

	var (
		source      handoff.Source
		bridge      *handoff.HostBridge
		host        services.HostReturnSignal
		permissions platform.PermissionRequester
		waypoints   services.WaypointSubsystem
		navigation  services.NavigationSubsystem
	)

	switch config.Handoff.Source {
	case utils.SourceMQTT:
		store := handoff.NewStore(gate)
		bridge = handoff.NewHostBridge(
			sr.mqttClient,
			store,
			config.Handoff.TopicPrefix,
			config.Handoff.QOS,
			config.Handoff.WaitTimeout,
			sr.Logger,
		)
		source, host, permissions = store, bridge, bridge
	case utils.SourceFile:
		source = handoff.NewFileSource(config.Handoff.FilePath, sr.fileClient, gate)
	}

	if config.Subsystems.Waypoints.Enabled {
		waypoints = services.NewMQTTWaypointPublisher(
			config.Subsystems.Waypoints.Topic,
			config.Subsystems.Waypoints.QOS,
			sr.mqttClient,
			sr.Logger,
		)
	}
	if config.Subsystems.Navigation.Enabled {
		navigation = services.NewMQTTNavigationPublisher(
			config.Subsystems.Navigation.Topic,
			config.Subsystems.Navigation.QOS,
			sr.mqttClient,
			sr.Logger,
		)
	}

	resolver := services.NewDestinationResolver(services.DebugSettings{
		Enabled:      config.Debug.UseDebugData,
		BuildingName: config.Debug.BuildingName,
		RoomName:     config.Debug.RoomName,
	}, source, sr.Logger)

	presenter := services.NewPresentationController(surface, loop, config.Presentation.DismissDelay, sr.Logger)

	sr.pipeline = services.NewInitializationPipeline(services.PipelineDeps{
		Resolver:   resolver,
		Presenter:  presenter,
		Waypoints:  waypoints,
		Navigation: navigation,
		Host:       host,
	}, sr.Logger)

	navService := services.NewNavigationService(
		sr.pipeline,
		presenter,
		loop,
		permissions,
		requiredPermissions(config.Permissions),
		sr.Logger,
	)

	// The bridge starts first so a retained hand-off is in the store before the first
	// resolution is queued.
	if bridge != nil {
		bridge.SetHandoffListener(navService.Retrigger)
		sr.RegisterService("handoff", bridge)
	}
	sr.RegisterService("navigation", navService)

	sr.Logger.Info().Msgf("Registered services in order: %v", sr.serviceKeys)
	return nil
}

func requiredPermissions(names []string) []platform.Permission {
	if len(names) == 0 {
		return platform.DefaultPermissions
	}

	perms := make([]platform.Permission, 0, len(names))
	for _, name := range names {
		perms = append(perms, platform.Permission(name))
	}
	return perms
}
