package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benmeehan/nav-handoff/internal/service_registry"
	"github.com/benmeehan/nav-handoff/internal/services"
	"github.com/benmeehan/nav-handoff/internal/utils"
	"github.com/benmeehan/nav-handoff/pkg/file"
	"github.com/benmeehan/nav-handoff/pkg/mqtt"
	"github.com/benmeehan/nav-handoff/pkg/ui"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file")
	flag.Parse()

	// Bootstrap logger until the configured one is available
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Broker credentials may come from a .env file next to the binary
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	// Initialize file operations handler
	fileClient := file.NewFileService()

	// Load configuration from file
	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
	}

	log = newLogger(config)

	// Initialize the shared MQTT connection if anything needs the broker
	var mqttClient *mqtt.MqttService
	if config.NeedsMQTT() {
		// Generate a unique MQTT Client ID by appending a UUID
		clientID := config.MQTT.ClientID + "-" + uuid.New().String()
		log.Info().Str("client_id", clientID).Msg("Connecting to MQTT broker")

		mqttClient = mqtt.NewMqttService(fileClient)
		err = mqttClient.Initialize(mqtt.Options{
			Broker:        config.MQTT.Broker,
			ClientID:      clientID,
			CACertificate: config.MQTT.CACertificate,
			Username:      config.MQTT.Username,
			Password:      config.MQTT.Password,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize MQTT connection")
		}
	}

	loop := utils.NewMainLoop(config.MainLoop.QueueSize)

	onChange := ui.LogChanges(log)
	surface := services.PresentationSurface{
		Panel:            ui.NewWidget("destination_panel", onChange),
		DestinationLabel: ui.NewWidget("destination_text", onChange),
		DescriptionLabel: ui.NewWidget("building_text", onChange),
		RoomLabel:        ui.NewWidget("room_text", onChange),
	}

	// Create a new service registry to manage services; a nil *MqttService must not
	// reach it as a non-nil interface
	var registry *service_registry.ServiceRegistry
	if mqttClient != nil {
		registry = service_registry.NewServiceRegistry(mqttClient, fileClient, log)
	} else {
		registry = service_registry.NewServiceRegistry(nil, fileClient, log)
	}

	if err := registry.RegisterServices(config, loop, surface); err != nil {
		log.Fatal().Err(err).Msg("Failed to register services")
	}

	if err := registry.StartServices(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start services")
	}
	log.Info().Msg("All services started successfully")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down gracefully...")
	if err := registry.StopServices(); err != nil {
		log.Error().Err(err).Msg("Some services failed to stop")
	}
	loop.Shutdown()

	if mqttClient != nil {
		mqttClient.Disconnect(250)
	}
}

// newLogger builds the root logger from the log section of the configuration.
func newLogger(config *utils.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if config.Log.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().Timestamp().Str("service", "nav-receiver").Logger()
}
