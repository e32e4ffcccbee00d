package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/benmeehan/nav-handoff/internal/models"
	"github.com/benmeehan/nav-handoff/pkg/mqtt"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
)

// MQTTWaypointPublisher hands building names to a waypoint builder listening on MQTT.
type MQTTWaypointPublisher struct {
	topic      string
	qos        int
	mqttClient mqtt.MQTTClient
	logger     zerolog.Logger
}

// NewMQTTWaypointPublisher creates an MQTTWaypointPublisher.
func NewMQTTWaypointPublisher(topic string, qos int, mqttClient mqtt.MQTTClient, logger zerolog.Logger) *MQTTWaypointPublisher {
	return &MQTTWaypointPublisher{
		topic:      topic,
		qos:        qos,
		mqttClient: mqttClient,
		logger:     logger,
	}
}

// InitializeWaypoints publishes a WaypointInit for buildingName. Errors are logged.
func (w *MQTTWaypointPublisher) InitializeWaypoints(buildingName string) {
	msg := models.WaypointInit{
		BuildingName: buildingName,
		Timestamp:    time.Now(),
	}

	if err := mqtt.PublishJSON(w.mqttClient, w.topic, byte(w.qos), false, msg); err != nil {
		w.logger.Error().Err(err).Str("topic", w.topic).Msg("Failed to initialize waypoints")
		return
	}
	w.logger.Debug().Str("topic", w.topic).Str("building", buildingName).Msg("Waypoint initialization published")
}

// MQTTNavigationPublisher hands destinations to a navigation controller listening on MQTT.
type MQTTNavigationPublisher struct {
	topic      string
	qos        int
	mqttClient mqtt.MQTTClient
	logger     zerolog.Logger
}

// NewMQTTNavigationPublisher creates an MQTTNavigationPublisher.
func NewMQTTNavigationPublisher(topic string, qos int, mqttClient mqtt.MQTTClient, logger zerolog.Logger) *MQTTNavigationPublisher {
	return &MQTTNavigationPublisher{
		topic:      topic,
		qos:        qos,
		mqttClient: mqttClient,
		logger:     logger,
	}
}

// StartNavigation publishes a NavigationStart for destination. Errors are logged.
func (n *MQTTNavigationPublisher) StartNavigation(destination models.Destination) {
	msg := models.NavigationStart{
		Destination: destination,
		Location:    destinationFeature(destination),
		Timestamp:   time.Now(),
	}

	if err := mqtt.PublishJSON(n.mqttClient, n.topic, byte(n.qos), false, msg); err != nil {
		n.logger.Error().Err(err).Str("topic", n.topic).Msg("Failed to start navigation")
		return
	}
	n.logger.Debug().Str("topic", n.topic).Str("building", destination.BuildingName).Msg("Navigation start published")
}

// destinationFeature returns a GeoJSON point for the destination, or nil when the raw
// coordinates are not valid degrees.
func destinationFeature(d models.Destination) *geojson.Feature {
	lat, err := strconv.ParseFloat(strings.TrimSpace(d.Latitude), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(d.Longitude), 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil
	}

	f := geojson.NewFeature(orb.Point{lng, lat})
	f.Properties["building_name"] = d.BuildingName
	if d.HasRoom() {
		f.Properties["room_name"] = d.RoomName
	}
	return f
}
