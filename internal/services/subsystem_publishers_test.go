package services_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/benmeehan/nav-handoff/internal/mocks"
	"github.com/benmeehan/nav-handoff/internal/models"
	"github.com/benmeehan/nav-handoff/internal/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func capturePublish(client *mocks.MockMQTTClient, topic string, err error) *[]byte {
	var payload []byte
	client.On("Publish", topic, byte(1), false, mock.Anything).
		Run(func(args mock.Arguments) { payload = args.Get(3).([]byte) }).
		Return(mocks.NewMockToken(err))
	return &payload
}

// TestMQTTWaypointPublisher_InitializeWaypoints tests the published waypoint message.
func TestMQTTWaypointPublisher_InitializeWaypoints(t *testing.T) {
	mockClient := new(mocks.MockMQTTClient)
	payload := capturePublish(mockClient, "nav/waypoints", nil)

	w := services.NewMQTTWaypointPublisher("nav/waypoints", 1, mockClient, zerolog.Nop())
	w.InitializeWaypoints("Library")

	var msg models.WaypointInit
	require.NoError(t, json.Unmarshal(*payload, &msg))
	assert.Equal(t, "Library", msg.BuildingName)
	assert.False(t, msg.Timestamp.IsZero())
	mockClient.AssertExpectations(t)
}

// TestMQTTWaypointPublisher_PublishError tests that publish failures are swallowed.
func TestMQTTWaypointPublisher_PublishError(t *testing.T) {
	mockClient := new(mocks.MockMQTTClient)
	capturePublish(mockClient, "nav/waypoints", errors.New("broker unavailable"))

	w := services.NewMQTTWaypointPublisher("nav/waypoints", 1, mockClient, zerolog.Nop())

	assert.NotPanics(t, func() { w.InitializeWaypoints("Library") })
	mockClient.AssertExpectations(t)
}

// TestMQTTNavigationPublisher_StartNavigation tests the GeoJSON location in the navigation message.
func TestMQTTNavigationPublisher_StartNavigation(t *testing.T) {
	mockClient := new(mocks.MockMQTTClient)
	payload := capturePublish(mockClient, "nav/start", nil)

	n := services.NewMQTTNavigationPublisher("nav/start", 1, mockClient, zerolog.Nop())
	n.StartNavigation(models.Destination{
		BuildingName: "Library",
		RoomName:     "Reading Hall",
		Latitude:     "7.359008",
		Longitude:    "125.706665",
		Description:  "Main campus library.",
	})

	var msg struct {
		Destination models.Destination `json:"destination"`
		Location    struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"location"`
	}
	require.NoError(t, json.Unmarshal(*payload, &msg))

	assert.Equal(t, "7.359008", msg.Destination.Latitude)
	assert.Equal(t, "Feature", msg.Location.Type)
	assert.Equal(t, "Point", msg.Location.Geometry.Type)
	assert.Equal(t, []float64{125.706665, 7.359008}, msg.Location.Geometry.Coordinates)
	assert.Equal(t, "Reading Hall", msg.Location.Properties["room_name"])
}

// TestMQTTNavigationPublisher_UnparsableCoordinates tests that the location is omitted for raw text.
func TestMQTTNavigationPublisher_UnparsableCoordinates(t *testing.T) {
	for name, d := range map[string]models.Destination{
		"empty":        {BuildingName: "Gym"},
		"text":         {BuildingName: "Gym", Latitude: "north", Longitude: "east"},
		"out of range": {BuildingName: "Gym", Latitude: "91", Longitude: "0"},
	} {
		t.Run(name, func(t *testing.T) {
			mockClient := new(mocks.MockMQTTClient)
			payload := capturePublish(mockClient, "nav/start", nil)

			services.NewMQTTNavigationPublisher("nav/start", 1, mockClient, zerolog.Nop()).StartNavigation(d)

			var msg map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(*payload, &msg))
			assert.NotContains(t, msg, "location")
			assert.Contains(t, msg, "destination")
		})
	}
}
