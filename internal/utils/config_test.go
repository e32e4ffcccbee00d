package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benmeehan/nav-handoff/pkg/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  broker: tcp://localhost:1883
`)

	cfg, err := LoadConfig(path, file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, SourceMQTT, cfg.Handoff.Source)
	assert.Equal(t, "campusnav", cfg.Handoff.TopicPrefix)
	assert.Equal(t, "Library", cfg.Debug.BuildingName)
	assert.Equal(t, "Reading Hall", cfg.Debug.RoomName)
	assert.Equal(t, 5*time.Second, cfg.Presentation.DismissDelay)
	assert.Equal(t, 64, cfg.MainLoop.QueueSize)
	assert.False(t, cfg.Debug.UseDebugData)
}

func TestLoadConfig_Full(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  pretty: true
mqtt:
  broker: tcp://broker:1883
  client_id: kiosk
handoff:
  source: file
  file_path: /tmp/extras.json
  wait_timeout: 1500ms
  min_version: ">= 1.0.0"
debug:
  use_debug_data: true
  building_name: Gym
  room_name: Court 2
presentation:
  dismiss_delay: 8s
subsystems:
  waypoints:
    enabled: true
    topic: nav/waypoints
    qos: 1
  navigation:
    enabled: false
permissions: [camera]
`)

	cfg, err := LoadConfig(path, file.NewFileService())
	require.NoError(t, err)

	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "kiosk", cfg.MQTT.ClientID)
	assert.Equal(t, SourceFile, cfg.Handoff.Source)
	assert.Equal(t, 1500*time.Millisecond, cfg.Handoff.WaitTimeout)
	assert.Equal(t, ">= 1.0.0", cfg.Handoff.MinVersion)
	assert.True(t, cfg.Debug.UseDebugData)
	assert.Equal(t, "Gym", cfg.Debug.BuildingName)
	assert.Equal(t, 8*time.Second, cfg.Presentation.DismissDelay)
	assert.Equal(t, "nav/waypoints", cfg.Subsystems.Waypoints.Topic)
	assert.Equal(t, []string{"camera"}, cfg.Permissions)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv(EnvMQTTBroker, "")
	path := writeConfig(t, `
handoff:
  source: carrier-pigeon
subsystems:
  navigation:
    enabled: true
    qos: 3
`)

	_, err := LoadConfig(path, file.NewFileService())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown hand-off source")
	assert.Contains(t, err.Error(), "mqtt broker is required")
	assert.Contains(t, err.Error(), "subsystem navigation is enabled without a topic")
	assert.Contains(t, err.Error(), "invalid qos 3")
}

func TestLoadConfig_DebugWithoutRoom(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  broker: tcp://localhost:1883
debug:
  use_debug_data: true
  building_name: Gym
  room_name: ""
`)

	cfg, err := LoadConfig(path, file.NewFileService())
	require.NoError(t, err)

	assert.True(t, cfg.Debug.UseDebugData)
	assert.Equal(t, "Gym", cfg.Debug.BuildingName)
	assert.Empty(t, cfg.Debug.RoomName)
}

func TestLoadConfig_DebugPartial(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  broker: tcp://localhost:1883
debug:
  use_debug_data: true
`)

	cfg, err := LoadConfig(path, file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, "Library", cfg.Debug.BuildingName)
	assert.Equal(t, "Reading Hall", cfg.Debug.RoomName)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv(EnvMQTTBroker, "tcp://broker.campus:1883")
	t.Setenv(EnvMQTTUsername, "kiosk")
	t.Setenv(EnvMQTTPassword, "secret")

	path := writeConfig(t, `
mqtt:
  username: from-file
`)

	cfg, err := LoadConfig(path, file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, "tcp://broker.campus:1883", cfg.MQTT.Broker)
	assert.Equal(t, "from-file", cfg.MQTT.Username)
	assert.Equal(t, "secret", cfg.MQTT.Password)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), file.NewFileService())
	assert.Error(t, err)
}

func TestConfig_NeedsMQTT(t *testing.T) {
	var cfg Config
	cfg.Handoff.Source = SourceNone
	assert.False(t, cfg.NeedsMQTT())

	cfg.Subsystems.Navigation.Enabled = true
	assert.True(t, cfg.NeedsMQTT())
}
