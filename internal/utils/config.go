package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/benmeehan/nav-handoff/internal/constants"
	"github.com/benmeehan/nav-handoff/pkg/file"
)

// Hand-off source kinds.
const (
	SourceMQTT = "mqtt"
	SourceFile = "file"
	SourceNone = "none"
)

// Config represents the structure of the configuration file.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`  // debug, info, warn or error
		Pretty bool   `yaml:"pretty"` // Human readable console output instead of JSON
	} `yaml:"log"`

	MQTT struct {
		Broker        string `yaml:"broker"`         // MQTT broker address
		ClientID      string `yaml:"client_id"`      // MQTT client ID, suffixed with a UUID at startup
		CACertificate string `yaml:"ca_certificate"` // Path to the CA certificate, empty disables TLS
		Username      string `yaml:"username"`
		Password      string `yaml:"password"`
	} `yaml:"mqtt"`

	Handoff struct {
		Source      string        `yaml:"source"`       // mqtt, file or none
		TopicPrefix string        `yaml:"topic_prefix"` // Prefix of the host bridge topics
		QOS         int           `yaml:"qos"`          // MQTT QoS level for host bridge messages
		WaitTimeout time.Duration `yaml:"wait_timeout"` // How long to wait for a retained hand-off at startup
		FilePath    string        `yaml:"file_path"`    // Hand-off file used by the file source
		MinVersion  string        `yaml:"min_version"`  // Semver constraint on the hand-off version field
	} `yaml:"handoff"`

	Debug struct {
		UseDebugData bool   `yaml:"use_debug_data"` // Ignore the hand-off and use the debug destination
		BuildingName string `yaml:"building_name"`
		RoomName     string `yaml:"room_name"`
	} `yaml:"debug"`

	Presentation struct {
		DismissDelay time.Duration `yaml:"dismiss_delay"` // How long the destination panel stays visible
	} `yaml:"presentation"`

	Subsystems struct {
		Waypoints  SubsystemConfig `yaml:"waypoints"`
		Navigation SubsystemConfig `yaml:"navigation"`
	} `yaml:"subsystems"`

	MainLoop struct {
		QueueSize int `yaml:"queue_size"`
	} `yaml:"main_loop"`

	Permissions []string `yaml:"permissions"` // Permissions requested at startup
}

// SubsystemConfig configures the MQTT link to an external subsystem.
type SubsystemConfig struct {
	Enabled bool   `yaml:"enabled"`
	Topic   string `yaml:"topic"`
	QOS     int    `yaml:"qos"`
}

// LoadConfig loads the YAML configuration from the specified file, applies defaults
// and validates the result.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	config := newConfig()
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, err
	}

	config.ApplyEnv()
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", filename, err)
	}

	return &config, nil
}

// Environment variables consulted for broker settings left empty in the file.
const (
	EnvMQTTBroker   = "NAV_MQTT_BROKER"
	EnvMQTTUsername = "NAV_MQTT_USERNAME"
	EnvMQTTPassword = "NAV_MQTT_PASSWORD"
)

// ApplyEnv fills empty broker settings from the environment. Values in the file win.
func (c *Config) ApplyEnv() {
	for env, field := range map[string]*string{
		EnvMQTTBroker:   &c.MQTT.Broker,
		EnvMQTTUsername: &c.MQTT.Username,
		EnvMQTTPassword: &c.MQTT.Password,
	} {
		if *field != "" {
			continue
		}
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// newConfig returns the values that only apply when their key is absent from the file.
// An empty debug room is a valid setting and must survive decoding.
func newConfig() Config {
	var c Config
	c.Debug.BuildingName = "Library"
	c.Debug.RoomName = "Reading Hall"
	return c
}

// ApplyDefaults fills in every unset optional value.
func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "nav-receiver"
	}
	if c.Handoff.Source == "" {
		c.Handoff.Source = SourceMQTT
	}
	if c.Handoff.TopicPrefix == "" {
		c.Handoff.TopicPrefix = "campusnav"
	}
	if c.Handoff.FilePath == "" {
		c.Handoff.FilePath = "handoff.json"
	}
	if c.Presentation.DismissDelay <= 0 {
		c.Presentation.DismissDelay = constants.DismissDelay
	}
	if c.MainLoop.QueueSize <= 0 {
		c.MainLoop.QueueSize = 64
	}
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error

	switch c.Handoff.Source {
	case SourceMQTT, SourceFile, SourceNone:
	default:
		errs = append(errs, fmt.Errorf("unknown hand-off source %q", c.Handoff.Source))
	}

	if c.NeedsMQTT() && c.MQTT.Broker == "" {
		errs = append(errs, errors.New("mqtt broker is required"))
	}

	for name, sub := range map[string]SubsystemConfig{
		"waypoints":  c.Subsystems.Waypoints,
		"navigation": c.Subsystems.Navigation,
	} {
		if sub.Enabled && sub.Topic == "" {
			errs = append(errs, fmt.Errorf("subsystem %s is enabled without a topic", name))
		}
	}

	for _, qos := range []int{c.Handoff.QOS, c.Subsystems.Waypoints.QOS, c.Subsystems.Navigation.QOS} {
		if qos < 0 || qos > 2 {
			errs = append(errs, fmt.Errorf("invalid qos %d", qos))
		}
	}

	return errors.Join(errs...)
}

// NeedsMQTT reports whether any configured component talks to the broker.
func (c *Config) NeedsMQTT() bool {
	return c.Handoff.Source == SourceMQTT || c.Subsystems.Waypoints.Enabled || c.Subsystems.Navigation.Enabled
}
