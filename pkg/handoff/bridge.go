package handoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	pkgmqtt "github.com/benmeehan/nav-handoff/pkg/mqtt"
	"github.com/benmeehan/nav-handoff/pkg/platform"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

// PermissionRequest is published when the receiver asks the host for a permission.
type PermissionRequest struct {
	RequestID  string    `json:"request_id"`
	Permission string    `json:"permission"`
	Timestamp  time.Time `json:"timestamp"`
}

// PermissionStatus is published by the host whenever a permission changes.
type PermissionStatus struct {
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

// FinishRequest asks the host to end the session and take control back.
type FinishRequest struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HostBridge talks to the host app over MQTT. It feeds received hand-offs into a Store,
// relays permission requests and signals the end of a session.
//
// Topics, relative to the configured prefix:
//
//	handoff/extras/<session>       retained JSON extras, empty payload clears the session
//	handoff/permissions/status     PermissionStatus from the host
//	handoff/permissions/request    PermissionRequest to the host
//	handoff/finish                 FinishRequest to the host
//
// The broker replays retained sessions in no particular order at subscribe time. Hosts
// should clear a finished session with an empty retained payload, and may set issued_at
// so that an uncleared older session never replaces a newer one.
type HostBridge struct {
	client      pkgmqtt.MQTTClient
	store       *Store
	prefix      string
	qos         int
	waitTimeout time.Duration
	logger      zerolog.Logger
	granted     cmap.ConcurrentMap[string, bool]

	mu        sync.Mutex
	listener  func(sessionID string)
	ready     chan struct{}
	readyOnce sync.Once
	running   bool
}

// NewHostBridge creates a HostBridge. waitTimeout bounds how long Start waits for a
// retained hand-off before returning.
func NewHostBridge(client pkgmqtt.MQTTClient, store *Store, prefix string, qos int,
	waitTimeout time.Duration, logger zerolog.Logger) *HostBridge {
	return &HostBridge{
		client:      client,
		store:       store,
		prefix:      strings.TrimSuffix(prefix, "/"),
		qos:         qos,
		waitTimeout: waitTimeout,
		logger:      logger,
		granted:     cmap.New[bool](),
		ready:       make(chan struct{}),
	}
}

func (b *HostBridge) extrasTopic() string  { return b.prefix + "/handoff/extras/+" }
func (b *HostBridge) statusTopic() string  { return b.prefix + "/handoff/permissions/status" }
func (b *HostBridge) requestTopic() string { return b.prefix + "/handoff/permissions/request" }
func (b *HostBridge) finishTopic() string  { return b.prefix + "/handoff/finish" }

// SetHandoffListener registers fn to be called after every received hand-off. fn runs
// on the MQTT client's goroutine.
func (b *HostBridge) SetHandoffListener(fn func(sessionID string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listener = fn
}

// Start subscribes to the host topics and waits up to waitTimeout for a retained hand-off.
func (b *HostBridge) Start() error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		b.logger.Warn().Msg("HostBridge is already running")
		return errors.New("host bridge is already running")
	}
	b.mu.Unlock()

	if err := b.subscribe(b.statusTopic(), b.handlePermissionStatus); err != nil {
		return err
	}
	if err := b.subscribe(b.extrasTopic(), b.handleExtras); err != nil {
		return err
	}

	b.mu.Lock()
	b.running = true
	b.mu.Unlock()

	b.logger.Info().Str("topic", b.extrasTopic()).Msg("HostBridge started")

	if b.waitTimeout <= 0 {
		return nil
	}

	select {
	case <-b.ready:
		b.logger.Info().Str("session", b.store.ActiveSession()).Msg("Hand-off received")
	case <-time.After(b.waitTimeout):
		b.logger.Warn().Dur("wait_timeout", b.waitTimeout).Msg("No hand-off received before timeout")
	}
	return nil
}

// Stop unsubscribes from the host topics.
func (b *HostBridge) Stop() error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		b.logger.Warn().Msg("HostBridge is not running")
		return errors.New("host bridge is not running")
	}
	b.mu.Unlock()

	// Handlers take b.mu, so the lock is not held while waiting on the broker.
	token := b.client.Unsubscribe(b.extrasTopic(), b.statusTopic())
	token.Wait()
	if err := token.Error(); err != nil {
		b.logger.Error().Err(err).Msg("Failed to unsubscribe host topics")
		return err
	}

	b.mu.Lock()
	b.running = false
	b.mu.Unlock()
	b.logger.Info().Msg("HostBridge stopped")
	return nil
}

func (b *HostBridge) subscribe(topic string, handler mqtt.MessageHandler) error {
	token := b.client.Subscribe(topic, byte(b.qos), handler)
	token.Wait()
	if err := token.Error(); err != nil {
		b.logger.Error().Err(err).Str("topic", topic).Msg("Failed to subscribe")
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

func (b *HostBridge) handleExtras(_ mqtt.Client, msg mqtt.Message) {
	topic := msg.Topic()
	sessionID := topic[strings.LastIndex(topic, "/")+1:]
	if sessionID == "" {
		b.logger.Warn().Str("topic", topic).Msg("Hand-off without session, ignoring")
		return
	}

	payload := msg.Payload()
	if len(payload) == 0 {
		b.store.Remove(sessionID)
		b.logger.Info().Str("session", sessionID).Msg("Hand-off cleared by host")
		return
	}

	var (
		extras    Extras
		activated bool
	)
	if err := json.Unmarshal(payload, &extras); err != nil {
		b.logger.Error().Err(err).Str("session", sessionID).Msg("Failed to decode hand-off extras")
		activated = b.store.PutError(sessionID, fmt.Errorf("decode hand-off extras: %w", err))
	} else {
		activated = b.store.Put(sessionID, extras)
	}

	b.readyOnce.Do(func() { close(b.ready) })

	if !activated {
		b.logger.Info().
			Str("session", sessionID).
			Str("active", b.store.ActiveSession()).
			Msg("Older hand-off received, keeping the active session")
		return
	}

	b.mu.Lock()
	listener := b.listener
	b.mu.Unlock()
	if listener != nil {
		listener(sessionID)
	}
}

func (b *HostBridge) handlePermissionStatus(_ mqtt.Client, msg mqtt.Message) {
	var status PermissionStatus
	if err := json.Unmarshal(msg.Payload(), &status); err != nil {
		b.logger.Error().Err(err).Msg("Failed to decode permission status")
		return
	}
	if status.Permission == "" {
		return
	}

	b.granted.Set(status.Permission, status.Granted)
	b.logger.Debug().Str("permission", status.Permission).Bool("granted", status.Granted).Msg("Permission status updated")
}

// HasPermission reports whether the host last reported p as granted.
func (b *HostBridge) HasPermission(p platform.Permission) bool {
	granted, ok := b.granted.Get(string(p))
	return ok && granted
}

// RequestPermission asks the host for p without waiting for the user's decision.
func (b *HostBridge) RequestPermission(p platform.Permission) error {
	return pkgmqtt.PublishJSON(b.client, b.requestTopic(), byte(b.qos), false, PermissionRequest{
		RequestID:  uuid.New().String(),
		Permission: string(p),
		Timestamp:  time.Now(),
	})
}

// RequestReturnToHost asks the host to finish the active session.
func (b *HostBridge) RequestReturnToHost() error {
	return pkgmqtt.PublishJSON(b.client, b.finishTopic(), byte(b.qos), false, FinishRequest{
		SessionID: b.store.ActiveSession(),
		Timestamp: time.Now(),
	})
}
