package services

import (
	"github.com/benmeehan/nav-handoff/internal/constants"
	"github.com/benmeehan/nav-handoff/internal/models"
	"github.com/benmeehan/nav-handoff/pkg/handoff"
	"github.com/rs/zerolog"
)

// DebugSettings forces a fixed destination regardless of the hand-off.
type DebugSettings struct {
	Enabled      bool
	BuildingName string
	RoomName     string
}

// DestinationResolver picks the destination from, in order: debug settings, the
// hand-off source, the default destination. Resolve never fails.
type DestinationResolver struct {
	debug  DebugSettings
	source handoff.Source
	logger zerolog.Logger
}

// NewDestinationResolver creates a DestinationResolver. source may be nil, in which
// case the hand-off is treated as absent.
func NewDestinationResolver(debug DebugSettings, source handoff.Source, logger zerolog.Logger) *DestinationResolver {
	return &DestinationResolver{
		debug:  debug,
		source: source,
		logger: logger,
	}
}

// Resolve returns a fresh destination for the current hand-off state.
func (r *DestinationResolver) Resolve() models.Destination {
	if r.debug.Enabled {
		r.logger.Info().
			Str("building", r.debug.BuildingName).
			Str("room", r.debug.RoomName).
			Msg("Using debug destination")
		return DebugDestination(r.debug)
	}

	dest, err := r.readHandoff()
	if err != nil {
		r.logger.Warn().Err(err).Msg("No usable hand-off, using default destination")
		return DefaultDestination()
	}

	r.logger.Info().
		Str("building", dest.BuildingName).
		Str("room", dest.RoomName).
		Msg("Received hand-off destination")
	return dest
}

func (r *DestinationResolver) readHandoff() (models.Destination, error) {
	if r.source == nil || !r.source.HasActiveHandle() {
		return models.Destination{}, handoff.ErrNoActiveHandle
	}

	data, err := r.source.GetDataObject()
	if err != nil {
		return models.Destination{}, err
	}
	if data == nil {
		return models.Destination{}, handoff.ErrNoDataObject
	}

	return models.Destination{
		BuildingName: r.readField(data, handoff.KeyBuildingName),
		RoomName:     r.readField(data, handoff.KeyRoomName),
		Latitude:     r.readField(data, handoff.KeyDestinationLat),
		Longitude:    r.readField(data, handoff.KeyDestinationLng),
		Description:  r.readField(data, handoff.KeyBuildingDescription),
	}, nil
}

// readField degrades a failed read to an empty value for that field only.
func (r *DestinationResolver) readField(data handoff.DataObject, key string) string {
	value, err := data.ReadField(key)
	if err != nil {
		r.logger.Debug().Err(err).Str("key", key).Msg("Hand-off field unavailable")
		return ""
	}
	return value
}

// DefaultDestination is used when no hand-off can be read.
func DefaultDestination() models.Destination {
	return models.Destination{
		BuildingName: constants.DefaultBuildingName,
		RoomName:     constants.DefaultRoomName,
		Latitude:     constants.DefaultLatitude,
		Longitude:    constants.DefaultLongitude,
		Description:  constants.DefaultDescription,
	}
}

// DebugDestination is the fixed destination used in debug mode.
func DebugDestination(debug DebugSettings) models.Destination {
	return models.Destination{
		BuildingName: debug.BuildingName,
		RoomName:     debug.RoomName,
		Latitude:     constants.DebugLatitude,
		Longitude:    constants.DebugLongitude,
		Description:  constants.DebugDescription,
	}
}
