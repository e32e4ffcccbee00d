package models

import (
	"time"

	"github.com/paulmach/orb/geojson"
)

// WaypointInit is published to the waypoint builder for a new destination.
type WaypointInit struct {
	BuildingName string    `json:"building_name"`
	Timestamp    time.Time `json:"timestamp"`
}

// NavigationStart is published to the navigation controller for a new destination.
// Location is only set when the raw coordinates parse as numbers.
type NavigationStart struct {
	Destination Destination      `json:"destination"`
	Location    *geojson.Feature `json:"location,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}
