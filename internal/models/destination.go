package models

// Destination is the navigation target handed over by the companion app. Coordinates
// are kept as the raw text received.
type Destination struct {
	BuildingName string `json:"building_name" yaml:"building_name"`
	RoomName     string `json:"room_name" yaml:"room_name"`
	Latitude     string `json:"destination_lat" yaml:"destination_lat"`
	Longitude    string `json:"destination_lng" yaml:"destination_lng"`
	Description  string `json:"building_description" yaml:"building_description"`
}

// HasRoom reports whether the destination names a specific room.
func (d Destination) HasRoom() bool {
	return d.RoomName != ""
}
