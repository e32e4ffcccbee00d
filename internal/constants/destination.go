package constants

import "time"

// Fallback destination used when no hand-off can be read.
const (
	DefaultBuildingName = "Unknown Building"
	DefaultRoomName     = ""
	DefaultLatitude     = "0"
	DefaultLongitude    = "0"
	DefaultDescription  = "Default navigation destination."
)

// Fixed location used for the debug destination; building and room come from config.
const (
	DebugLatitude    = "7.359008"
	DebugLongitude   = "125.706665"
	DebugDescription = "Main campus library with study areas and archives."
)

// DismissDelay is how long the destination panel stays visible when not configured.
const DismissDelay = 5 * time.Second
