package platform

import (
	"github.com/rs/zerolog"
)

// Permission names a runtime permission the host grants to the receiver.
type Permission string

const (
	PermissionCamera       Permission = "camera"
	PermissionFineLocation Permission = "fine_location"
)

// DefaultPermissions are requested when the configuration names none.
var DefaultPermissions = []Permission{PermissionCamera, PermissionFineLocation}

// PermissionRequester asks the host for runtime permissions.
type PermissionRequester interface {
	HasPermission(p Permission) bool
	RequestPermission(p Permission) error
}

// RequestStartupPermissions requests every permission in perms that has not been granted
// yet. The outcome is not awaited and failures are only logged.
func RequestStartupPermissions(requester PermissionRequester, logger zerolog.Logger, perms ...Permission) {
	if requester == nil {
		logger.Debug().Msg("No permission requester wired, skipping permission requests")
		return
	}

	for _, p := range perms {
		if requester.HasPermission(p) {
			continue
		}
		if err := requester.RequestPermission(p); err != nil {
			logger.Warn().Err(err).Str("permission", string(p)).Msg("Failed to request permission")
			continue
		}
		logger.Debug().Str("permission", string(p)).Msg("Permission requested")
	}
}
