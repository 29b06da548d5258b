package engine

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/types"
)

func msgActivated(id string) string {
	return fmt.Sprintf("Mod '%s' activated", id)
}

func msgAlreadyActive(id string) string {
	return fmt.Sprintf("Mod '%s' is already active", id)
}

func msgDeactivated(id string) string {
	return fmt.Sprintf("Mod '%s' deactivated", id)
}

func msgSetActivated(n int) string {
	return fmt.Sprintf("Activated %d mod(s)", n)
}

func msgSetPartial(activated, total int, failed []types.ModFailure) string {
	return fmt.Sprintf("Activated %d of %d mods. Failed: %s", activated, total, describeFailures(failed))
}

func msgSetFailed(failed []types.ModFailure) string {
	return fmt.Sprintf("No mods activated. Failed: %s. Check paths and permissions", describeFailures(failed))
}

// describeFailures renders "A (source not found), B (permission denied)"
func describeFailures(failed []types.ModFailure) string {
	parts := make([]string, 0, len(failed))
	for _, f := range failed {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.ID, failureReason(f)))
	}
	return strings.Join(parts, ", ")
}

func failureReason(f types.ModFailure) string {
	switch f.Code {
	case errors.ErrModNotFound, errors.ErrSourceNotFound:
		return "source not found"
	case errors.ErrSourceNotDirectory:
		return "source is not a folder"
	case errors.ErrPermissionDenied:
		return "permission denied"
	case errors.ErrInvalidInput:
		return "invalid id"
	}
	return "link creation failed: " + f.Reason
}
