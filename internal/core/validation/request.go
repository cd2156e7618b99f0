package validation

import (
	"fmt"

	"github.com/artpar/retinue/internal/core/domain"
)

// =============================================================================
// Request Validation Functions
// =============================================================================

// ValidateFactionParam validates an optional faction query parameter.
// Returns the field name and error message if validation fails.
// The empty string is accepted and means "no filter".
func ValidateFactionParam(value string) (field, message string) {
	f := domain.Faction(value)
	if f.IsCustom() || f.IsValid() {
		return "", ""
	}
	return "faction", fmt.Sprintf("unknown faction %q", value)
}

// CanResolveBatch checks whether a batch of count records fits within limit.
// Returns whether the batch is allowed and a reason if not.
func CanResolveBatch(count, limit int) (allowed bool, reason string) {
	if count > limit {
		return false, fmt.Sprintf("batch holds %d records, limit is %d", count, limit)
	}
	return true, ""
}
