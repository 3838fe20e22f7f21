package service

import (
	"fmt"
	"strings"

	"gatepass/internal/badge/models"
	dErrors "gatepass/pkg/domain-errors"
)

// requiredFields lists what each variant must carry at creation time. CIN is
// required everywhere; the milestone and window fields differ per variant.
func missingFields(b models.Badge) []string {
	var missing []string
	need := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	needDate := func(name string, value bool) {
		if !value {
			missing = append(missing, name)
		}
	}

	need("badge_num", b.BadgeNum)
	need("full_name", b.FullName)
	need("company", b.Company)
	need("cin", b.CIN)

	switch b.Kind {
	case models.KindPermanent:
		need("validity_duration", string(b.ValidityDuration))
		needDate("request_date", b.RequestDate != nil)
	case models.KindTemporary:
		needDate("request_date", b.RequestDate != nil)
		needDate("validity_start", b.ValidityStart != nil)
		needDate("validity_end", b.ValidityEnd != nil)
	case models.KindRecovered:
		needDate("recovery_date", b.RecoveryDate != nil)
		need("recovery_type", string(b.RecoveryType))
	}
	return missing
}

func validateForCreate(b models.Badge) error {
	switch b.Kind {
	case models.KindPermanent, models.KindTemporary, models.KindRecovered:
	default:
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown badge type %q", b.Kind))
	}
	if missing := missingFields(b); len(missing) > 0 {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	return nil
}
