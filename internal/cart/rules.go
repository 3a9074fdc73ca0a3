package cart

import (
	"github.com/telnova/cart-backend/pkg/enums"
	pkgerrors "github.com/telnova/cart-backend/pkg/errors"
	"github.com/telnova/cart-backend/pkg/models"
)

// validatePlanExclusivity enforces that plan items across the cart agree on a
// single plan type. Plan items without a declared plan type do not
// participate in the check.
func validatePlanExclusivity(cart *models.Cart) error {
	seen := map[enums.PlanType]struct{}{}
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ProductType != enums.ProductTypePlan {
			continue
		}
		if item.Metadata == nil || item.Metadata.PlanType == nil {
			continue
		}
		seen[*item.Metadata.PlanType] = struct{}{}
	}

	if len(seen) > 1 {
		planTypes := make([]string, 0, len(seen))
		for planType := range seen {
			planTypes = append(planTypes, planType.String())
		}
		return pkgerrors.New(pkgerrors.CodeIncompatibleItems, "cart cannot mix plan types").
			WithDetails(map[string]any{"plan_types": planTypes})
	}
	return nil
}
