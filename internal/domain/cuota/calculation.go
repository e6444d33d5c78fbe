package cuota

import (
	"family-dues-go/internal/domain/family"
	"family-dues-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// ActiveBeneficiaries counts the users that pay dues.
func ActiveBeneficiaries(users []user.User) int {
	count := 0
	for _, u := range users {
		if u.IsActiveBeneficiary() {
			count++
		}
	}
	return count
}

// ExpectedDue is the amount a family owes for one month. The family must have
// its users and balance loaded. Resolution order: no active beneficiaries
// owe nothing, then the family's custom amount, then the override for its
// exact sibling count, then the policy's base value.
func ExpectedDue(f family.Family, policy *Cuota, overrides []SiblingOverride) decimal.Decimal {
	count := ActiveBeneficiaries(f.Users)
	if count == 0 {
		return decimal.Zero
	}
	if f.Balance != nil && f.Balance.IsCustomCuota {
		return f.Balance.CustomBalance
	}
	for _, override := range overrides {
		if override.Cantidad == count {
			return override.Valor
		}
	}
	if policy == nil {
		return decimal.Zero
	}
	return policy.Value
}
