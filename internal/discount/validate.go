package discount

import (
	"fmt"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level errors for 400 responses.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the base fields and that exactly the variant payload
// matching Type is present and well-formed.
func (d *Discount) Validate() error {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	if d.Name == "" {
		add("name", "required")
	}
	if d.Status != "" && d.Status != StatusActive && d.Status != StatusInactive {
		add("status", "must be active or inactive")
	}
	if !d.AllBranches && len(d.BranchIDs) == 0 {
		add("branchIds", "required unless allBranches is set")
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		add("endDate", "must not be before startDate")
	}

	switch d.Type {
	case TypePercentage:
		if d.Percentage == nil {
			add("percentageDeal", "required for type percentageDeal")
			break
		}
		if d.Percentage.Percentage <= 0 || d.Percentage.Percentage > 100 {
			add("percentageDeal.percentage", "must be between 0 and 100")
		}

	case TypeBank:
		if d.Bank == nil {
			add("bankDiscount", "required for type bankDiscount")
			break
		}
		if d.Bank.Percentage <= 0 || d.Bank.Percentage > 100 {
			add("bankDiscount.percentage", "must be between 0 and 100")
		}
		if len(d.Bank.Cards) == 0 {
			add("bankDiscount.cards", "at least one bank card required")
		}

	case TypeFixedPrice:
		if d.FixedPrice == nil || len(d.FixedPrice.Options) == 0 {
			add("fixedPriceDeal.options", "at least one price option required")
			break
		}
		for i, opt := range d.FixedPrice.Options {
			if opt.ID == "" {
				add(fmt.Sprintf("fixedPriceDeal.options[%d].id", i), "required")
			}
			if opt.Price <= 0 {
				add(fmt.Sprintf("fixedPriceDeal.options[%d].price", i), "must be positive")
			}
		}

	case TypeLoyalty:
		if d.Loyalty == nil {
			add("loyalty", "required for type loyalty")
			break
		}
		switch d.Loyalty.LoyaltyType {
		case LoyaltyPercentage:
			if len(d.Loyalty.PercentTiers) == 0 {
				add("loyalty.percentTiers", "at least one tier required")
			}
		case LoyaltyFixed:
			if len(d.Loyalty.PriceTiers) == 0 {
				add("loyalty.priceTiers", "at least one tier required")
			}
		case LoyaltyFixedReviews:
			if len(d.Loyalty.VisitTiers) == 0 {
				add("loyalty.visitRanges", "at least one tier required")
			}
		case LoyaltyReferral:
			if d.Loyalty.Referral == nil {
				add("loyalty.referral", "required for loyaltyType referral")
			} else if d.Loyalty.Referral.DiscountType != "percentage" && d.Loyalty.Referral.DiscountType != "fixed" {
				add("loyalty.referral.discountType", "must be percentage or fixed")
			}
		default:
			add("loyalty.loyaltyType", "unknown loyalty type")
		}

	default:
		add("type", "unknown discount type")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
