package discount

import (
	"fmt"
	"math"
)

// Result is what the portal UI renders after running a discount
// against an order amount.
type Result struct {
	OriginalAmount     float64  `json:"originalAmount"`
	DiscountAmount     float64  `json:"discountAmount"`
	FinalAmount        float64  `json:"finalAmount"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	MaxDiscount        *float64 `json:"maxDiscount,omitempty"`
	Description        string   `json:"description"`
}

// Calculate evaluates a discount against an order amount. It returns
// nil for a non-finite or non-positive amount; callers must treat that
// as invalid input. selectedOption picks the price entry of a
// fixedPriceDeal; visitCount feeds the fixed-reviews loyalty variant.
//
// When several tiers qualify and nothing disambiguates them, the most
// generous tier wins. The loyalty day-range variants always use the
// richest tier: the engine never receives days-since-signup, so the
// customer gets the benefit of the doubt. The fixed-reviews variant
// falls back to its highest tier even when no tier qualifies. Both
// behaviors match the shipped portal and are kept pending product
// clarification.
func Calculate(d *Discount, amount float64, selectedOption string, visitCount int) *Result {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil
	}

	res := &Result{
		OriginalAmount: amount,
		DiscountAmount: 0,
		FinalAmount:    amount,
	}

	switch d.Type {
	case TypePercentage:
		if d.Percentage == nil {
			return res
		}
		applyPercentage(res, amount, d.Percentage.Percentage, d.Percentage.MaxAmount,
			fmt.Sprintf("%g%% off", d.Percentage.Percentage))

	case TypeBank:
		if d.Bank == nil {
			return res
		}
		applyPercentage(res, amount, d.Bank.Percentage, d.Bank.MaxAmount,
			fmt.Sprintf("%g%% off with eligible bank cards", d.Bank.Percentage))

	case TypeFixedPrice:
		if d.FixedPrice == nil {
			return res
		}
		applyFixedPrice(res, amount, d.FixedPrice.Options, selectedOption)

	case TypeLoyalty:
		if d.Loyalty == nil {
			return res
		}
		applyLoyalty(res, amount, d.Loyalty, visitCount)
	}

	return res
}

// applyPercentage computes a percentage discount with an optional cap.
func applyPercentage(res *Result, amount, pct float64, max *float64, desc string) {
	discount := amount * pct / 100

	if max != nil && discount > *max {
		discount = *max
		desc = fmt.Sprintf("%s (max Rs %g)", desc, *max)
		res.MaxDiscount = max
	}

	p := pct
	res.DiscountPercentage = &p
	res.DiscountAmount = discount
	res.FinalAmount = amount - discount
	res.Description = desc
}

// applyFixedAmount floors a fixed discount at the bill amount.
func applyFixedAmount(res *Result, amount, fixed float64, desc string) {
	if fixed > amount {
		fixed = amount
		desc = desc + " (limited to bill amount)"
	}
	res.DiscountAmount = fixed
	res.FinalAmount = amount - fixed
	res.Description = desc
}

func applyFixedPrice(res *Result, amount float64, options []PriceOption, selectedOption string) {
	for _, opt := range options {
		if opt.ID != selectedOption {
			continue
		}

		final := opt.Price
		discount := amount - final
		desc := fmt.Sprintf("%s for Rs %g", opt.Name, opt.Price)

		if discount < 0 {
			// no negative discount when the fixed price exceeds the bill
			discount = 0
			final = amount
			desc = desc + " (fixed price exceeds bill amount)"
		}

		res.DiscountAmount = discount
		res.FinalAmount = final
		res.Description = desc
		return
	}
	// absent or unmatched option: result stays at its defaults
}

func applyLoyalty(res *Result, amount float64, l *LoyaltyDiscount, visitCount int) {
	switch l.LoyaltyType {
	case LoyaltyPercentage:
		var best *PercentTier
		for i := range l.PercentTiers {
			if best == nil || l.PercentTiers[i].Percentage > best.Percentage {
				best = &l.PercentTiers[i]
			}
		}
		if best == nil {
			return
		}
		applyPercentage(res, amount, best.Percentage, best.MaxAmount,
			fmt.Sprintf("%g%% loyalty discount", best.Percentage))

	case LoyaltyFixed:
		var best *PriceTier
		for i := range l.PriceTiers {
			if best == nil || l.PriceTiers[i].Price > best.Price {
				best = &l.PriceTiers[i]
			}
		}
		if best == nil {
			return
		}
		applyFixedAmount(res, amount, best.Price,
			fmt.Sprintf("Rs %g loyalty reward", best.Price))

	case LoyaltyFixedReviews:
		best := pickVisitTier(l.VisitTiers, visitCount)
		if best == nil {
			return
		}
		applyFixedAmount(res, amount, best.Price,
			fmt.Sprintf("Rs %g off after %d visits", best.Price, best.Visits))

	case LoyaltyReferral:
		if l.Referral == nil {
			return
		}
		applyReferral(res, amount, l.Referral)
	}
}

// pickVisitTier selects the highest threshold the visit count still
// qualifies for; with no qualifying tier it falls back to the overall
// highest threshold.
func pickVisitTier(tiers []VisitTier, visitCount int) *VisitTier {
	var qualified, highest *VisitTier
	for i := range tiers {
		t := &tiers[i]
		if highest == nil || t.Visits > highest.Visits {
			highest = t
		}
		if visitCount >= t.Visits && (qualified == nil || t.Visits > qualified.Visits) {
			qualified = t
		}
	}
	if qualified != nil {
		return qualified
	}
	return highest
}

// applyReferral applies the referring-user side of the reward pair.
func applyReferral(res *Result, amount float64, r *ReferralReward) {
	if r.DiscountType == "percentage" {
		discount := amount * r.ReferrerValue / 100
		desc := fmt.Sprintf("%g%% referral reward", r.ReferrerValue)

		if r.MaxTotal != nil && discount > *r.MaxTotal {
			discount = *r.MaxTotal
			desc = fmt.Sprintf("%s (max Rs %g)", desc, *r.MaxTotal)
			res.MaxDiscount = r.MaxTotal
		}

		p := r.ReferrerValue
		res.DiscountPercentage = &p
		res.DiscountAmount = discount
		res.FinalAmount = amount - discount
		res.Description = desc
		return
	}

	applyFixedAmount(res, amount, r.ReferrerValue,
		fmt.Sprintf("Rs %g referral reward", r.ReferrerValue))
}
