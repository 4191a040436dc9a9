package discount

import "time"

// --------------------------------------------------
// Discriminators
// --------------------------------------------------

type Type string

const (
	TypePercentage Type = "percentageDeal"
	TypeBank       Type = "bankDiscount"
	TypeFixedPrice Type = "fixedPriceDeal"
	TypeLoyalty    Type = "loyalty"
)

type LoyaltyType string

const (
	LoyaltyPercentage   LoyaltyType = "percentage"
	LoyaltyFixed        LoyaltyType = "fixed"
	LoyaltyFixedReviews LoyaltyType = "fixed-reviews"
	LoyaltyReferral     LoyaltyType = "referral"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// --------------------------------------------------
// Discount (tagged union, discriminated by Type)
// --------------------------------------------------

// Discount carries the base fields common to every variant plus
// exactly one variant payload matching Type (see Validate).
type Discount struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`

	AllBranches bool     `json:"allBranches"`
	BranchIDs   []string `json:"branchIds,omitempty"`

	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	StartTime  string     `json:"startTime,omitempty"` // "HH:MM"
	EndTime    string     `json:"endTime,omitempty"`
	DaysOfWeek []string   `json:"daysOfWeek,omitempty"`

	ImageURL string `json:"imageUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Type       Type             `json:"type"`
	Percentage *PercentageDeal  `json:"percentageDeal,omitempty"`
	Bank       *BankDeal        `json:"bankDiscount,omitempty"`
	FixedPrice *FixedPriceDeal  `json:"fixedPriceDeal,omitempty"`
	Loyalty    *LoyaltyDiscount `json:"loyalty,omitempty"`
}

// PercentageDeal is a flat percentage off the bill.
type PercentageDeal struct {
	Percentage float64  `json:"percentage"`
	MaxAmount  *float64 `json:"maxAmount,omitempty"`
}

// BankDeal is a percentage off tied to eligible bank cards.
type BankDeal struct {
	Percentage float64    `json:"percentage"`
	MaxAmount  *float64   `json:"maxAmount,omitempty"`
	Cards      []BankCard `json:"cards"`
}

type BankCard struct {
	Bank     string `json:"bank"`
	CardType string `json:"cardType"` // credit | debit
}

// FixedPriceDeal substitutes a fixed menu price for the bill.
type FixedPriceDeal struct {
	Options []PriceOption `json:"options"`
}

type PriceOption struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// LoyaltyDiscount is sub-discriminated by LoyaltyType.
type LoyaltyDiscount struct {
	LoyaltyType  LoyaltyType     `json:"loyaltyType"`
	PercentTiers []PercentTier   `json:"percentTiers,omitempty"` // loyaltyType=percentage
	PriceTiers   []PriceTier     `json:"priceTiers,omitempty"`   // loyaltyType=fixed
	VisitTiers   []VisitTier     `json:"visitRanges,omitempty"`  // loyaltyType=fixed-reviews
	Referral     *ReferralReward `json:"referral,omitempty"`     // loyaltyType=referral
}

// PercentTier maps a days-since-signup range to a percentage reward.
type PercentTier struct {
	FromDays   int      `json:"fromDays"`
	ToDays     int      `json:"toDays"`
	Percentage float64  `json:"percentage"`
	MaxAmount  *float64 `json:"maxAmount,omitempty"`
}

// PriceTier maps a days-since-signup range to a fixed-amount reward.
type PriceTier struct {
	FromDays int     `json:"fromDays"`
	ToDays   int     `json:"toDays"`
	Price    float64 `json:"price"`
}

// VisitTier maps a visit-count threshold to a fixed-amount reward.
type VisitTier struct {
	Visits int     `json:"visits"`
	Price  float64 `json:"price"`
}

// ReferralReward rewards both sides of a referral; the calculation
// engine applies the referrer side only.
type ReferralReward struct {
	DiscountType  string   `json:"discountType"` // percentage | fixed
	ReferrerValue float64  `json:"referrerValue"`
	ReferredValue float64  `json:"referredValue"`
	MaxTotal      *float64 `json:"maxTotal,omitempty"`
}
