package model

import "time"

type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingYearly  BillingPeriod = "yearly"
)

func ParseBillingPeriod(s string) (BillingPeriod, bool) {
	switch BillingPeriod(s) {
	case BillingMonthly, BillingYearly:
		return BillingPeriod(s), true
	case "":
		return BillingMonthly, true
	}
	return "", false
}

// Plan is a purchasable subscription tier. Prices are whole rupees per month.
type Plan struct {
	ID           Tier   `json:"id"`
	Name         string `json:"name"`
	MonthlyPrice int64  `json:"monthlyPrice"`
}

var Plans = map[Tier]Plan{
	TierFree:    {ID: TierFree, Name: "Free", MonthlyPrice: 0},
	TierBasic:   {ID: TierBasic, Name: "Basic", MonthlyPrice: 799},
	TierPremium: {ID: TierPremium, Name: "Premium", MonthlyPrice: 1499},
}

// Price returns the amount due for one billing period. Yearly billing gets
// a 20% discount on twelve months.
func (p Plan) Price(period BillingPeriod) int64 {
	if period == BillingYearly {
		return p.MonthlyPrice * 12 * 8 / 10
	}
	return p.MonthlyPrice
}

// Term is how long one payment extends a subscription.
func (p BillingPeriod) Term() time.Duration {
	if p == BillingYearly {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

type Order struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt,omitempty"`
	Status     string            `json:"status"`
	Notes      map[string]string `json:"notes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
