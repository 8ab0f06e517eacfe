package forecast

// Contractor pay per delivered upgrade when a row carries no delivery cost.
const (
	DefaultSessionDeliveryCost = 125.0
	DefaultBundleDeliveryCost  = 375.0
)

// OnboardingDeliveryDefaults are the per-type contractor costs used for rows
// without their own delivery cost.
type OnboardingDeliveryDefaults struct {
	Session float64 `json:"session"`
	Bundle  float64 `json:"bundle"`
}

// DefaultOnboardingDelivery returns the standard contractor pay.
func DefaultOnboardingDelivery() OnboardingDeliveryDefaults {
	return OnboardingDeliveryDefaults{Session: DefaultSessionDeliveryCost, Bundle: DefaultBundleDeliveryCost}
}

func (d OnboardingDeliveryDefaults) forType(t UpgradeType) float64 {
	if t == UpgradeBundle {
		return d.Bundle
	}
	return d.Session
}

// UnitDeliveryCost returns the row's delivery cost or the default for its type.
func (r OnboardingRow) UnitDeliveryCost(defaults OnboardingDeliveryDefaults) float64 {
	if r.DeliveryCost != nil {
		return *r.DeliveryCost
	}
	return defaults.forType(r.UpgradeType)
}

// OnboardingLine is revenue against contractor delivery cost.
type OnboardingLine struct {
	Revenue      float64 `json:"revenue"`
	DeliveryCost float64 `json:"deliveryCost"`
	Profit       float64 `json:"profit"`
	MarginPct    float64 `json:"marginPct"`
}

func (l *OnboardingLine) add(revenue, cost float64) {
	l.Revenue += revenue
	l.DeliveryCost += cost
	l.Profit = l.Revenue - l.DeliveryCost
	l.MarginPct = marginPct(l.Revenue, l.Profit)
}

// OnboardingSummary breaks onboarding economics down by upgrade type.
type OnboardingSummary struct {
	Session OnboardingLine `json:"session"`
	Bundle  OnboardingLine `json:"bundle"`
	Overall OnboardingLine `json:"overall"`
}

// SummarizeOnboarding computes revenue, delivery cost, profit and margin for
// the onboarding rows. It is a display summary; forecast revenue does not
// subtract delivery cost.
func SummarizeOnboarding(rows []OnboardingRow, defaults OnboardingDeliveryDefaults) OnboardingSummary {
	var s OnboardingSummary
	for _, r := range rows {
		revenue := r.Price * r.Customers
		cost := r.UnitDeliveryCost(defaults) * r.Customers
		if r.UpgradeType == UpgradeBundle {
			s.Bundle.add(revenue, cost)
		} else {
			s.Session.add(revenue, cost)
		}
		s.Overall.add(revenue, cost)
	}
	return s
}
