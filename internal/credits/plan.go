package credits

import "fmt"

// Plan is a subscription tier. The set is closed: anything outside it is
// rejected with ErrInvalidPlan at every boundary.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanStarter  Plan = "starter"
	PlanBuilder  Plan = "builder"
	PlanOperator Plan = "operator"
)

// Unlimited marks a plan with no daily cap.
const Unlimited = -1

// planTable maps each tier to its daily credit allotment.
var planTable = map[Plan]int{
	PlanFree:     10,
	PlanStarter:  100,
	PlanBuilder:  250,
	PlanOperator: Unlimited,
}

// ParsePlan validates s against the closed tier enumeration.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if _, ok := planTable[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlan, s)
	}
	return p, nil
}

// Valid reports whether p is one of the known tiers.
func (p Plan) Valid() bool {
	_, ok := planTable[p]
	return ok
}

// DailyAllotment returns the tier's daily credit allotment,
// or Unlimited for tiers with no cap.
func (p Plan) DailyAllotment() int {
	n, ok := planTable[p]
	if !ok {
		// Unknown plans are treated as free-tier defensively; writes
		// reject them via ParsePlan before they ever reach storage.
		return planTable[PlanFree]
	}
	return n
}

// IsUnlimited reports whether the tier has no daily cap.
func (p Plan) IsUnlimited() bool {
	return p.DailyAllotment() == Unlimited
}
