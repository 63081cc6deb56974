package billing

import (
	"regexp"
	"strconv"
	"time"

	lo "github.com/samber/lo"

	"room-stats/domain/booking"
)

// Rule names recorded on each estimate.
const (
	RuleNoCharge      = "no-charge"
	RulePerHour       = "per-hour"
	RuleRateTimes     = "rate-times"
	RuleTimesRate     = "times-rate"
	RuleRenterClass   = "renter-class"
	RuleOrganization  = "organization"
	RuleFlatRate      = "flat-rate"
	RuleDurationRate  = "duration-x-rate"
	RuleExplicitTotal = "explicit-total"
	RuleImplicitTotal = "implicit-total"
	RuleManualFix     = "manual-fix"
)

var (
	noChargeRe      = regexp.MustCompile(`(?i)gratis|no.charge|\$0|no cost|iho[^m]*me?e?ti?n?g`)
	perHourRe       = regexp.MustCompile(`(?i)\$(\d+).{0,3}(?:/|per| ) ?ho?u?r`)
	rateTimesRe     = regexp.MustCompile(`(?i)\$(\d+) x `)
	timesRateRe     = regexp.MustCompile(`(?i) x \$(\d+)`)
	explicitTotalRe = regexp.MustCompile(`(?i)(?:total|charging|charge|price|paid)[^$]*\$(\d+)`)
	implicitTotalRe = regexp.MustCompile(`(?i)\$(\d+)`)
)

// Estimate is the billing outcome for one record.
type Estimate struct {
	Record     booking.Record
	Rate       *float64
	Charge     *float64
	RateRule   string
	ChargeRule string
	Detail     string
}

// Resolved reports whether any rule priced the record.
func (e Estimate) Resolved() bool { return e.Rate != nil || e.Charge != nil }

// Estimator runs the billing waterfall.
type Estimator struct {
	Rates       RateTable
	DescClasses []ClassRule
	Orgs        []ClassRule
	FlatRates   []FlatRate
	Fixes       []Fix
}

// NewEstimator uses the default tables with the given manual fixes.
func NewEstimator(fixes []Fix) *Estimator {
	return &Estimator{
		Rates:       DefaultRateTable(),
		DescClasses: DefaultDescriptionClasses(),
		Orgs:        DefaultOrganizations(),
		FlatRates:   DefaultFlatRates(),
		Fixes:       fixes,
	}
}

// step tries one rule on each pending estimate and returns those it did not resolve.
func step(ests []Estimate, pending []int, fn func(*Estimate) bool) []int {
	return lo.Filter(pending, func(i int, _ int) bool {
		return !fn(&ests[i])
	})
}

func setRate(e *Estimate, rate float64, rule, detail string) bool {
	if e.Rate != nil {
		return true
	}
	e.Rate = &rate
	e.RateRule = rule
	e.Detail = detail
	return true
}

func setCharge(e *Estimate, charge float64, rule string) {
	e.Charge = &charge
	e.ChargeRule = rule
}

func firstAmount(re *regexp.Regexp, s string) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	return v, err == nil
}

func amountRule(re *regexp.Regexp, rule string) func(*Estimate) bool {
	return func(e *Estimate) bool {
		v, ok := firstAmount(re, e.Record.Description)
		return ok && setRate(e, v, rule, "")
	}
}

func (est *Estimator) classRule(cr ClassRule, text func(booking.Record) string, rule string) func(*Estimate) bool {
	return func(e *Estimate) bool {
		if !cr.Pattern.MatchString(text(e.Record)) {
			return false
		}
		rate, ok := est.Rates.Lookup(e.Record.Loc, cr.Class)
		return ok && setRate(e, rate, rule, string(cr.Class))
	}
}

// Run prices every record. Records carrying a Status are passed through
// unpriced. Each rule only sees records that no earlier rule resolved, so a
// rate is never overwritten.
func (est *Estimator) Run(recs []booking.Record) []Estimate {
	ests := lo.Map(recs, func(r booking.Record, _ int) Estimate { return Estimate{Record: r} })
	pending := lo.Filter(lo.Range(len(ests)), func(i int, _ int) bool { return ests[i].Record.Status == "" })

	pending = step(ests, pending, func(e *Estimate) bool {
		return noChargeRe.MatchString(e.Record.Description) && setRate(e, 0, RuleNoCharge, "")
	})
	pending = step(ests, pending, amountRule(perHourRe, RulePerHour))
	pending = step(ests, pending, amountRule(rateTimesRe, RuleRateTimes))
	pending = step(ests, pending, amountRule(timesRateRe, RuleTimesRate))

	// One keyword at a time: an earlier keyword claims its records first.
	for _, cr := range est.DescClasses {
		pending = step(ests, pending, est.classRule(cr, func(r booking.Record) string { return r.Description }, RuleRenterClass))
	}
	for _, cr := range est.Orgs {
		pending = step(ests, pending, est.classRule(cr, func(r booking.Record) string { return r.Title }, RuleOrganization))
	}
	for _, fr := range est.FlatRates {
		pending = step(ests, pending, func(e *Estimate) bool {
			return fr.Pattern.MatchString(e.Record.Title) && setRate(e, fr.Rate, RuleFlatRate, fr.Pattern.String())
		})
	}

	est.chargeFromRate(ests, RuleDurationRate)

	pending = step(ests, pending, func(e *Estimate) bool {
		v, ok := firstAmount(explicitTotalRe, e.Record.Description)
		if ok {
			setCharge(e, v, RuleExplicitTotal)
		}
		return ok
	})
	pending = step(ests, pending, func(e *Estimate) bool {
		v, ok := firstAmount(implicitTotalRe, e.Record.Description)
		if ok {
			setCharge(e, v, RuleImplicitTotal)
		}
		return ok
	})

	step(ests, pending, func(e *Estimate) bool {
		if !e.Record.Loc.IsConfRoom() {
			return false
		}
		lvl, ok := levelFor(est.Fixes, e.Record.Title)
		if !ok {
			return false
		}
		if lvl == LevelDelete {
			e.Record.Status = booking.Closed
			e.Detail = string(lvl)
			return true
		}
		class, _ := lvl.Class()
		rate, ok := est.Rates.Lookup(e.Record.Loc, class)
		return ok && setRate(e, rate, RuleManualFix, string(lvl))
	})

	est.chargeFromRate(ests, RuleDurationRate)
	return ests
}

func (est *Estimator) chargeFromRate(ests []Estimate, rule string) {
	for i := range ests {
		e := &ests[i]
		if e.Rate != nil && e.Charge == nil {
			setCharge(e, *e.Rate*e.Record.Duration, rule)
		}
	}
}

// Charges keeps billable estimates (no Status) starting at or after since.
func Charges(ests []Estimate, since time.Time) []booking.Charge {
	kept := lo.Filter(ests, func(e Estimate, _ int) bool {
		return e.Record.Status == "" && !e.Record.Start.Before(since)
	})
	return lo.Map(kept, func(e Estimate, _ int) booking.Charge {
		r := e.Record
		return booking.Charge{
			ID:          r.ID,
			Start:       r.Start,
			Loc:         r.Loc,
			Duration:    r.Duration,
			Rate:        e.Rate,
			Charge:      e.Charge,
			RateRule:    e.RateRule,
			ChargeRule:  e.ChargeRule,
			Title:       r.Title,
			Description: r.Description,
			Calendar:    r.Calendar,
		}
	})
}

// Unresolved lists billable conference-room records no rule could price.
func Unresolved(ests []Estimate) []booking.Record {
	kept := lo.Filter(ests, func(e Estimate, _ int) bool {
		return e.Record.Status == "" && e.Record.Loc.IsConfRoom() && !e.Resolved()
	})
	return lo.Map(kept, func(e Estimate, _ int) booking.Record { return e.Record })
}

// RuleCounts tallies which rule set each rate or charge.
func RuleCounts(ests []Estimate) map[string]int {
	out := map[string]int{}
	for _, e := range ests {
		if e.RateRule != "" {
			out[e.RateRule]++
		}
		if e.ChargeRule != "" && e.ChargeRule != RuleDurationRate {
			out[e.ChargeRule]++
		}
	}
	return out
}
