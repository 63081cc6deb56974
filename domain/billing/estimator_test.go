package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-stats/domain/booking"
)

var t0 = time.Date(2015, 4, 1, 18, 0, 0, 0, time.UTC)

func rec(id, title, desc string, loc booking.Label, hours float64) booking.Record {
	return booking.Record{
		Event: booking.Event{
			ID:          id,
			Title:       title,
			Description: desc,
			Start:       t0,
			End:         t0.Add(time.Duration(hours * float64(time.Hour))),
		},
		Duration: hours,
		Loc:      loc,
	}
}

func byID(ests []Estimate) map[string]Estimate {
	out := map[string]Estimate{}
	for _, e := range ests {
		out[e.Record.ID] = e
	}
	return out
}

func TestWaterfallRules(t *testing.T) {
	recs := []booking.Record{
		rec("free", "Private dinner", "gratis for partners", booking.Uptown, 2),
		rec("hourly", "Private dinner", "agreed $40/hr", booking.Uptown, 2),
		rec("ratex", "Private dinner", "$30 x 3 hours", booking.Uptown, 3),
		rec("xrate", "Private dinner", "3 hours x $25", booking.Uptown, 3),
		rec("nonmember", "Private dinner", "Non-member booking", booking.Uptown, 2),
		rec("nonmember-noloc", "Private dinner", "nonmember booking", "", 2),
		rec("org", "Hylo meetup", "", booking.Downtown, 1.5),
		rec("flat", "Future Sound rehearsal", "", booking.Gallery, 4),
		rec("total", "Private dinner", "Total paid: $120", booking.Uptown, 2),
		rec("implicit", "Private dinner", "$75 deposit", booking.Uptown, 2),
		rec("nothing", "Private dinner", "", booking.Uptown, 2),
	}
	ests := byID(NewEstimator(nil).Run(recs))

	cases := []struct {
		id         string
		rate       *float64
		charge     *float64
		rateRule   string
		chargeRule string
	}{
		{"free", ptr(0), ptr(0), RuleNoCharge, RuleDurationRate},
		{"hourly", ptr(40), ptr(80), RulePerHour, RuleDurationRate},
		{"ratex", ptr(30), ptr(90), RuleRateTimes, RuleDurationRate},
		{"xrate", ptr(25), ptr(75), RuleTimesRate, RuleDurationRate},
		{"nonmember", ptr(85), ptr(170), RuleRenterClass, RuleDurationRate},
		{"nonmember-noloc", nil, nil, "", ""},
		{"org", ptr(25), ptr(37.5), RuleOrganization, RuleDurationRate},
		{"flat", ptr(18), ptr(72), RuleFlatRate, RuleDurationRate},
		{"total", nil, ptr(120), "", RuleExplicitTotal},
		{"implicit", nil, ptr(75), "", RuleImplicitTotal},
		{"nothing", nil, nil, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			e, ok := ests[tc.id]
			require.True(t, ok)
			assert.Equal(t, tc.rate, e.Rate)
			assert.Equal(t, tc.charge, e.Charge)
			assert.Equal(t, tc.rateRule, e.RateRule)
			assert.Equal(t, tc.chargeRule, e.ChargeRule)
		})
	}
}

func TestWaterfallNeverRewritesRate(t *testing.T) {
	// Matches no-charge, per-hour, renter-class, organization and the fixes file.
	r := rec("many", "Hylo weekly", "no cost this time; normally $50/hr nonmember", booking.Uptown, 2)
	fixes := []Fix{NewFix("weekly", LevelFullTime)}
	ests := NewEstimator(fixes).Run([]booking.Record{r})
	require.Len(t, ests, 1)
	assert.Equal(t, RuleNoCharge, ests[0].RateRule)
	assert.Equal(t, ptr(0), ests[0].Rate)
}

func TestChargeIsDurationTimesRateUnlessTotal(t *testing.T) {
	recs := []booking.Record{
		rec("a", "Private dinner", "$45 per hour", booking.Meridian, 2.25),
		rec("b", "Kapor fellows", "", booking.Meridian, 1.75),
		rec("c", "Private dinner", "charge $200 flat", booking.Meridian, 3),
		rec("d", "Private dinner", "", booking.Uptown, 3),
		rec("e", "SELC board", "part time member", booking.EastOak, 0.5),
	}
	fixes := []Fix{NewFix("private dinner", LevelNonMember)}
	for _, e := range NewEstimator(fixes).Run(recs) {
		if e.Charge == nil {
			continue
		}
		switch e.ChargeRule {
		case RuleExplicitTotal, RuleImplicitTotal:
			assert.Nil(t, e.Rate, e.Record.ID)
		default:
			require.NotNil(t, e.Rate, e.Record.ID)
			assert.InDelta(t, *e.Rate*e.Record.Duration, *e.Charge, 1e-9, e.Record.ID)
		}
	}
}

func TestManualFixes(t *testing.T) {
	recs := []booking.Record{
		rec("override", "Weekly circle", "", booking.Uptown, 2),
		rec("delete", "Test booking", "", booking.Downtown, 1),
		rec("free", "Board prep", "", booking.EastOak, 1),
		rec("floor", "Weekly circle", "", booking.Gallery, 2),
	}
	fixes := []Fix{
		NewFix("circle", LevelPartTime),
		NewFix("weekly", LevelFullTime),
		NewFix("test booking", LevelDelete),
		NewFix("board prep", LevelFree),
	}
	ests := byID(NewEstimator(fixes).Run(recs))

	assert.Equal(t, ptr(40), ests["override"].Rate)
	assert.Equal(t, RuleManualFix, ests["override"].RateRule)
	assert.Equal(t, ptr(80), ests["override"].Charge)

	assert.Equal(t, booking.Closed, ests["delete"].Record.Status)
	assert.Equal(t, ptr(0), ests["free"].Rate)
	// fixes only apply to conference rooms
	assert.Nil(t, ests["floor"].Rate)

	charges := Charges(NewEstimator(fixes).Run(recs), t0)
	ids := make([]string, 0, len(charges))
	for _, c := range charges {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{"override", "free", "floor"}, ids)
}

func TestStatusRecordsAreNotPriced(t *testing.T) {
	r := rec("held", "Private dinner", "$40/hr", booking.Uptown, 2)
	r.Status = booking.Hold
	ests := NewEstimator(nil).Run([]booking.Record{r})
	assert.False(t, ests[0].Resolved())
	assert.Empty(t, Charges(ests, time.Time{}))
	assert.Empty(t, Unresolved(ests))
}

func TestChargesAndUnresolved(t *testing.T) {
	early := rec("early", "Private dinner", "$40/hr", booking.Uptown, 1)
	early.Start = t0.AddDate(-2, 0, 0)
	recs := []booking.Record{
		early,
		rec("open", "Private dinner", "", booking.Uptown, 1),
		rec("floor", "Private dinner", "", booking.Broadway, 1),
	}
	ests := NewEstimator(nil).Run(recs)

	charges := Charges(ests, t0.AddDate(0, -1, 0))
	require.Len(t, charges, 2)
	assert.Equal(t, "open", charges[0].ID)
	assert.Nil(t, charges[0].Rate)

	unresolved := Unresolved(ests)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "open", unresolved[0].ID)

	counts := RuleCounts(ests)
	assert.Equal(t, 1, counts[RulePerHour])
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"free": LevelFree, "Part-Time": LevelPartTime, "full time": LevelFullTime,
		"non-member": LevelNonMember, "DELETE": LevelDelete,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("vip")
	assert.Error(t, err)
}

func TestNewFixFallsBackToLiteral(t *testing.T) {
	f := NewFix("Yoga (beginners", LevelFree)
	assert.True(t, f.Title.MatchString("yoga (beginners) session"))
}

func ptr(v float64) *float64 { return &v }
