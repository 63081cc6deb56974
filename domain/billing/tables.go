package billing

import (
	"regexp"

	"room-stats/domain/booking"
)

// RateTable maps a room and renter class to an hourly rate in dollars.
type RateTable map[booking.Label]map[booking.RenterClass]float64

// Lookup returns the hourly rate for room and class.
func (t RateTable) Lookup(room booking.Label, class booking.RenterClass) (float64, bool) {
	byClass, ok := t[room]
	if !ok {
		return 0, false
	}
	rate, ok := byClass[class]
	return rate, ok
}

func row(nonmember, parttime, fulltime, free float64) map[booking.RenterClass]float64 {
	return map[booking.RenterClass]float64{
		booking.NonMember: nonmember,
		booking.PartTime:  parttime,
		booking.FullTime:  fulltime,
		booking.Free:      free,
	}
}

// DefaultRateTable is the published hourly price list.
func DefaultRateTable() RateTable {
	return RateTable{
		booking.Downtown: row(65, 45, 25, 0),
		booking.Uptown:   row(85, 65, 40, 0),
		booking.Meridian: row(95, 70, 45, 0),
		booking.EastOak:  row(35, 25, 15, 0),
		booking.WestOak:  row(0, 0, 0, 0),

		booking.Gallery:    row(115, 85, 60, 0),
		booking.Broadway:   row(295, 225, 180, 0),
		booking.Atrium:     row(195, 150, 110, 0),
		booking.Jingletown: row(150, 115, 75, 0),

		booking.Meditation: row(0, 0, 0, 0),
		booking.Kitchen:    row(0, 0, 0, 0),
	}
}

// ClassRule assigns a renter class to text matching Pattern.
type ClassRule struct {
	Pattern *regexp.Regexp
	Class   booking.RenterClass
}

func classRule(expr string, class booking.RenterClass) ClassRule {
	return ClassRule{Pattern: regexp.MustCompile("(?i)" + expr), Class: class}
}

// DefaultDescriptionClasses are renter-class keywords looked for in descriptions.
func DefaultDescriptionClasses() []ClassRule {
	return []ClassRule{
		classRule(`Non[ -]?member`, booking.NonMember),
		classRule(`part[ -]?time`, booking.PartTime),
	}
}

// DefaultOrganizations maps organisations and people named in titles to their
// membership level. Earlier entries win.
func DefaultOrganizations() []ClassRule {
	free, ft, pt, nm := booking.Free, booking.FullTime, booking.PartTime, booking.NonMember
	return []ClassRule{
		classRule(`set[ -]?up|konda|km|simka|ashara|Dakara?i|maiki|Mikayla|zakiya|Lisa|calgary|staff|interview|HUB Oak|founders`, free),
		classRule(`Healthy Hub|impact survey|Orientation|Conf call|Mani Niall`, free),
		classRule(`Ayanna Davis`, free),
		classRule(`Co[ -]?Fed`, free),
		classRule(`balle`, ft),
		classRule(`Hylo`, ft),
		classRule(`Black Girls Code|BGC`, ft),
		classRule(`SustainAbility`, ft),
		classRule(`fedor`, pt),
		classRule(`New Mothers.? Circ?le`, pt),
		classRule(`Kapor`, ft),
		classRule(`meri?di?an (?:university|staff)|rob gall`, free),
		classRule(`[IL]v[IL] Analytics`, ft),
		classRule(`Hack The Hood|Social Enterprise Course`, ft),
		classRule(`uptima`, ft),
		classRule(`SELC`, ft),
		classRule(`Amigos de las Americas`, ft),
		classRule(`Fund Good Jobs`, ft),
		classRule(`fertl`, ft),
		classRule(`Gobee`, ft),
		classRule(`Jesse Posner`, ft),
		classRule(`Leola Group`, ft),
		classRule(`feu?ng shui`, ft),
		classRule(`lingonautics`, ft),
		classRule(`oakland chamber`, nm),
		classRule(`Borrego Solar Systems`, nm),
		classRule(`OBI Probiotic Soda`, nm),
		classRule(`Factory Farming Awareness Coalition`, nm),
		classRule(`Brown Sugar Kitchen`, pt),
		classRule(`Margo Prado|Rachel Buddaberg|Rachel Newell|Ruth Stroup|Bruce Rinehart`, pt),
		classRule(`HCEB`, nm),
		classRule(`Joseph Huayllasco|Marianne Manilov|David Meader|Lisa Colvin|Emma Smith`, ft),
		classRule(`Gil Friend|Frieda McAlear`, nm),
		classRule(`Emotional Self[- ]?Defense`, pt),
		classRule(`Beyond Culture of Separation`, ft),
		classRule(`Founding Family`, ft),
		classRule(`U LAB`, free),
		classRule(`natural flow`, free),
		classRule(`breema`, free),
		classRule(`sweet ?bar`, free),
		classRule(`blue bottle`, pt),
		classRule(`Empower You|CompassPoint|WEAD|ZeroDivide|ACORN`, nm),
		classRule(`The Shift`, free),
		classRule(`mastermind`, free),
		classRule(`Radical Listener`, free),
		classRule(`Alameda County Office`, pt),
		classRule(`Spirits? Society`, free),
		classRule(`iho`, free),
		classRule(`work[ -]?trade`, free),
		classRule(`first friday`, free),
		classRule(`youth hub`, free),
		classRule(`event set[ -]?up`, free),
		classRule(`bay bucks`, free),
		classRule(`Sungevity Party`, free),
		classRule(`annual reviews|data meeting`, free),
	}
}

// FlatRate charges a fixed hourly rate to titles matching Pattern.
type FlatRate struct {
	Pattern *regexp.Regexp
	Rate    float64
}

// DefaultFlatRates holds one-off negotiated rates.
func DefaultFlatRates() []FlatRate {
	return []FlatRate{{Pattern: regexp.MustCompile(`(?i)future sound`), Rate: 18}}
}
