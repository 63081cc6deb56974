package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Label is a room or status tag attached to a calendar event.
type Label string

const (
	Broadway   Label = "BROADWAY"
	Gallery    Label = "GALLERY"
	Atrium     Label = "ATRIUM"
	Jingletown Label = "JINGLETOWN"
	Entire     Label = "ENTIRE"

	Uptown   Label = "UPTOWN"
	Downtown Label = "DOWNTOWN"
	EastOak  Label = "EAST_OAK"
	WestOak  Label = "WEST_OAK"
	Meridian Label = "MERIDIAN"

	Meditation Label = "MEDITATION"
	Corner     Label = "CORNER"
	Kitchen    Label = "KITCHEN"

	Hold   Label = "HOLD"
	Closed Label = "CLOSED"
)

var (
	FloorSpace = []Label{Broadway, Gallery, Atrium, Jingletown, Entire}
	ConfRooms  = []Label{Uptown, Downtown, EastOak, WestOak, Meridian}
	OtherSpace = []Label{Meditation, Corner, Kitchen}
	Statuses   = []Label{Hold, Closed}
)

// RoomLabels returns every room label in reshape precedence order.
func RoomLabels() []Label {
	out := make([]Label, 0, len(FloorSpace)+len(ConfRooms)+len(OtherSpace))
	out = append(out, FloorSpace...)
	out = append(out, ConfRooms...)
	return append(out, OtherSpace...)
}

func (l Label) IsStatus() bool { return contains(Statuses, l) }

func (l Label) IsRoom() bool { return contains(RoomLabels(), l) }

func (l Label) IsConfRoom() bool { return contains(ConfRooms, l) }

func (l Label) String() string { return string(l) }

// ParseLabel accepts a label name in any case. Empty input yields ("", true).
func ParseLabel(s string) (Label, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	l := Label(s)
	if l.IsRoom() || l.IsStatus() {
		return l, true
	}
	return "", false
}

// ParseLabels parses a ";"-separated label list, dropping unknown names.
func ParseLabels(s string) []Label {
	var out []Label
	for _, part := range strings.Split(s, ";") {
		if l, ok := ParseLabel(part); ok && l != "" {
			out = append(out, l)
		}
	}
	return out
}

// JoinLabels is the inverse of ParseLabels.
func JoinLabels(ls []Label) string {
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = string(l)
	}
	return strings.Join(parts, ";")
}

func contains(ls []Label, l Label) bool {
	for _, x := range ls {
		if x == l {
			return true
		}
	}
	return false
}

// RenterClass selects a column of the rate table.
type RenterClass string

const (
	NonMember RenterClass = "nonmember"
	PartTime  RenterClass = "parttime"
	FullTime  RenterClass = "fulltime"
	Free      RenterClass = "free"
)

// Event is one calendar entry as exported from the calendar.
type Event struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	Where       string
	Description string
	Calendar    string
	CreatedBy   string
}

// Hours is the event length in hours.
func (e Event) Hours() float64 { return e.End.Sub(e.Start).Hours() }

var idNamespace = uuid.MustParse("5b0c2f0e-3f7e-4c1a-9d7b-2a1e0f6c8d41")

// EventID derives a stable identifier so reruns over the same snapshot produce
// the same keys in every derived file.
func EventID(calendar, title string, start, end time.Time) string {
	key := strings.Join([]string{calendar, title, FormatTime(start), FormatTime(end)}, "\x1f")
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// Record is an event after classification.
type Record struct {
	Event
	Duration   float64
	Rooms      []Label
	Statuses   []Label
	Loc        Label
	Status     Label
	Fuzzy      Label
	FuzzyScore int
}

// Conflict reports whether more than one label competed for Loc or Status.
func (r Record) Conflict() bool { return len(r.Rooms) > 1 || len(r.Statuses) > 1 }

// Charge is a billable record with its estimated rate and total.
type Charge struct {
	ID          string
	Start       time.Time
	Loc         Label
	Duration    float64
	Rate        *float64
	Charge      *float64
	RateRule    string
	ChargeRule  string
	Title       string
	Description string
	Calendar    string
}
