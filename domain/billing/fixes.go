package billing

import (
	"fmt"
	"regexp"
	"strings"

	"room-stats/domain/booking"
)

// Level is a membership level from the manual fixes file.
type Level string

const (
	LevelFree      Level = "free"
	LevelPartTime  Level = "part-time"
	LevelFullTime  Level = "full-time"
	LevelNonMember Level = "non-member"
	LevelDelete    Level = "delete"
)

// ParseLevel accepts the spellings found in the hand-maintained fixes file.
func ParseLevel(s string) (Level, error) {
	key := strings.NewReplacer("-", "", " ", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "free":
		return LevelFree, nil
	case "parttime":
		return LevelPartTime, nil
	case "fulltime":
		return LevelFullTime, nil
	case "nonmember":
		return LevelNonMember, nil
	case "delete":
		return LevelDelete, nil
	}
	return "", fmt.Errorf("unknown level %q", s)
}

// Class returns the rate-table column for a level; delete has none.
func (l Level) Class() (booking.RenterClass, bool) {
	switch l {
	case LevelFree:
		return booking.Free, true
	case LevelPartTime:
		return booking.PartTime, true
	case LevelFullTime:
		return booking.FullTime, true
	case LevelNonMember:
		return booking.NonMember, true
	}
	return "", false
}

// Fix assigns a level to records whose title matches Title.
type Fix struct {
	Title *regexp.Regexp
	Level Level
	Raw   string
}

// NewFix compiles a title pattern case-insensitively. Text that is not a valid
// expression is matched literally.
func NewFix(title string, level Level) Fix {
	re, err := regexp.Compile("(?i)" + title)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(title))
	}
	return Fix{Title: re, Level: level, Raw: title}
}

// levelFor returns the level of the last fix matching title.
func levelFor(fixes []Fix, title string) (Level, bool) {
	var (
		lvl   Level
		found bool
	)
	for _, f := range fixes {
		if f.Title.MatchString(title) {
			lvl, found = f.Level, true
		}
	}
	return lvl, found
}
