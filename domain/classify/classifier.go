package classify

import (
	"regexp"

	"room-stats/domain/booking"
)

// DefaultThreshold is the fuzzy score a label must exceed to be accepted.
const DefaultThreshold = 75

// Classifier maps event text to room and status labels.
type Classifier struct {
	rules           []Rule
	titleExclusions []*regexp.Regexp
	whereExclusions []*regexp.Regexp
	residualStrip   []*regexp.Regexp
	cancelled       *regexp.Regexp
	vocabulary      []booking.Label
	threshold       int
}

// New builds a classifier with the default rule set. A non-positive
// threshold selects DefaultThreshold.
func New(threshold int) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	rules := DefaultRules()
	c := &Classifier{
		rules:         rules,
		residualStrip: []*regexp.Regexp{literal("meditation")},
		cancelled:     literal("cancel"),
		threshold:     threshold,
	}
	for _, s := range defaultTitleExclusions {
		c.titleExclusions = append(c.titleExclusions, literal(s))
	}
	for _, s := range defaultWhereExclusions {
		c.whereExclusions = append(c.whereExclusions, literal(s))
	}
	for _, r := range rules {
		c.vocabulary = append(c.vocabulary, r.Label)
	}
	return c
}

// Match records which pattern set a label.
type Match struct {
	Label   booking.Label
	Pattern string
}

// Result is the outcome of classifying one event.
type Result struct {
	Labels     []booking.Label
	Matches    []Match
	Fuzzy      booking.Label
	FuzzyScore int
	Residual   string
}

// Has reports whether l was matched.
func (r Result) Has(l booking.Label) bool {
	for _, x := range r.Labels {
		if x == l {
			return true
		}
	}
	return false
}

func (r *Result) add(l booking.Label) {
	if !r.Has(l) {
		r.Labels = append(r.Labels, l)
	}
}

// Text builds the working text from title and location with the address and
// room-name boilerplate removed.
func (c *Classifier) Text(title, where string) string {
	for _, re := range c.titleExclusions {
		title = re.ReplaceAllString(title, "")
	}
	for _, re := range c.whereExclusions {
		where = re.ReplaceAllString(where, "")
	}
	return title + " : " + where
}

// Classify labels one event.
func (c *Classifier) Classify(title, where, description string) Result {
	res := c.ClassifyText(c.Text(title, where))
	if c.cancelled.MatchString(description) && !res.Has(booking.Closed) {
		res.add(booking.Closed)
		res.Matches = append(res.Matches, Match{Label: booking.Closed, Pattern: "description: " + c.cancelled.String()})
	}
	return res
}

// ClassifyText runs the exact passes until no rule matches, then the fuzzy
// fallback on what is left. Running it again on Result.Residual yields no
// label outside Result.Labels.
func (c *Classifier) ClassifyText(text string) Result {
	var res Result
	for {
		before := text
		for _, rule := range c.rules {
			for _, p := range rule.Patterns {
				var hit bool
				if text, hit = p.strip(text); hit {
					res.add(rule.Label)
					res.Matches = append(res.Matches, Match{Label: rule.Label, Pattern: p.String()})
				}
			}
		}
		for _, re := range c.residualStrip {
			text = re.ReplaceAllString(text, "")
		}
		if text == before {
			break
		}
	}
	res.Residual = text

	label, score := BestMatch(text, c.vocabulary)
	res.FuzzyScore = score
	if score > c.threshold {
		res.Fuzzy = label
		res.add(label)
	}
	return res
}
