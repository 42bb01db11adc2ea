package roundtime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnparsable is returned when no supported format matches the input.
var ErrUnparsable = errors.New("unrecognized lock time")

var compactClock = regexp.MustCompile(`\b(\d{1,2})(\d{2})(am|pm)\b`)

// LockTimeParser turns operator input into a UTC lock time.
type LockTimeParser interface {
	Parse(input string, now time.Time) (time.Time, error)
}

// Parser accepts RFC3339 timestamps, "2006-01-02 15:04" and natural
// language such as "tomorrow 5 pm", interpreted in its location.
type Parser struct {
	loc *time.Location
	w   *when.Parser
}

// NewParser creates a parser. A nil location means UTC.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{loc: loc, w: w}
}

// Parse resolves input relative to now. Explicit timestamps are kept as given;
// natural language results are truncated to the minute.
func (p *Parser) Parse(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrUnparsable
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", input, p.loc); err == nil {
		return t.UTC(), nil
	}

	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = compactClock.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := p.w.Parse(normalized, now.In(p.loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparsable, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, input)
	}
	return r.Time.In(time.UTC).Truncate(time.Minute), nil
}
