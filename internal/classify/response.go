package classify

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/campusfix/complaint-service/internal/domain"
)

var (
	// ErrMalformed means the provider text is not a JSON object.
	ErrMalformed = errors.New("response is not valid JSON")
	// ErrMissingFields means category, urgency or summary is absent.
	ErrMissingFields = errors.New("response missing required fields")
)

var (
	jsonFence = regexp.MustCompile("```json\n?")
	anyFence  = regexp.MustCompile("```\n?")
)

// Result is the normalized classification returned to clients.
type Result struct {
	Category domain.Category `json:"category"`
	Urgency  int             `json:"urgency"`
	Summary  string          `json:"summary"`
}

// StripCodeFences removes markdown code fences the model sometimes wraps around JSON.
func StripCodeFences(text string) string {
	text = jsonFence.ReplaceAllString(text, "")
	text = anyFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ParseResult decodes provider text into a Result. Fences are stripped first; urgency is
// repaired with NormalizeUrgency rather than rejected.
func ParseResult(text string) (*Result, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &fields); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	if fields == nil {
		return nil, ErrMalformed
	}

	category, okCategory := stringField(fields["category"])
	summary, okSummary := stringField(fields["summary"])
	rawUrgency := fields["urgency"]
	if !okCategory || !okSummary || !present(rawUrgency) {
		return nil, ErrMissingFields
	}

	return &Result{
		Category: domain.Category(category),
		Urgency:  NormalizeUrgency(rawUrgency),
		Summary:  summary,
	}, nil
}

// NormalizeUrgency coerces a raw JSON urgency to an integer in [1,10]. Numbers truncate
// toward zero, strings use their leading integer; anything else, or a value out of range,
// becomes the default of 5.
func NormalizeUrgency(raw json.RawMessage) int {
	value, ok := leadingInt(raw)
	if !ok || value < domain.UrgencyMin || value > domain.UrgencyMax {
		return domain.UrgencyDefault
	}
	return value
}

func leadingInt(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		return parseIntPrefix(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		return int(math.Trunc(f)), true
	default:
		return 0, false
	}
}

func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	// Cap the digits so absurd values still land outside the valid range without overflowing.
	if end-digitsStart > 9 {
		return math.MaxInt32, true
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// present mirrors a truthiness check: missing, null, false and "" do not count.
func present(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", `""`:
		return false
	}
	return true
}

func stringField(raw json.RawMessage) (string, bool) {
	if !present(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
