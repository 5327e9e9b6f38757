package usecase

import (
	"strconv"
	"strings"

	"github.com/X1ag/RideBoard/internal/domain"
)

// RouteSeparator is the canonical token between origin and destination.
const RouteSeparator = "→"

// Invalid reasons reported by the field validators.
const (
	ReasonEmpty            = "empty"
	ReasonMissingSeparator = "missing_separator"
	ReasonEmptyCity        = "empty_city"
	ReasonParseFailure     = "parse_failure"
	ReasonRangeFailure     = "range_failure"
)

// Invalid is a rejected user input. It is always answered with a re-prompt and
// never surfaces as an error.
type Invalid struct {
	Reason string
}

func (i Invalid) Error() string {
	return "invalid input: " + i.Reason
}

type RouteResult struct {
	From    string
	To      string
	Invalid *Invalid
}

func (r RouteResult) Valid() bool { return r.Invalid == nil }

type SeatsResult struct {
	Seats   int
	Invalid *Invalid
}

func (r SeatsResult) Valid() bool { return r.Invalid == nil }

// NormalizeRoute replaces the alternate separators "->" and "-" with the arrow.
// "->" goes first so it does not turn into "→>".
func NormalizeRoute(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "->", RouteSeparator)
	return strings.ReplaceAll(s, "-", RouteSeparator)
}

// ParseRoute splits a route at the first separator. Anything after it,
// including further separators from hyphenated names, belongs to the
// destination.
func ParseRoute(s string) RouteResult {
	from, to, ok := strings.Cut(NormalizeRoute(s), RouteSeparator)
	if !ok {
		return RouteResult{Invalid: &Invalid{Reason: ReasonMissingSeparator}}
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return RouteResult{Invalid: &Invalid{Reason: ReasonEmptyCity}}
	}
	return RouteResult{From: from, To: to}
}

func ParseSeats(s string) SeatsResult {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return SeatsResult{Invalid: &Invalid{Reason: ReasonParseFailure}}
	}
	if n < domain.MinSeats || n > domain.MaxSeats {
		return SeatsResult{Invalid: &Invalid{Reason: ReasonRangeFailure}}
	}
	return SeatsResult{Seats: n}
}

// ParseDate accepts any non-blank text. Dates are free-form ("25 decembrie",
// "săptămâna viitoare") and are stored verbatim.
func ParseDate(s string) (string, *Invalid) {
	if strings.TrimSpace(s) == "" {
		return "", &Invalid{Reason: ReasonEmpty}
	}
	return s, nil
}
