// Package decision turns the free-text answer of the reasoning engine into a
// structured outcome.
//
// The answer is expected to follow the template of the engine prompt:
//
//	DECISION: PASS|FAIL
//	REASONING:
//	<free text>
//	CONFIDENCE: <number>%
//
// Parsing is line oriented and the first occurrence of each marker wins.
// Nothing is recognised unless the text contains "DECISION:" somewhere.
// Markers may be wrapped in markdown emphasis ("**DECISION:** PASS").
package decision

import (
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/claimcheck/internal/server/models"
)

const (
	markerDecision   = "DECISION:"
	markerReasoning  = "REASONING:"
	markerConfidence = "CONFIDENCE:"
)

// decorations are stripped around marker values.
const decorations = " \t\r*_`[]\"'"

// Result is the structured form of an engine answer.
type Result struct {
	Outcome   models.Outcome
	Reasoning string
	// Confidence is a percentage in [0, 100], nil when absent or unusable.
	// A number that parses but falls outside that range (150, -5, NaN, Inf)
	// is also reported as nil instead of being stored as given.
	Confidence *float64
}

// Parse never fails. Without recognisable markers the outcome is UNKNOWN,
// the reasoning is the whole text and there is no confidence.
func Parse(raw string) Result {
	res := Result{Outcome: models.OutcomeUnknown, Reasoning: raw}

	if !strings.Contains(raw, markerDecision) {
		return res
	}

	var seenDecision, seenConfidence bool
	for _, line := range strings.Split(raw, "\n") {
		l := strings.TrimLeft(line, decorations+"#>-")
		switch {
		case !seenDecision && strings.HasPrefix(l, markerDecision):
			seenDecision = true
			res.Outcome = parseOutcome(l[len(markerDecision):])
		case !seenConfidence && strings.HasPrefix(l, markerConfidence):
			seenConfidence = true
			res.Confidence = parseConfidence(l[len(markerConfidence):])
		}
	}

	if i := strings.Index(raw, markerReasoning); i >= 0 {
		rest := raw[i+len(markerReasoning):]
		if j := strings.Index(rest, markerConfidence); j >= 0 {
			rest = rest[:j]
		}
		res.Reasoning = strings.Trim(rest, " \t\r\n*_#")
	}

	return res
}

// parseOutcome accepts exactly PASS or FAIL (any case, optional decoration
// and trailing period). Anything else is UNKNOWN.
func parseOutcome(s string) models.Outcome {
	s = strings.Trim(s, decorations)
	s = strings.TrimRight(s, ".")
	s = strings.Trim(s, decorations)

	switch strings.ToUpper(s) {
	case string(models.OutcomePass):
		return models.OutcomePass
	case string(models.OutcomeFail):
		return models.OutcomeFail
	}
	return models.OutcomeUnknown
}

func parseConfidence(s string) *float64 {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '%', ' ', '\t', '\r':
			return -1
		}
		return r
	}, s)
	s = strings.Trim(s, decorations)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
		return nil
	}
	return &v
}
