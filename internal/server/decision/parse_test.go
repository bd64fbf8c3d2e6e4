package decision

import (
	"testing"

	"github.com/dmitrijs2005/claimcheck/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conf(v float64) *float64 { return &v }

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		outcome    models.Outcome
		reasoning  string
		confidence *float64
	}{
		{
			name:       "template",
			raw:        "DECISION: PASS\nREASONING:\nLooks fine\nCONFIDENCE: 92%",
			outcome:    models.OutcomePass,
			reasoning:  "Looks fine",
			confidence: conf(92),
		},
		{
			name:      "unparseable confidence",
			raw:       "DECISION: FAIL\nREASONING:\nNot covered\nCONFIDENCE: abc%",
			outcome:   models.OutcomeFail,
			reasoning: "Not covered",
		},
		{
			name:      "no decision marker",
			raw:       "I could not read the documents.\nCONFIDENCE: 10%",
			outcome:   models.OutcomeUnknown,
			reasoning: "I could not read the documents.\nCONFIDENCE: 10%",
		},
		{
			name:      "empty",
			raw:       "",
			outcome:   models.OutcomeUnknown,
			reasoning: "",
		},
		{
			name:      "substring is not a token",
			raw:       "DECISION: this is NOT PASSING\nREASONING: r",
			outcome:   models.OutcomeUnknown,
			reasoning: "r",
		},
		{
			name:      "template echoed back",
			raw:       "DECISION: [PASS or FAIL]\nREASONING:\nx",
			outcome:   models.OutcomeUnknown,
			reasoning: "x",
		},
		{
			name:      "lower case and trailing period",
			raw:       "DECISION: fail.\nREASONING: Excluded procedure.",
			outcome:   models.OutcomeFail,
			reasoning: "Excluded procedure.",
		},
		{
			name:       "markdown emphasis",
			raw:        "**DECISION:** PASS\n\n**REASONING:**\nCovered under section 4.\n\n**CONFIDENCE:** 85 %",
			outcome:    models.OutcomePass,
			reasoning:  "Covered under section 4.",
			confidence: conf(85),
		},
		{
			name:      "bracketed token",
			raw:       "DECISION: [FAIL]",
			outcome:   models.OutcomeFail,
			reasoning: "DECISION: [FAIL]",
		},
		{
			name:       "indented and CRLF",
			raw:        "  DECISION: PASS\r\nREASONING:\r\nok\r\n  CONFIDENCE: 70.5%\r\n",
			outcome:    models.OutcomePass,
			reasoning:  "ok",
			confidence: conf(70.5),
		},
		{
			name:       "repeated markers first wins",
			raw:        "DECISION: FAIL\nDECISION: PASS\nREASONING: first\nCONFIDENCE: 40%\nREASONING: second\nCONFIDENCE: 99%",
			outcome:    models.OutcomeFail,
			reasoning:  "first",
			confidence: conf(40),
		},
		{
			name:       "out of order",
			raw:        "CONFIDENCE: 60%\nREASONING: late reasoning\nDECISION: PASS",
			outcome:    models.OutcomePass,
			reasoning:  "late reasoning\nDECISION: PASS",
			confidence: conf(60),
		},
		{
			name:      "decision marker only inline",
			raw:       "My final DECISION: PASS",
			outcome:   models.OutcomeUnknown,
			reasoning: "My final DECISION: PASS",
		},
		{
			name:      "reasoning without confidence runs to end",
			raw:       "DECISION: PASS\nREASONING:\nline one\nline two\n",
			outcome:   models.OutcomePass,
			reasoning: "line one\nline two",
		},
		{
			name:      "confidence out of range",
			raw:       "DECISION: PASS\nCONFIDENCE: 150%",
			outcome:   models.OutcomePass,
			reasoning: "DECISION: PASS\nCONFIDENCE: 150%",
		},
		{
			name:      "confidence negative",
			raw:       "DECISION: PASS\nCONFIDENCE: -3",
			outcome:   models.OutcomePass,
			reasoning: "DECISION: PASS\nCONFIDENCE: -3",
		},
		{
			name:      "confidence NaN",
			raw:       "DECISION: PASS\nCONFIDENCE: NaN%",
			outcome:   models.OutcomePass,
			reasoning: "DECISION: PASS\nCONFIDENCE: NaN%",
		},
		{
			name:      "confidence infinite",
			raw:       "DECISION: PASS\nCONFIDENCE: +Inf",
			outcome:   models.OutcomePass,
			reasoning: "DECISION: PASS\nCONFIDENCE: +Inf",
		},
		{
			name:       "confidence upper bound",
			raw:        "DECISION: PASS\nCONFIDENCE: 100%",
			outcome:    models.OutcomePass,
			reasoning:  "DECISION: PASS\nCONFIDENCE: 100%",
			confidence: conf(100),
		},
		{
			name:       "confidence bounds",
			raw:        "DECISION: FAIL\nCONFIDENCE: 0%",
			outcome:    models.OutcomeFail,
			reasoning:  "DECISION: FAIL\nCONFIDENCE: 0%",
			confidence: conf(0),
		},
		{
			name:      "empty decision value",
			raw:       "DECISION:\nREASONING: nothing",
			outcome:   models.OutcomeUnknown,
			reasoning: "nothing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)

			assert.Equal(t, tt.outcome, got.Outcome)
			assert.Equal(t, tt.reasoning, got.Reasoning)
			if tt.confidence == nil {
				assert.Nil(t, got.Confidence)
				return
			}
			require.NotNil(t, got.Confidence)
			assert.InDelta(t, *tt.confidence, *got.Confidence, 1e-9)
		})
	}
}

func TestParse_OutcomeAlwaysValid(t *testing.T) {
	inputs := []string{
		"DECISION: \x00",
		"DECISION: PASS PASS",
		"DECISION:PASS",
		"\n\n\nDECISION:",
		"REASONING: CONFIDENCE: DECISION:",
	}
	for _, in := range inputs {
		assert.True(t, Parse(in).Outcome.Valid(), "%q", in)
	}
}
