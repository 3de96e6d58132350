package classify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfix/complaint-service/internal/domain"
)

const plainJSON = `{"category": "Water", "urgency": 7, "summary": "Leaking washroom pipe"}`

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"json fence":    "```json\n" + plainJSON + "\n```",
		"bare fence":    "```\n" + plainJSON + "\n```",
		"inline fence":  "```json" + plainJSON + "```",
		"padded":        "  \n```json\n" + plainJSON + "\n```\n  ",
		"already plain": plainJSON,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, plainJSON, StripCodeFences(input))
		})
	}
}

func TestParseResultFencedMatchesPlain(t *testing.T) {
	plain, err := ParseResult(plainJSON)
	require.NoError(t, err)

	fenced, err := ParseResult("```json\n" + plainJSON + "\n```")
	require.NoError(t, err)

	assert.Equal(t, plain, fenced)
	assert.Equal(t, &Result{Category: domain.CategoryWater, Urgency: 7, Summary: "Leaking washroom pipe"}, plain)
}

func TestParseResultMalformed(t *testing.T) {
	for _, text := range []string{"", "not json", "[1,2]", "null", `{"category": "Water"`} {
		_, err := ParseResult(text)
		assert.ErrorIs(t, err, ErrMalformed, text)
	}
}

func TestParseResultMissingFields(t *testing.T) {
	cases := []string{
		`{"urgency": 4, "summary": "x"}`,
		`{"category": "Water", "summary": "x"}`,
		`{"category": "Water", "urgency": 4}`,
		`{"category": "", "urgency": 4, "summary": "x"}`,
		`{"category": "Water", "urgency": null, "summary": "x"}`,
		`{"category": "Water", "urgency": "", "summary": "x"}`,
		`{"category": "Water", "urgency": false, "summary": "x"}`,
		`{"category": 3, "urgency": 4, "summary": "x"}`,
		`{}`,
	}
	for _, text := range cases {
		_, err := ParseResult(text)
		assert.ErrorIs(t, err, ErrMissingFields, text)
	}
}

func TestNormalizeUrgency(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`1`, 1},
		{`7`, 7},
		{`10`, 10},
		{`7.9`, 7},
		{`"8"`, 8},
		{`" 3 "`, 3},
		{`"6/10"`, 6},
		{`"+2"`, 2},
		{`"high"`, 5},
		{`0`, 5},
		{`11`, 5},
		{`-4`, 5},
		{`"99999999999999"`, 5},
		{`1e2`, 5},
		{`true`, 5},
		{`[7]`, 5},
		{`{"v":7}`, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeUrgency(json.RawMessage(tc.raw)), tc.raw)
	}
}

func TestInRangeUrgencyPassesThrough(t *testing.T) {
	for u := domain.UrgencyMin; u <= domain.UrgencyMax; u++ {
		raw, _ := json.Marshal(u)
		assert.Equal(t, u, NormalizeUrgency(raw))
	}
}

func TestBuildPromptListsCategories(t *testing.T) {
	prompt := BuildPrompt("Leaking pipe in washroom")
	assert.Contains(t, prompt, `"Leaking pipe in washroom"`)
	assert.Contains(t, prompt, "Valid categories: Electrical, Water, Cleanliness, Infrastructure, Safety, Hostel, Academic, Other")
	assert.Contains(t, prompt, "Urgency: 1-10 scale")
}

func TestDecodePhoto(t *testing.T) {
	img, err := DecodePhoto("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, []byte("hello"), img.Data)
	assert.Equal(t, "png", img.Extension())

	img, err = DecodePhoto("aGVsbG8")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, "jpg", img.Extension())

	_, err = DecodePhoto("data:image/jpeg;base64,")
	assert.Error(t, err)

	_, err = DecodePhoto("%%%not base64%%%")
	assert.Error(t, err)
}
