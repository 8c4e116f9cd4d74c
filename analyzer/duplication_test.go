package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
)

func TestFindDuplicates(t *testing.T) {
	sixty := strings.Repeat("x", 60)
	fifty := strings.Repeat("y", 50)
	fiftyOne := strings.Repeat("z", 51)

	testCases := []struct {
		name                string
		body                string
		expectedBlocks      int
		expectedSubstantial int
		expectedDuplicates  []models.DuplicateEntry
		description         string
	}{
		{
			name:                "IdenticalParagraphs",
			body:                "<p>" + sixty + "</p><p>" + sixty + "</p>",
			expectedBlocks:      2,
			expectedSubstantial: 2,
			expectedDuplicates: []models.DuplicateEntry{
				{Original: sixty, Duplicate: sixty, Length: 60},
			},
			description: "Two identical blocks give exactly one duplicate",
		},
		{
			name:                "LengthThreshold",
			body:                "<p>" + fifty + "</p><p>" + fifty + "</p><div>" + fiftyOne + "</div><div>" + fiftyOne + "</div>",
			expectedBlocks:      4,
			expectedSubstantial: 2,
			expectedDuplicates: []models.DuplicateEntry{
				{Original: fiftyOne, Duplicate: fiftyOne, Length: 51},
			},
			description: "Blocks of 50 characters are ignored, 51 are fingerprinted",
		},
		{
			name:                "ThreeCopies",
			body:                "<section>" + sixty + "</section><p>" + sixty + "</p><p>" + sixty + "</p>",
			expectedBlocks:      3,
			expectedSubstantial: 3,
			expectedDuplicates: []models.DuplicateEntry{
				{Original: sixty, Duplicate: sixty, Length: 60},
				{Original: sixty, Duplicate: sixty, Length: 60},
			},
			description: "Every later copy references the first block",
		},
		{
			name:                "ScriptsAndStyles",
			body:                "<div><script>var a = '" + sixty + "';</script></div><style>" + sixty + "</style><p>" + sixty + "</p>",
			expectedBlocks:      2,
			expectedSubstantial: 1,
			expectedDuplicates:  []models.DuplicateEntry{},
			description:         "Script and style text is not part of any block",
		},
		{
			name:                "WhitespaceJoin",
			body:                "<p>  " + fiftyOne[:30] + "  <b> " + fiftyOne[30:] + " </b></p><p>" + fiftyOne + "</p>",
			expectedBlocks:      2,
			expectedSubstantial: 2,
			expectedDuplicates: []models.DuplicateEntry{
				{Original: fiftyOne, Duplicate: fiftyOne, Length: 51},
			},
			description: "Text pieces are trimmed and joined without separator",
		},
		{
			name:                "Noscript",
			body:                "<noscript><p>" + sixty + "</p></noscript><p>" + sixty + "</p>",
			expectedBlocks:      2,
			expectedSubstantial: 2,
			expectedDuplicates: []models.DuplicateEntry{
				{Original: sixty, Duplicate: sixty, Length: 60},
			},
			description: "Blocks inside noscript are fingerprinted",
		},
		{
			name:               "NoBlocks",
			body:               "<html><body><h1>Title</h1></body></html>",
			expectedDuplicates: []models.DuplicateEntry{},
			description:        "Pages without blocks report zero counts",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report := FindDuplicates(tc.body)

			assert.Equal(t, tc.expectedBlocks, report.TotalBlocks, tc.description)
			assert.Equal(t, tc.expectedSubstantial, report.SubstantialBlocks, tc.description)
			assert.Equal(t, tc.expectedDuplicates, report.Duplicates, tc.description)
			assert.Equal(t, len(tc.expectedDuplicates), report.DuplicateCount)
		})
	}
}

func TestFindDuplicates_Excerpts(t *testing.T) {
	long := strings.Repeat("é", 150)

	report := FindDuplicates("<p>" + long + "</p><p>" + long + "</p>")

	require.Len(t, report.Duplicates, 1)
	entry := report.Duplicates[0]
	assert.Equal(t, strings.Repeat("é", 100), entry.Original, "Excerpts are cut at 100 characters")
	assert.Equal(t, strings.Repeat("é", 100), entry.Duplicate)
	assert.Equal(t, 150, entry.Length, "Length counts characters, not bytes")
}

func TestFindDuplicates_Idempotent(t *testing.T) {
	body := "<div><p>" + strings.Repeat("a", 70) + "</p></div><p>" + strings.Repeat("a", 70) + "</p>"

	assert.Equal(t, FindDuplicates(body), FindDuplicates(body))
}

func TestFingerprint_Stable(t *testing.T) {
	assert.Equal(t, fingerprint("same text"), fingerprint("same text"))
	assert.NotEqual(t, fingerprint("same text"), fingerprint("other text"))
}
