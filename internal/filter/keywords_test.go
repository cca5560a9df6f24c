package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchKeywords_DistinctTermsNotOccurrences(t *testing.T) {
	// "hiring" appears twice but is one distinct term.
	matched, score := MatchKeywords("We are hiring, yes hiring again", []string{"hiring"})

	assert.Equal(t, 1, score)
	assert.True(t, matched.Contains("hiring"))
}

func TestMatchKeywords_CaseInsensitiveSubstring(t *testing.T) {
	matched, score := MatchKeywords("NOW HIRING a Backend Engineer", []string{"hiring", "engineer", "designer"})

	assert.Equal(t, 2, score)
	assert.True(t, matched.Contains("hiring"))
	assert.True(t, matched.Contains("engineer"))
	assert.False(t, matched.Contains("designer"))
}

func TestMatchKeywords_HashtagWithAndWithoutHash(t *testing.T) {
	// Tag rendered literally.
	_, score := MatchKeywords("Check out #hiring opportunities", []string{"#hiring"})
	assert.Equal(t, 1, score)

	// Tag stripped by the renderer; the bare word still matches.
	_, score = MatchKeywords("We are hiring now", []string{"#hiring"})
	assert.Equal(t, 1, score)
}

func TestMatchKeywords_FoldsDiacritics(t *testing.T) {
	_, score := MatchKeywords("Señor Développeur wanted", []string{"developpeur"})
	assert.Equal(t, 1, score)
}

func TestMatchKeywords_EmptyInputs(t *testing.T) {
	matched, score := MatchKeywords("", []string{"hiring"})
	assert.Equal(t, 0, score)
	assert.Equal(t, 0, matched.Cardinality())

	_, score = MatchKeywords("anything", nil)
	assert.Equal(t, 0, score)
}

func TestFoldText(t *testing.T) {
	assert.Equal(t, "senor developpeur", FoldText("Señor Développeur"))
}
