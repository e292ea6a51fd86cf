package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeyTerms(t *testing.T) {
	s := New(DefaultConfig())

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, s.ExtractKeyTerms(""))
		assert.Empty(t, s.ExtractKeyTerms("   "))
	})

	t.Run("drops short tokens and stop words", func(t *testing.T) {
		terms := s.ExtractKeyTerms("The fee is due to the provider and the client")
		assert.Equal(t, []string{"fee", "due", "provider", "client"}, terms)
	})

	t.Run("strips punctuation and lower-cases", func(t *testing.T) {
		terms := s.ExtractKeyTerms("Confidentiality, CONFIDENTIALITY! client's data.")
		assert.Equal(t, []string{"confidentiality", "clients", "data"}, terms)
	})

	t.Run("ranks by frequency then first occurrence", func(t *testing.T) {
		terms := s.ExtractKeyTerms("beta alpha gamma alpha beta alpha delta")
		assert.Equal(t, []string{"alpha", "beta", "gamma", "delta"}, terms)
	})

	t.Run("caps at ten terms", func(t *testing.T) {
		text := "one1 two2 three four five six seven eight nine ten eleven twelve"
		terms := s.ExtractKeyTerms(text)
		require.Len(t, terms, 10)
		assert.Equal(t, "one1", terms[0])
		assert.Equal(t, "ten", terms[9])
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		assert.Equal(t, []string{"ñoñ"}, s.ExtractKeyTerms("ñoñ ñu"))
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "payment schedule milestone payment escrow schedule review"
		first := s.ExtractKeyTerms(text)
		for range 20 {
			assert.Equal(t, first, s.ExtractKeyTerms(text))
		}
	})
}

func TestSimilarity(t *testing.T) {
	s := New(DefaultConfig())

	t.Run("identical text scores exactly one", func(t *testing.T) {
		texts := []string{
			"Confidentiality of client information must be preserved",
			"alpha",
			"one1 two2 three four five six seven eight nine ten eleven twelve",
		}
		for _, text := range texts {
			assert.Equal(t, 1.0, s.Similarity(text, text), text)
		}
	})

	t.Run("empty side scores zero", func(t *testing.T) {
		assert.Zero(t, s.Similarity("some terms here", ""))
		assert.Zero(t, s.Similarity("", "some terms here"))
	})

	t.Run("only stop words scores zero", func(t *testing.T) {
		assert.Zero(t, s.Similarity("the and or", "the and or"))
	})

	t.Run("disjoint texts score zero", func(t *testing.T) {
		assert.Zero(t, s.Similarity("website design deliverables", "confidentiality clause required"))
	})

	t.Run("partial overlap", func(t *testing.T) {
		// {payment, schedule, milestones} vs {payment, schedule, written}: 2/3
		got := s.Similarity("payment schedule milestones", "payment schedule written")
		assert.InDelta(t, 2.0/3.0, got, 1e-12)
	})

	t.Run("symmetric and bounded", func(t *testing.T) {
		a := "The provider shall keep all client information confidential"
		b := "Confidentiality of client information must be preserved"
		ab, ba := s.Similarity(a, b), s.Similarity(b, a)
		assert.Equal(t, ab, ba)
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.LessOrEqual(t, ab, 1.0)
	})
}
