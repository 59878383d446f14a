package retrieval

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func chunksOf(texts ...string) []domain.Chunk {
	out := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		out[i] = domain.Chunk{Index: i, Text: t}
	}
	return out
}

func TestTerms(t *testing.T) {
	got := Terms("What color is the SKY? sky_blue, 42 café... is")

	want := []string{"42", "café", "color", "is", "sky", "sky_blue", "the", "what"}
	keys := make([]string, 0, len(got))
	for k := range got {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, want, keys)
}

func TestLexicalRanker_Score(t *testing.T) {
	r := NewLexicalRanker()
	chunks := chunksOf("The sky is blue. Grass is green.")

	scored := r.Score(chunks, "What color is the sky?")

	require.Len(t, scored, 1)
	// shared: the, sky, is
	assert.Equal(t, 3, scored[0].Score)
}

func TestLexicalRanker_Retrieve(t *testing.T) {
	r := NewLexicalRanker()

	tests := []struct {
		name     string
		chunks   []domain.Chunk
		question string
		k        int
		want     []int
	}{
		{
			name:     "single matching chunk",
			chunks:   chunksOf("The sky is blue. Grass is green."),
			question: "What color is the sky?",
			k:        3,
			want:     []int{0},
		},
		{
			name:     "no shared terms",
			chunks:   chunksOf("Tomatoes need full sun and regular watering."),
			question: "What is the capital of France?",
			k:        3,
			want:     []int{},
		},
		{
			name:     "ordered by score descending",
			chunks:   chunksOf("alpha", "alpha beta gamma", "alpha beta", "delta"),
			question: "alpha beta gamma",
			k:        3,
			want:     []int{1, 2, 0},
		},
		{
			name:     "ties keep document order",
			chunks:   chunksOf("red fox", "blue fox", "green fox", "fox red"),
			question: "red fox",
			k:        3,
			want:     []int{0, 3, 1},
		},
		{
			name:     "zero scores are dropped inside top k",
			chunks:   chunksOf("cats", "dogs", "birds"),
			question: "dogs",
			k:        3,
			want:     []int{1},
		},
		{
			name:     "k larger than chunk count",
			chunks:   chunksOf("go", "go go"),
			question: "go",
			k:        10,
			want:     []int{0, 1},
		},
		{
			name:     "zero k selects nothing",
			chunks:   chunksOf("x", "x", "x", "x"),
			question: "x",
			k:        0,
			want:     []int{},
		},
		{
			name:     "negative k selects nothing",
			chunks:   chunksOf("x"),
			question: "x",
			k:        -1,
			want:     []int{},
		},
		{
			name:     "empty chunk sequence",
			chunks:   nil,
			question: "anything",
			k:        3,
			want:     []int{},
		},
		{
			name:     "question without terms",
			chunks:   chunksOf("text"),
			question: "?!",
			k:        3,
			want:     []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Retrieve(tt.chunks, tt.question, tt.k)

			idx := make([]int, len(got))
			for i, ch := range got {
				idx[i] = ch.Index
			}
			assert.Equal(t, tt.want, idx)
		})
	}
}

func TestLexicalRanker_RetrieveIsExactTopK(t *testing.T) {
	r := NewLexicalRanker()
	chunks := chunksOf(
		"apple", "apple banana", "cherry", "banana cherry apple",
		"banana", "apple cherry", "kiwi", "banana apple",
	)
	question := "apple banana cherry"

	for k := 1; k <= len(chunks)+1; k++ {
		got := r.Retrieve(chunks, question, k)
		scored := r.Score(chunks, question)

		var want []domain.Chunk
		for _, sc := range scored {
			if len(want) == k {
				break
			}
			if sc.Score > 0 {
				want = append(want, sc.Chunk)
			}
		}
		if want == nil {
			want = []domain.Chunk{}
		}
		assert.Equal(t, want, got, "k=%d", k)
		for _, ch := range got {
			assert.Positive(t, overlap(Terms(question), ch.Text))
		}
	}
}

func TestBuildContext(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
	assert.Equal(t, "one\n\ntwo", BuildContext(chunksOf("one", "two")))
}
