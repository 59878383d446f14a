package retrieval

import (
	"regexp"
	"sort"
	"strings"

	"docqa/internal/domain"
)

// DefaultTopK is the number of chunks callers select when none is configured.
const DefaultTopK = 3

var termRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// LexicalRanker scores chunks by the number of distinct terms they share with a query.
type LexicalRanker struct{}

func NewLexicalRanker() *LexicalRanker { return &LexicalRanker{} }

// Terms returns the set of lowercase word terms in s.
func Terms(s string) map[string]struct{} {
	tokens := termRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func overlap(qset map[string]struct{}, text string) int {
	if len(qset) == 0 {
		return 0
	}
	n := 0
	for t := range Terms(text) {
		if _, ok := qset[t]; ok {
			n++
		}
	}
	return n
}

// Score returns every chunk paired with its score, ordered by score descending.
// Chunks with equal scores keep their document order.
func (r *LexicalRanker) Score(chunks []domain.Chunk, question string) []domain.ScoredChunk {
	qset := Terms(question)
	scored := make([]domain.ScoredChunk, len(chunks))
	for i, ch := range chunks {
		scored[i] = domain.ScoredChunk{Chunk: ch, Score: overlap(qset, ch.Text)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

// Retrieve returns at most k chunks with the highest positive scores.
// An empty result means nothing in the document matches the question, or k is
// not positive.
func (r *LexicalRanker) Retrieve(chunks []domain.Chunk, question string, k int) []domain.Chunk {
	if k <= 0 {
		return nil
	}
	scored := r.Score(chunks, question)
	if k > len(scored) {
		k = len(scored)
	}
	out := make([]domain.Chunk, 0, k)
	for _, sc := range scored[:k] {
		if sc.Score > 0 {
			out = append(out, sc.Chunk)
		}
	}
	return out
}

// BuildContext joins chunk texts, in order, separated by blank lines.
func BuildContext(chunks []domain.Chunk) string {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	return strings.Join(texts, "\n\n")
}
