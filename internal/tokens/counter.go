package tokens

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates prompt sizes in tokens. When the BPE tables cannot be
// loaded it falls back to a word-based estimate.
type Counter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

func NewCounter() *Counter { return &Counter{} }

func (c *Counter) load() {
	c.once.Do(func() {
		c.enc, c.err = tiktoken.GetEncoding("cl100k_base")
	})
}

// Count returns the token count of text and whether it is exact.
func (c *Counter) Count(text string) (int, bool) {
	if text == "" {
		return 0, true
	}
	c.load()
	if c.err != nil || c.enc == nil {
		return estimate(text), false
	}
	return len(c.enc.Encode(text, nil, nil)), true
}

// estimate assumes roughly four tokens per three words.
func estimate(text string) int {
	words := len(strings.Fields(text))
	return (words*4 + 2) / 3
}
