package words

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// Provider draws uniformly random words from a fixed corpus.
type Provider struct {
	words []string
}

// New builds a provider from an in-memory corpus. An empty corpus is a
// configuration error.
func New(list []string) (*Provider, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("word corpus is empty")
	}
	return &Provider{words: list}, nil
}

// Load reads a newline-separated corpus file. Blank lines are skipped.
func Load(path string) (*Provider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var list []string
	for _, line := range strings.Split(string(raw), "\n") {
		if w := strings.TrimSpace(line); w != "" {
			list = append(list, w)
		}
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("word corpus %s is empty", path)
	}
	return &Provider{words: list}, nil
}

// Next returns a uniformly random word from the corpus.
func (p *Provider) Next() string {
	return p.words[rand.Intn(len(p.words))]
}

// Len returns the corpus size.
func (p *Provider) Len() int {
	return len(p.words)
}
