// Package help serves the FAQ shown on the help screen.
package help

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed faq.yaml
var faqYAML []byte

type Entry struct {
	Number   int    `json:"number" yaml:"-"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

type FAQ struct {
	Title   string  `json:"title" yaml:"title"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

var (
	loadOnce sync.Once
	loaded   FAQ
	loadErr  error
)

// Load parses the embedded FAQ once.
func Load() (FAQ, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(faqYAML)
	})
	return loaded, loadErr
}

func Parse(data []byte) (FAQ, error) {
	var faq FAQ
	if err := yaml.Unmarshal(data, &faq); err != nil {
		return FAQ{}, fmt.Errorf("parse faq: %w", err)
	}
	for i := range faq.Entries {
		faq.Entries[i].Number = i + 1
	}
	return faq, nil
}
