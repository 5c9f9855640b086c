package triage

import (
	"context"
	"strings"
	"sync"

	"github.com/agenthands/topicscan/internal/config"
)

// MockLLM answers by looking for a document marker in the prompt, so it
// gives stable answers no matter which worker calls it first.
type MockLLM struct {
	mu sync.Mutex

	// Classify and Refine map a substring of the document text to the
	// answer for that document.
	Classify map[string]string
	Refine   map[string]string
	// ClassifyErrs and RefineErrs map a substring of the document text to
	// an error for that pass.
	ClassifyErrs map[string]error
	RefineErrs   map[string]error

	ClassifyCalls []string
	RefineCalls   []string
}

const (
	classifyMarker = "rate the level of relevance"
	refineMarker   = "Identify the sentences"
)

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	refining := strings.Contains(prompt, refineMarker)
	answers, errs := m.Classify, m.ClassifyErrs
	if refining {
		answers, errs = m.Refine, m.RefineErrs
	}

	for marker, err := range errs {
		if strings.Contains(prompt, marker) {
			m.track(refining, marker)
			return "", err
		}
	}
	for marker, answer := range answers {
		if strings.Contains(prompt, marker) {
			m.track(refining, marker)
			return answer, nil
		}
	}
	m.track(refining, "")
	return "", nil
}

func (m *MockLLM) track(refining bool, marker string) {
	if refining {
		m.RefineCalls = append(m.RefineCalls, marker)
	} else {
		m.ClassifyCalls = append(m.ClassifyCalls, marker)
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Concurrency.Classify = 1
	cfg.Concurrency.Refine = 1
	return cfg
}
