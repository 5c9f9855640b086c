package triage

import (
	"regexp"
	"strings"
)

// Label is the relevance bucket a document is sorted into.
type Label string

const (
	Definitely   Label = "definitely"
	Moderately   Label = "moderately"
	Barely       Label = "barely"
	NotMentioned Label = "not_mentioned"
	// Unparseable holds documents whose answer matched none of the expected
	// phrases, or whose classification call failed.
	Unparseable Label = "unparseable"
)

// Labels lists every bucket in presentation order.
var Labels = []Label{Definitely, Moderately, Barely, NotMentioned, Unparseable}

// RelevantLabels are the buckets that get a refinement pass.
var RelevantLabels = []Label{Definitely, Moderately, Barely}

func (l Label) Relevant() bool {
	return l == Definitely || l == Moderately || l == Barely
}

// Title is the capitalized bucket name used in console output.
func (l Label) Title() string {
	s := string(l)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// phrases in priority order; the first match wins
var phrases = []struct {
	phrase string
	label  Label
}{
	{"yes (definitely)", Definitely},
	{"yes (moderately)", Moderately},
	{"yes (barely)", Barely},
}

var noAnswer = regexp.MustCompile(`\bno\b`)

// ParseLabel maps a raw classifier answer to a Label. Matching is a case
// insensitive substring search in priority order definitely > moderately >
// barely. An answer containing the standalone word "no" is NotMentioned;
// anything else, including an empty answer, is Unparseable.
func ParseLabel(response string) Label {
	lower := strings.ToLower(response)
	for _, p := range phrases {
		if strings.Contains(lower, p.phrase) {
			return p.label
		}
	}
	if noAnswer.MatchString(lower) {
		return NotMentioned
	}
	return Unparseable
}

// CategorizedResults maps each bucket to document IDs in corpus order.
type CategorizedResults map[Label][]string

// Categorize assigns every ID in order to exactly one bucket using
// ParseLabel on its response. IDs missing from responses are Unparseable.
// All buckets are present in the result, empty ones as empty slices.
func Categorize(order []string, responses map[string]string) CategorizedResults {
	out := make(CategorizedResults, len(Labels))
	for _, l := range Labels {
		out[l] = []string{}
	}
	for _, id := range order {
		resp, ok := responses[id]
		label := Unparseable
		if ok {
			label = ParseLabel(resp)
		}
		out[label] = append(out[label], id)
	}
	return out
}

// LabelOf returns the bucket holding id, or "" when id is in none.
func (c CategorizedResults) LabelOf(id string) Label {
	for _, l := range Labels {
		for _, got := range c[l] {
			if got == id {
				return l
			}
		}
	}
	return ""
}

// Relevant returns IDs from the three relevant buckets, highest first.
func (c CategorizedResults) Relevant() []string {
	var ids []string
	for _, l := range RelevantLabels {
		ids = append(ids, c[l]...)
	}
	return ids
}
