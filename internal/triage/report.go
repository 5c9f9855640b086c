package triage

import (
	"sort"
	"time"
)

// Report is the outcome of one triage run.
type Report struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	Topic       string             `json:"topic" yaml:"topic"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Categorized CategorizedResults `json:"categorized_results" yaml:"categorized_results"`
	Detailed    map[string]string  `json:"detailed_results" yaml:"detailed_results"`
	Errors      map[string]string  `json:"errors,omitempty" yaml:"errors,omitempty"`

	order []string
}

// Assemble merges buckets, per-document evidence and per-document errors.
// order is the corpus order used by DetailedOrder.
func Assemble(runID, topic string, order []string, categorized CategorizedResults, detailed map[string]string, errs map[string]error) *Report {
	r := &Report{
		RunID:       runID,
		Topic:       topic,
		GeneratedAt: time.Now().UTC(),
		Categorized: categorized,
		Detailed:    make(map[string]string, len(detailed)),
		order:       order,
	}
	for id, evidence := range detailed {
		r.Detailed[id] = evidence
	}
	if len(errs) > 0 {
		r.Errors = make(map[string]string, len(errs))
		for id, err := range errs {
			r.Errors[id] = err.Error()
		}
	}
	return r
}

// DetailedOrder returns the IDs that have evidence, in corpus order. IDs the
// report has no order for sort after the known ones, alphabetically.
func (r *Report) DetailedOrder() []string {
	pos := make(map[string]int, len(r.order))
	for i, id := range r.order {
		pos[id] = i
	}

	ids := make([]string, 0, len(r.Detailed))
	for id := range r.Detailed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		pi, iok := pos[ids[i]]
		pj, jok := pos[ids[j]]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return ids[i] < ids[j]
		}
	})
	return ids
}

// ErrorOrder returns the IDs with a recorded error, sorted.
func (r *Report) ErrorOrder() []string {
	ids := make([]string, 0, len(r.Errors))
	for id := range r.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
