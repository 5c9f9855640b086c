package triage

import "errors"

var (
	ErrEmptyTopic     = errors.New("topic must not be empty")
	ErrEmptyCorpus    = errors.New("corpus contains no documents")
	ErrClassifyFailed = errors.New("classification failed")
	ErrRefineFailed   = errors.New("refinement failed")
)
