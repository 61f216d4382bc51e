package models

import "fmt"

// DocumentStatus is the closed set of document lifecycle states.
type DocumentStatus string

const (
	StatusUploaded         DocumentStatus = "UPLOADED"
	StatusProcessing       DocumentStatus = "PROCESSING"
	StatusProcessed        DocumentStatus = "PROCESSED"
	StatusProcessingFailed DocumentStatus = "PROCESSING_FAILED"
)

// transitions is the full lifecycle table. PROCESSED and PROCESSING_FAILED
// may re-enter PROCESSING (reprocess / retry); nothing leaves PROCESSING
// except a terminal outcome.
var transitions = map[DocumentStatus][]DocumentStatus{
	StatusUploaded:         {StatusProcessing},
	StatusProcessing:       {StatusProcessed, StatusProcessingFailed},
	StatusProcessed:        {StatusProcessing},
	StatusProcessingFailed: {StatusProcessing},
}

// CanTransitionTo reports whether from→to is in the lifecycle table.
func (s DocumentStatus) CanTransitionTo(to DocumentStatus) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionError signals a lifecycle move outside the transition table.
type TransitionError struct {
	From DocumentStatus
	To   DocumentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid document status transition %s -> %s", e.From, e.To)
}
