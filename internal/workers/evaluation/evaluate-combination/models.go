// internal/workers/evaluation/evaluate-combination/models.go
package evaluatecombination

import "devicelife-worker/internal/models"

// Input is the job variable set; only the combination identifier is required.
type Input struct {
	models.JobMessage
}

// Output carries the evaluation result plus what happened to it downstream.
type Output struct {
	models.EvaluationResult
	ResultSubmitted     bool   `json:"resultSubmitted"`
	DuplicateSubmission bool   `json:"duplicateSubmission"`
	EventMessageID      string `json:"eventMessageId,omitempty"`
}
