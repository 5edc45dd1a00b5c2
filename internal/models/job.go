// internal/models/job.go
package models

// JobMessage is the notification that a combination is ready to be evaluated.
// EvaluationID is the deprecated name of CombinationID still sent by older producers.
type JobMessage struct {
	CombinationID int64  `json:"combinationId,omitempty"`
	EvaluationID  int64  `json:"evaluationId,omitempty"`
	DeviceID      int64  `json:"deviceId,omitempty"`
	MessageType   string `json:"messageType,omitempty"`
}

// TargetID resolves the combination identifier, preferring the current field name.
func (m JobMessage) TargetID() int64 {
	if m.CombinationID != 0 {
		return m.CombinationID
	}
	return m.EvaluationID
}

// APIResponse is the backend's response envelope.
type APIResponse[T any] struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Result  *T     `json:"result"`
	Success bool   `json:"success"`
}
