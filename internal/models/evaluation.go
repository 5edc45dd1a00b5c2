// internal/models/evaluation.go
package models

// Grade is the ordinal bucket paired with a 0-100 score.
type Grade string

const (
	GradeTop    Grade = "최상"
	GradeHigh   Grade = "상"
	GradeMid    Grade = "중"
	GradeLow    Grade = "하"
	GradeBottom Grade = "최하"
)

// EvaluationResult is the scored outcome of one payload. TotalScore is the sum
// of the three sub-scores and ranges 0-300.
type EvaluationResult struct {
	CombinationID      int64 `json:"combinationId"`
	EvaluationVersion  int64 `json:"evaluationVersion"`
	TotalScore         int   `json:"totalScore"`
	CompatibilityScore int   `json:"compatibilityScore"`
	ConvenienceScore   int   `json:"convenienceScore"`
	LifestyleScore     int   `json:"lifestyleScore"`
	CompatibilityGrade Grade `json:"compatibilityGrade"`
	ConvenienceGrade   Grade `json:"convenienceGrade"`
	LifestyleGrade     Grade `json:"lifestyleGrade"`
}
