// internal/engine/evaluator.go

// Package engine scores a device combination on three dimensions: how well
// peripherals connect to their hubs (compatibility), how easily the set is
// charged and powered (convenience) and how it suits the declared lifestyles.
//
// Every function in the package is pure. Missing or malformed device attributes
// degrade a score instead of producing an error.
package engine

import "devicelife-worker/internal/models"

// Evaluator composes the three scorers. The zero value is ready to use and is
// safe for concurrent use.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate scores and grades the payload. A nil payload is treated as empty.
func (e *Evaluator) Evaluate(p *models.DevicePayload) models.EvaluationResult {
	if p == nil {
		p = &models.DevicePayload{}
	}

	compatibility := CompatibilityScore(p)
	convenience := ConvenienceScore(p)
	lifestyle := LifestyleScore(p)

	return models.EvaluationResult{
		CombinationID:      p.CombinationID,
		EvaluationVersion:  p.EvaluationVersion,
		TotalScore:         compatibility + convenience + lifestyle,
		CompatibilityScore: compatibility,
		ConvenienceScore:   convenience,
		LifestyleScore:     lifestyle,
		CompatibilityGrade: GradeFor(compatibility),
		ConvenienceGrade:   GradeFor(convenience),
		LifestyleGrade:     GradeFor(lifestyle),
	}
}
