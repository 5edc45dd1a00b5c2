// internal/engine/grade.go
package engine

import "devicelife-worker/internal/models"

// GradeFor maps a 0-100 score to its grade bucket. The 65 base score lands in GradeMid.
func GradeFor(score int) models.Grade {
	switch {
	case score >= 90:
		return models.GradeTop
	case score >= 80:
		return models.GradeHigh
	case score >= 60:
		return models.GradeMid
	case score >= 40:
		return models.GradeLow
	default:
		return models.GradeBottom
	}
}
