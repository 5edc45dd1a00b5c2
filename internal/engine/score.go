// internal/engine/score.go
package engine

import "devicelife-worker/internal/models"

// BaseScore is the neutral score used when a dimension has nothing to judge.
const BaseScore = 65

// Score is one sub-metric. An unavailable metric is excluded from weighted
// averages rather than counted as zero.
type Score struct {
	Available bool    `json:"available"`
	Value     float64 `json:"value"`
}

func scoreOf(v float64) Score { return Score{Available: true, Value: clamp01(v)} }

func notApplicable() Score { return Score{} }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// lineup holds the first device of each category, nil when absent.
type lineup struct {
	phone    *models.Device
	laptop   *models.Device
	tablet   *models.Device
	watch    *models.Device
	audio    *models.Device
	keyboard *models.Device
	mouse    *models.Device
	charger  *models.Device
}

func lineupOf(p *models.DevicePayload) lineup {
	return lineup{
		phone:    p.FirstOf(models.CategoryPhone),
		laptop:   p.FirstOf(models.CategoryLaptop),
		tablet:   p.FirstOf(models.CategoryTablet),
		watch:    p.FirstOf(models.CategoryWatch),
		audio:    p.FirstOf(models.CategoryAudio),
		keyboard: p.FirstOf(models.CategoryKeyboard),
		mouse:    p.FirstOf(models.CategoryMouse),
		charger:  p.FirstOf(models.CategoryCharger),
	}
}

// specsOf returns the device's specs; a missing device has no specs, so every
// getter on the result reports absence.
func specsOf(d *models.Device) models.Specs {
	if d == nil {
		return nil
	}
	return d.Specs
}
