// internal/engine/lifestyle.go
package engine

import (
	"strings"

	"devicelife-worker/internal/models"
)

// Lifestyle tags with a scoring rule. Any other tag contributes a zero delta.
const (
	TagOffice       = "OFFICE"
	TagStudy        = "STUDY"
	TagDeveloper    = "DEVELOPER"
	TagVideoEditing = "VIDEO_EDITING"
	TagGame         = "GAME"
	TagTour         = "TOUR"
)

// lifestyleRule returns the delta a tag adds to BaseScore for the lineup.
type lifestyleRule func(l lineup) int

var lifestyleRules = map[string]lifestyleRule{
	TagOffice:       officeDelta,
	TagStudy:        studyDelta,
	TagDeveloper:    developerDelta,
	TagVideoEditing: videoEditingDelta,
	TagGame:         gameDelta,
	TagTour:         tourDelta,
}

// NormalizeLifestyleTags canonicalizes raw labels such as "# Office/portability"
// to "OFFICE". Empty results are dropped and duplicates keep their first position.
func NormalizeLifestyleTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))

	for _, label := range raw {
		tag := normalizeTag(label)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

func normalizeTag(label string) string {
	cleaned := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(label), "#"))
	if i := strings.Index(cleaned, "/"); i >= 0 {
		cleaned = cleaned[:i]
	}
	cleaned = strings.ToUpper(cleaned)
	return strings.NewReplacer(" ", "_", "-", "_").Replace(cleaned)
}

// LifestyleDelta returns the raw delta of a single normalized tag.
func LifestyleDelta(p *models.DevicePayload, tag string) int {
	if p == nil {
		return 0
	}
	rule, ok := lifestyleRules[tag]
	if !ok {
		return 0
	}
	return rule(lineupOf(p))
}

// LifestyleScore averages the clamped per-tag scores, flooring the mean.
// A payload without usable tags scores BaseScore.
func LifestyleScore(p *models.DevicePayload) int {
	if p == nil {
		return BaseScore
	}

	tags := NormalizeLifestyleTags(p.Lifestyles)
	if len(tags) == 0 {
		return BaseScore
	}

	l := lineupOf(p)
	sum := 0
	for _, tag := range tags {
		delta := 0
		if rule, ok := lifestyleRules[tag]; ok {
			delta = rule(l)
		}
		sum += clampScore(BaseScore + delta)
	}

	// sum is non-negative, so integer division floors
	return clampScore(sum / len(tags))
}

func officeDelta(l lineup) int {
	delta := 0

	if size, ok := specsOf(l.keyboard).GetString("keyboardSize"); ok {
		switch strings.ToUpper(size) {
		case "FULL":
			delta += 12
		case "TKL":
			delta += 6
		case "MINI_60":
			delta -= 10
		}
	}

	delta += boolDelta(specsOf(l.laptop), "hasHdmi", 8, -8)
	delta += verticalMouseDelta(l)
	return delta
}

func studyDelta(l lineup) int {
	delta := 0

	if stylus, ok := specsOf(l.tablet).GetString("stylusType"); ok {
		if strings.EqualFold(stylus, "NONE") {
			delta -= 15
		} else {
			delta += 12
		}
	}

	if sw, ok := specsOf(l.keyboard).GetString("switchType"); ok {
		if strings.EqualFold(sw, "BLUE") {
			delta -= 20
		} else {
			delta += 6
		}
	}

	delta += boolDelta(specsOf(l.mouse), "hasClientClick", -10, 3)

	if kg, ok := carryWeightKg(l); ok {
		if kg <= 2.0 {
			delta += 8
		} else {
			delta -= 8
		}
	}
	return delta
}

func developerDelta(l lineup) int {
	delta := 0
	laptop := specsOf(l.laptop)

	if laptopOS, ok := laptop.GetString("os"); ok {
		switch strings.ToUpper(laptopOS) {
		case "MACOS", "LINUX":
			delta += 10
		case "WINDOWS":
			delta += 8
		case "CHROMEOS":
			delta += 5
		}
	}

	reported, anyPort := false, false
	for _, key := range []string{"hasHdmi", "hasUsbA", "hasThunderbolt"} {
		if has, ok := laptop.GetBool(key); ok {
			reported = true
			anyPort = anyPort || has
		}
	}
	if reported {
		if anyPort {
			delta += 6
		} else {
			delta -= 6
		}
	}

	delta += verticalMouseDelta(l)
	return delta
}

func videoEditingDelta(l lineup) int {
	delta := 0
	laptop := specsOf(l.laptop)

	if ram, ok := laptop.GetInt("ramGb"); ok {
		if ram >= 16 {
			delta += 12
		} else {
			delta -= 12
		}
	}
	if storage, ok := laptop.GetInt("storageGb"); ok {
		if storage >= 512 {
			delta += 10
		} else {
			delta -= 10
		}
	}

	delta += verticalMouseDelta(l)
	return delta
}

func gameDelta(l lineup) int {
	delta := 0

	if gpu, ok := specsOf(l.laptop).GetString("gpu"); ok {
		if isDedicatedGPU(gpu) {
			delta += 15
		} else {
			delta -= 25
		}
	}

	reported, lowLatency := false, false
	for _, d := range []*models.Device{l.keyboard, l.mouse} {
		conn, ok := specsOf(d).GetString("connectionType")
		if !ok {
			continue
		}
		reported = true
		if strings.EqualFold(conn, "WIRED_USB") || strings.EqualFold(conn, "BLUETOOTH_AND_DONGLE") {
			lowLatency = true
		}
	}
	switch {
	case lowLatency:
		delta += 10
	case reported:
		delta -= 12
	}
	return delta
}

func tourDelta(l lineup) int {
	delta := 0

	if kg, ok := carryWeightKg(l); ok {
		if kg <= 3.0 {
			delta += 10
		} else {
			delta -= 10
		}
	}

	if l.charger != nil && l.laptop != nil {
		method, _ := l.laptop.Specs.GetString("chargingMethod")
		switch {
		case strings.EqualFold(method, "DC_ADAPTER"):
			delta -= 12
		case strings.EqualFold(method, "USB_C"):
			required, okReq := l.laptop.Specs.GetInt("minRequiredPowerW")
			supplied, okSup := l.charger.Specs.GetInt("maxSinglePortPowerW")
			if okReq && okSup {
				if supplied >= required {
					delta += 5
				} else {
					delta -= 12
				}
			}
		}
	}

	peripheral := l.keyboard
	if peripheral == nil {
		peripheral = l.mouse
	}
	if conn, ok := specsOf(peripheral).GetString("connectionType"); ok {
		if strings.EqualFold(conn, "BLUETOOTH") {
			delta += 6
		} else {
			delta -= 6
		}
	}
	return delta
}

// carryWeightKg is the laptop plus tablet weight; both must be reported.
func carryWeightKg(l lineup) (float64, bool) {
	laptopKg, okLaptop := specsOf(l.laptop).GetNumber("weightKg")
	tabletGram, okTablet := specsOf(l.tablet).GetNumber("weightGram")
	if !okLaptop || !okTablet {
		return 0, false
	}
	return laptopKg + tabletGram/1000, true
}

func boolDelta(s models.Specs, key string, onTrue, onFalse int) int {
	v, ok := s.GetBool(key)
	switch {
	case !ok:
		return 0
	case v:
		return onTrue
	default:
		return onFalse
	}
}

func verticalMouseDelta(l lineup) int {
	if specsOf(l.mouse).StringIs("mouseType", "VERTICAL") {
		return 6
	}
	return 0
}

var (
	integratedGPUKeywords = []string{"integrated", "iris", "uhd", "hd graphics"}
	dedicatedGPUKeywords  = []string{"rtx", "gtx", "geforce", "quadro", "nvidia", "arc"}
)

// isDedicatedGPU classifies a free-text GPU name. Unrecognized names count as
// integrated.
func isDedicatedGPU(raw string) bool {
	g := strings.ToLower(strings.TrimSpace(raw))
	if g == "" {
		return false
	}

	for _, kw := range integratedGPUKeywords {
		if strings.Contains(g, kw) {
			return false
		}
	}
	for _, kw := range dedicatedGPUKeywords {
		if strings.Contains(g, kw) {
			return true
		}
	}

	if strings.Contains(g, "radeon") {
		return strings.Contains(g, " rx ") ||
			strings.HasPrefix(g, "rx") ||
			strings.Contains(g, "xt") ||
			strings.HasSuffix(g, "m")
	}
	return false
}
