// internal/engine/compatibility.go
package engine

import (
	"strings"

	"devicelife-worker/internal/models"
)

// Weights of the compatibility formula. They sum to 1.0.
const (
	weightHubConnectivity = 0.6
	weightAvgQuality      = 0.3
	weightNotIsolated     = 0.1
)

// Edge qualities for peripherals whose host does not fully support them.
const (
	qualityFull             = 1.0
	qualityKeyboardOnLaptop = 0.8
	qualityKeyboardOnTablet = 0.5
	qualityMouseNoGestures  = 0.5
	qualityAudioBasicCodec  = 0.6
)

// edgeStats accumulates the peripheral-to-hub relations of one payload.
type edgeStats struct {
	targetEdges  int
	successEdges int
	totalQuality float64
	targeted     map[int64]struct{}
	connected    map[int64]struct{}
}

func newEdgeStats() *edgeStats {
	return &edgeStats{
		targeted:  make(map[int64]struct{}),
		connected: make(map[int64]struct{}),
	}
}

func (s *edgeStats) target(d models.Device) {
	s.targetEdges++
	s.targeted[d.DeviceID] = struct{}{}
}

func (s *edgeStats) connect(devices ...models.Device) {
	for _, d := range devices {
		s.connected[d.DeviceID] = struct{}{}
	}
}

func (s *edgeStats) succeed(quality float64) {
	s.successEdges++
	s.totalQuality += quality
}

func (s *edgeStats) isolatedRatio() float64 {
	if len(s.targeted) == 0 {
		return 0
	}
	isolated := 0
	for id := range s.targeted {
		if _, ok := s.connected[id]; !ok {
			isolated++
		}
	}
	return float64(isolated) / float64(len(s.targeted))
}

// CompatibilityScore scores how well peripherals connect to their hubs.
// No devices scores 0, no applicable relation scores BaseScore, and relations
// that all failed score 0.
func CompatibilityScore(p *models.DevicePayload) int {
	if p == nil || len(p.Devices) == 0 {
		return 0
	}

	s := collectEdges(p)
	if s.targetEdges == 0 {
		return BaseScore
	}
	if s.successEdges == 0 {
		return 0
	}

	hub := float64(s.successEdges) / float64(s.targetEdges)
	avgQuality := s.totalQuality / float64(s.successEdges)
	notIsolated := 1 - s.isolatedRatio()

	// float64 conversions forbid fused multiply-add
	sum := float64(weightHubConnectivity*hub) + float64(weightAvgQuality*avgQuality) + float64(weightNotIsolated*notIsolated)
	return clampScore(int(100 * sum))
}

func collectEdges(p *models.DevicePayload) *edgeStats {
	phones := p.DevicesOf(models.CategoryPhone)
	hosts := append(p.DevicesOf(models.CategoryLaptop), p.DevicesOf(models.CategoryTablet)...)

	s := newEdgeStats()
	if len(phones) > 0 {
		for _, watch := range p.DevicesOf(models.CategoryWatch) {
			linkWatch(s, watch, phones)
		}
	}
	if len(hosts) > 0 {
		for _, kb := range p.DevicesOf(models.CategoryKeyboard) {
			linkKeyboard(s, kb, hosts)
		}
		for _, mouse := range p.DevicesOf(models.CategoryMouse) {
			linkMouse(s, mouse, hosts)
		}
	}
	if len(phones) > 0 {
		for _, audio := range p.DevicesOf(models.CategoryAudio) {
			linkAudio(s, audio, phones)
		}
	}
	return s
}

// linkWatch succeeds only when some phone runs an OS the watch lists.
func linkWatch(s *edgeStats, watch models.Device, phones []models.Device) {
	s.target(watch)

	var matched []models.Device
	for _, phone := range phones {
		phoneOS, ok := phone.Specs.GetString("os")
		if ok && watch.Specs.ListContains("compatiblePhoneOs", phoneOS) {
			matched = append(matched, phone)
		}
	}
	if len(matched) == 0 {
		return
	}

	s.succeed(qualityFull)
	s.connect(watch)
	s.connect(matched...)
}

// linkKeyboard always connects; an unsupported layout only lowers quality.
func linkKeyboard(s *edgeStats, kb models.Device, hosts []models.Device) {
	s.target(kb)

	best := 0.0
	for _, host := range hosts {
		q := qualityKeyboardOnTablet
		if host.Category() == models.CategoryLaptop {
			q = qualityKeyboardOnLaptop
		}
		if hostOS, ok := host.Specs.GetString("os"); ok && kb.Specs.ListContains("layoutSupports", hostOS) {
			q = qualityFull
		}
		best = max(best, q)
	}

	s.succeed(best)
	s.connect(kb)
	s.connect(hosts...)
}

func linkMouse(s *edgeStats, mouse models.Device, hosts []models.Device) {
	s.target(mouse)

	best := 0.0
	for _, host := range hosts {
		q := qualityMouseNoGestures
		if hostOS, ok := host.Specs.GetString("os"); ok && mouse.Specs.ListContains("gestureSupports", hostOS) {
			q = qualityFull
		}
		best = max(best, q)
	}

	s.succeed(best)
	s.connect(mouse)
	s.connect(hosts...)
}

// linkAudio rates the best codec path: AAC on iOS, LDAC or aptX elsewhere.
func linkAudio(s *edgeStats, audio models.Device, phones []models.Device) {
	s.target(audio)

	best := 0.0
	for _, phone := range phones {
		phoneOS, _ := phone.Specs.GetString("os")

		var highQuality bool
		if strings.EqualFold(phoneOS, "iOS") {
			highQuality = audio.Specs.ListContains("codecs", "AAC")
		} else {
			highQuality = audio.Specs.ListContains("codecs", "LDAC") || audio.Specs.ListContains("codecs", "aptX")
		}

		q := qualityAudioBasicCodec
		if highQuality {
			q = qualityFull
		}
		best = max(best, q)
	}

	s.succeed(best)
	s.connect(audio)
	s.connect(phones...)
}
