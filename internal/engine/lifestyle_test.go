// internal/engine/lifestyle_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devicelife-worker/internal/models"
)

func TestNormalizeLifestyleTags(t *testing.T) {
	tests := []struct {
		name     string
		raw      []string
		expected []string
	}{
		{
			name:     "labels with hash and subtitle",
			raw:      []string{"# Office/portability", "#Game"},
			expected: []string{"OFFICE", "GAME"},
		},
		{
			name:     "spaces and hyphens become underscores",
			raw:      []string{"video-editing", "Video Editing"},
			expected: []string{"VIDEO_EDITING"},
		},
		{
			name:     "duplicates keep first position",
			raw:      []string{"tour", "office", " TOUR "},
			expected: []string{"TOUR", "OFFICE"},
		},
		{
			name:     "space before slash becomes an underscore",
			raw:      []string{"# study / exam", "# Office / portability"},
			expected: []string{"STUDY_", "OFFICE_"},
		},
		{
			name:     "empty labels are dropped",
			raw:      []string{"", "#", "  ", "/travel"},
			expected: []string{},
		},
		{
			name:     "nil input",
			raw:      nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLifestyleTags(tt.raw))
		})
	}
}

func TestLifestyleScore_NoTags(t *testing.T) {
	assert.Equal(t, BaseScore, LifestyleScore(nil))
	assert.Equal(t, BaseScore, LifestyleScore(newPayload()))
	assert.Equal(t, BaseScore, LifestyleScore(withLifestyles(newPayload(), "#", " ")))
}

func TestLifestyleScore_UnknownTagIsNeutral(t *testing.T) {
	p := withLifestyles(newPayload(newDevice(1, "LAPTOP", nil)), "COOKING")
	assert.Equal(t, BaseScore, LifestyleScore(p))
}

func TestLifestyleScore_Rules(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		devices  []models.Device
		expected int
	}{
		{
			name: "office with full keyboard, hdmi and vertical mouse",
			tag:  TagOffice,
			devices: []models.Device{
				newDevice(1, "KEYBOARD", models.Specs{"keyboardSize": str("FULL")}),
				newDevice(2, "LAPTOP", models.Specs{"hasHdmi": flag(true)}),
				newDevice(3, "MOUSE", models.Specs{"mouseType": str("vertical")}),
			},
			expected: 91,
		},
		{
			name: "office with compact keyboard and no hdmi",
			tag:  TagOffice,
			devices: []models.Device{
				newDevice(1, "KEYBOARD", models.Specs{"keyboardSize": str("MINI_60")}),
				newDevice(2, "LAPTOP", models.Specs{"hasHdmi": flag(false)}),
			},
			expected: 47,
		},
		{
			name: "study with pen, loud keyboard, silent mouse, light bag",
			tag:  TagStudy,
			devices: []models.Device{
				newDevice(1, "TABLET", models.Specs{"stylusType": str("APPLE_PENCIL"), "weightGram": num(500)}),
				newDevice(2, "KEYBOARD", models.Specs{"switchType": str("BLUE")}),
				newDevice(3, "MOUSE", models.Specs{"hasClientClick": flag(false)}),
				newDevice(4, "LAPTOP", models.Specs{"weightKg": num(1.2)}),
			},
			expected: 68,
		},
		{
			name: "study with keyboard lacking switch type",
			tag:  TagStudy,
			devices: []models.Device{
				newDevice(1, "KEYBOARD", nil),
				newDevice(2, "TABLET", models.Specs{"stylusType": str("NONE")}),
			},
			expected: 50,
		},
		{
			name: "developer on macOS without ports",
			tag:  TagDeveloper,
			devices: []models.Device{
				newDevice(1, "LAPTOP", models.Specs{
					"os":      str("macOS"),
					"hasHdmi": flag(false),
					"hasUsbA": flag(false),
				}),
			},
			expected: 69,
		},
		{
			name: "developer on linux with unreported ports",
			tag:  TagDeveloper,
			devices: []models.Device{
				newDevice(1, "LAPTOP", models.Specs{"os": str("Linux")}),
				newDevice(2, "MOUSE", models.Specs{"mouseType": str("VERTICAL")}),
			},
			expected: 81,
		},
		{
			name: "video editing with small ram and large storage",
			tag:  TagVideoEditing,
			devices: []models.Device{
				newDevice(1, "LAPTOP", models.Specs{"ramGb": num(8), "storageGb": num(1024)}),
			},
			expected: 63,
		},
		{
			name: "game on integrated gpu with bluetooth keyboard",
			tag:  TagGame,
			devices: []models.Device{
				newDevice(1, "LAPTOP", models.Specs{"gpu": str("Intel Iris Xe")}),
				newDevice(2, "KEYBOARD", models.Specs{"connectionType": str("BLUETOOTH")}),
			},
			expected: 28,
		},
		{
			name: "game on dedicated gpu with wired mouse",
			tag:  TagGame,
			devices: []models.Device{
				newDevice(1, "LAPTOP", models.Specs{"gpu": str("NVIDIA GeForce RTX 4060")}),
				newDevice(2, "KEYBOARD", models.Specs{"connectionType": str("BLUETOOTH")}),
				newDevice(3, "MOUSE", models.Specs{"connectionType": str("WIRED_USB")}),
			},
			expected: 90,
		},
		{
			name: "game without peripherals",
			tag:  TagGame,
			devices: []models.Device{
				newDevice(1, "LAPTOP", models.Specs{"gpu": str("RTX 4070")}),
			},
			expected: 80,
		},
		{
			name: "tour with light bag, weak charger and bluetooth mouse",
			tag:  TagTour,
			devices: []models.Device{
				newDevice(1, "LAPTOP", models.Specs{
					"weightKg":          num(1.2),
					"chargingMethod":    str("USB_C"),
					"minRequiredPowerW": num(65),
				}),
				newDevice(2, "TABLET", models.Specs{"weightGram": num(500)}),
				newDevice(3, "CHARGER", models.Specs{"maxSinglePortPowerW": num(45)}),
				newDevice(4, "MOUSE", models.Specs{"connectionType": str("BLUETOOTH")}),
			},
			expected: 69,
		},
		{
			name: "tour prefers keyboard connection over mouse",
			tag:  TagTour,
			devices: []models.Device{
				newDevice(1, "LAPTOP", models.Specs{"chargingMethod": str("DC_ADAPTER")}),
				newDevice(2, "CHARGER", nil),
				newDevice(3, "KEYBOARD", models.Specs{"connectionType": str("WIRED_USB")}),
				newDevice(4, "MOUSE", models.Specs{"connectionType": str("BLUETOOTH")}),
			},
			expected: 47,
		},
		{
			name: "tour with unreported peripheral connection",
			tag:  TagTour,
			devices: []models.Device{
				newDevice(1, "KEYBOARD", nil),
				newDevice(2, "MOUSE", models.Specs{"connectionType": str("BLUETOOTH")}),
			},
			expected: BaseScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := withLifestyles(newPayload(tt.devices...), tt.tag)
			assert.Equal(t, tt.expected, LifestyleScore(p))
		})
	}
}

func TestLifestyleScore_SpacedSlashIsUnrecognized(t *testing.T) {
	p := newPayload(newDevice(1, "KEYBOARD", models.Specs{"keyboardSize": str("FULL")}))

	assert.Equal(t, BaseScore, LifestyleScore(withLifestyles(p, "# Office / portability")))
	assert.Greater(t, LifestyleScore(withLifestyles(p, "# Office/portability")), BaseScore)
}

func TestLifestyleScore_AverageFloors(t *testing.T) {
	p := withLifestyles(
		newPayload(
			newDevice(1, "KEYBOARD", models.Specs{"keyboardSize": str("FULL")}),
			newDevice(2, "LAPTOP", models.Specs{"hasHdmi": flag(true)}),
			newDevice(3, "MOUSE", models.Specs{"mouseType": str("VERTICAL")}),
		),
		"# Office/desk", "hobby",
	)

	// (91 + 65) / 2
	assert.Equal(t, 78, LifestyleScore(p))

	p.Lifestyles = append(p.Lifestyles, "unknown")
	// (91 + 65 + 65) / 3 = 73.67
	assert.Equal(t, 73, LifestyleScore(p))
}

func TestLifestyleScore_DuplicateTagsCountOnce(t *testing.T) {
	devices := []models.Device{newDevice(1, "LAPTOP", models.Specs{"ramGb": num(32), "storageGb": num(1024)})}

	single := LifestyleScore(withLifestyles(newPayload(devices...), "VIDEO_EDITING"))
	repeated := LifestyleScore(withLifestyles(newPayload(devices...), "VIDEO_EDITING", "video-editing", "#Video Editing"))

	assert.Equal(t, 87, single)
	assert.Equal(t, single, repeated)
}

func TestLifestyleDelta(t *testing.T) {
	p := newPayload(newDevice(1, "LAPTOP", models.Specs{"gpu": str("Radeon 780M")}))

	assert.Equal(t, 15, LifestyleDelta(p, TagGame))
	assert.Equal(t, 0, LifestyleDelta(p, "COOKING"))
	assert.Equal(t, 0, LifestyleDelta(nil, TagGame))
}

func TestIsDedicatedGPU(t *testing.T) {
	tests := []struct {
		gpu       string
		dedicated bool
	}{
		{"NVIDIA GeForce RTX 4060", true},
		{"GTX 1650", true},
		{"Quadro T1000", true},
		{"Intel Arc A370M", true},
		{"Intel Iris Xe Graphics", false},
		{"Intel UHD Graphics 620", false},
		{"Intel HD Graphics 520", false},
		{"Integrated", false},
		{"AMD Radeon RX 7600S", true},
		{"rx 6600 radeon", true},
		{"Radeon 7900 XT", true},
		{"Radeon 780M", true},
		{"AMD Radeon Graphics", false},
		{"Apple M2", false},
		{"  ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.gpu, func(t *testing.T) {
			assert.Equal(t, tt.dedicated, isDedicatedGPU(tt.gpu))
		})
	}
}
