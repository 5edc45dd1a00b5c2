// internal/models/device.go
package models

import "strings"

// DeviceCategory is the canonical device category an open-set type tag maps to.
type DeviceCategory string

const (
	CategoryPhone    DeviceCategory = "SMARTPHONE"
	CategoryLaptop   DeviceCategory = "LAPTOP"
	CategoryTablet   DeviceCategory = "TABLET"
	CategoryWatch    DeviceCategory = "SMART_WATCH"
	CategoryAudio    DeviceCategory = "AUDIO"
	CategoryKeyboard DeviceCategory = "KEYBOARD"
	CategoryMouse    DeviceCategory = "MOUSE"
	CategoryCharger  DeviceCategory = "CHARGER"
	CategoryUnknown  DeviceCategory = ""
)

var categoryAliases = map[string]DeviceCategory{
	"SMARTPHONE":  CategoryPhone,
	"PHONE":       CategoryPhone,
	"LAPTOP":      CategoryLaptop,
	"TABLET":      CategoryTablet,
	"SMART_WATCH": CategoryWatch,
	"SMARTWATCH":  CategoryWatch,
	"WATCH":       CategoryWatch,
	"AUDIO":       CategoryAudio,
	"KEYBOARD":    CategoryKeyboard,
	"MOUSE":       CategoryMouse,
	"CHARGER":     CategoryCharger,
}

// CategoryOf canonicalizes a device type tag. Unknown tags map to CategoryUnknown.
func CategoryOf(deviceType string) DeviceCategory {
	return categoryAliases[strings.ToUpper(strings.TrimSpace(deviceType))]
}

type Device struct {
	DeviceID int64  `json:"deviceId"`
	Type     string `json:"type"`
	Specs    Specs  `json:"specs"`
}

// Category returns the canonical category of the device's type tag.
func (d Device) Category() DeviceCategory {
	return CategoryOf(d.Type)
}

// DevicePayload is the full input of one evaluation job.
type DevicePayload struct {
	CombinationID     int64    `json:"combinationId"`
	EvaluationVersion int64    `json:"evaluationVersion"`
	JobID             string   `json:"jobId,omitempty"`
	Devices           []Device `json:"devices"`
	Lifestyles        []string `json:"lifestyles"`
}

// DevicesOf returns every device of the given category in payload order.
func (p *DevicePayload) DevicesOf(category DeviceCategory) []Device {
	var out []Device
	for _, d := range p.Devices {
		if d.Category() == category {
			out = append(out, d)
		}
	}
	return out
}

// FirstOf returns the first device of the given category, or nil.
func (p *DevicePayload) FirstOf(category DeviceCategory) *Device {
	for i := range p.Devices {
		if p.Devices[i].Category() == category {
			return &p.Devices[i]
		}
	}
	return nil
}
