// internal/engine/helpers_test.go
package engine

import "devicelife-worker/internal/models"

// ==========================
// Test Helper Functions
// ==========================

func newDevice(id int64, deviceType string, specs models.Specs) models.Device {
	if specs == nil {
		specs = models.Specs{}
	}
	return models.Device{DeviceID: id, Type: deviceType, Specs: specs}
}

func newPayload(devices ...models.Device) *models.DevicePayload {
	return &models.DevicePayload{
		CombinationID:     42,
		EvaluationVersion: 3,
		Devices:           devices,
	}
}

func withLifestyles(p *models.DevicePayload, tags ...string) *models.DevicePayload {
	p.Lifestyles = tags
	return p
}

func str(s string) models.SpecValue { return models.StringValue(s) }

func num(n float64) models.SpecValue { return models.NumberValue(n) }

func flag(b bool) models.SpecValue { return models.BoolValue(b) }

func list(items ...string) models.SpecValue { return models.ListValue(items...) }
