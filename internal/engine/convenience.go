// internal/engine/convenience.go
package engine

import (
	"math"
	"strings"

	"devicelife-worker/internal/models"
)

// Convenience metric weights. Only available metrics take part, and the
// weighted sum is renormalized by the weights that did.
const (
	weightSimultaneousCharge = 0.20
	weightLaptopCharge       = 0.25
	weightUsbCUniformity     = 0.20
	weightPhoneWireless      = 0.10
	weightBatteryLife        = 0.25
)

// Battery normalization ranges.
const (
	phoneMahMin  = 3000
	phoneMahMax  = 5500
	tabletMahMin = 6000
	tabletMahMax = 11000
	laptopWhMin  = 40
	laptopWhMax  = 100
)

// ConvenienceMetrics is the per-metric breakdown behind a convenience score.
type ConvenienceMetrics struct {
	SimultaneousCharge Score `json:"simultaneousCharge"`
	LaptopCharge       Score `json:"laptopCharge"`
	UsbCUniformity     Score `json:"usbCUniformity"`
	PhoneWireless      Score `json:"phoneWireless"`
	BatteryLife        Score `json:"batteryLife"`
}

// ConvenienceBreakdown computes every convenience metric from the first device
// of each category.
func ConvenienceBreakdown(p *models.DevicePayload) ConvenienceMetrics {
	if p == nil {
		return ConvenienceMetrics{}
	}
	l := lineupOf(p)
	return ConvenienceMetrics{
		SimultaneousCharge: simultaneousCharge(l),
		LaptopCharge:       laptopCharge(l),
		UsbCUniformity:     usbCUniformity(l),
		PhoneWireless:      phoneWireless(l),
		BatteryLife:        batteryLife(l),
	}
}

// ConvenienceScore returns the renormalized weighted average of the available
// metrics, or BaseScore when none is available.
func ConvenienceScore(p *models.DevicePayload) int {
	m := ConvenienceBreakdown(p)

	weighted := []struct {
		weight float64
		score  Score
	}{
		{weightSimultaneousCharge, m.SimultaneousCharge},
		{weightLaptopCharge, m.LaptopCharge},
		{weightUsbCUniformity, m.UsbCUniformity},
		{weightPhoneWireless, m.PhoneWireless},
		{weightBatteryLife, m.BatteryLife},
	}

	var sum, weightSum float64
	for _, w := range weighted {
		if !w.score.Available {
			continue
		}
		sum += float64(w.weight * w.score.Value)
		weightSum += w.weight
	}
	if weightSum <= 0 {
		return BaseScore
	}

	return clampScore(int(math.Round(100 * clamp01(sum/weightSum))))
}

// simultaneousCharge compares charger slots to the devices that need charging.
func simultaneousCharge(l lineup) Score {
	if l.charger == nil {
		return notApplicable()
	}

	need := chargeTargets(l)
	if need == 0 {
		return notApplicable()
	}

	ports, _ := l.charger.Specs.GetStringList("portConfiguration")
	slots := len(ports)
	if l.charger.Specs.StringIs("chargerType", "WIRELESS_STAND") {
		slots++
	}

	return scoreOf(math.Min(1, float64(slots)/float64(need)))
}

func chargeTargets(l lineup) int {
	need := 0
	for _, d := range []*models.Device{l.phone, l.laptop, l.tablet, l.watch, l.audio} {
		if d != nil {
			need++
		}
	}
	if _, ok := specsOf(l.keyboard).GetNumber("batteryMah"); ok {
		need++
	}
	if specsOf(l.mouse).StringIs("powerSource", "USB_C_RECHARGEABLE") {
		need++
	}
	return need
}

// laptopCharge rates whether the charger can power the laptop over USB-C.
func laptopCharge(l lineup) Score {
	if l.laptop == nil || l.charger == nil {
		return notApplicable()
	}

	method, ok := l.laptop.Specs.GetString("chargingMethod")
	if !ok {
		return notApplicable()
	}
	if !strings.EqualFold(method, "USB_C") {
		// DC_ADAPTER and any other method cannot draw from a shared charger
		return scoreOf(0)
	}

	required, okReq := l.laptop.Specs.GetNumber("minRequiredPowerW")
	supplied, okSup := l.charger.Specs.GetNumber("maxSinglePortPowerW")
	if !okReq || !okSup || required <= 0 || supplied <= 0 {
		return notApplicable()
	}

	ratio := supplied / required
	var v float64
	switch {
	case ratio >= 1:
		v = 1
	case ratio >= 0.8:
		v = 0.5
	default:
		v = 0
	}

	if v > 0 && !l.charger.Specs.ListContainsFold("supportedProtocols", "PD") {
		v = math.Min(v, 0.5)
	}
	return scoreOf(v)
}

// usbCUniformity is the share of cable-charged devices using USB-C, penalized
// when the charger offers no USB-C port.
func usbCUniformity(l lineup) Score {
	var usbC []bool

	if port, ok := specsOf(l.phone).GetString("chargingPort"); ok {
		usbC = append(usbC, strings.EqualFold(port, "USB_C"))
	}
	if port, ok := specsOf(l.tablet).GetString("chargingPort"); ok {
		usbC = append(usbC, strings.EqualFold(port, "USB_C"))
	}
	if specsOf(l.laptop).StringIs("chargingMethod", "USB_C") {
		usbC = append(usbC, true)
	}
	if caseType, ok := specsOf(l.audio).GetString("caseChargingType"); ok && !strings.EqualFold(caseType, "WIRELESS") {
		usbC = append(usbC, strings.EqualFold(caseType, "USB_C"))
	}
	if specsOf(l.mouse).StringIs("powerSource", "USB_C_RECHARGEABLE") {
		usbC = append(usbC, true)
	}

	if len(usbC) == 0 {
		return notApplicable()
	}

	count := 0
	for _, isC := range usbC {
		if isC {
			count++
		}
	}
	ratio := float64(count) / float64(len(usbC))

	if l.charger != nil && !l.charger.Specs.ListContainsFold("portConfiguration", "C") {
		ratio *= 0.7
	}
	return scoreOf(ratio)
}

func phoneWireless(l lineup) Score {
	mode, ok := specsOf(l.phone).GetString("wirelessCharging")
	if !ok {
		return notApplicable()
	}

	switch {
	case strings.EqualFold(mode, "MAGSAFE"):
		return scoreOf(1.0)
	case strings.EqualFold(mode, "QI"):
		return scoreOf(0.8)
	case strings.EqualFold(mode, "NONE"):
		return scoreOf(0)
	default:
		return notApplicable()
	}
}

// batteryLife averages the normalized capacities that are reported.
func batteryLife(l lineup) Score {
	var parts []float64

	if mah, ok := specsOf(l.phone).GetNumber("batteryMah"); ok {
		parts = append(parts, normalize(mah, phoneMahMin, phoneMahMax))
	}
	if mah, ok := specsOf(l.tablet).GetNumber("batteryMah"); ok {
		parts = append(parts, normalize(mah, tabletMahMin, tabletMahMax))
	}
	if wh, ok := specsOf(l.laptop).GetNumber("batteryWh"); ok {
		parts = append(parts, normalize(wh, laptopWhMin, laptopWhMax))
	}

	if len(parts) == 0 {
		return notApplicable()
	}

	var sum float64
	for _, v := range parts {
		sum += v
	}
	return scoreOf(sum / float64(len(parts)))
}

func normalize(x, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return clamp01((x - lo) / (hi - lo))
}
