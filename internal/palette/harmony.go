// Package palette generates colour palettes from a base colour and a
// colour-harmony rule.
package palette

import (
	"slices"
	"strings"
)

// Harmony names a colour-harmony rule.
type Harmony string

const (
	// HarmonyAnalogous shifts hue by 30° either way.
	HarmonyAnalogous Harmony = "analogous"
	// HarmonyComplementary shifts hue to the opposite side of the wheel.
	HarmonyComplementary Harmony = "complementary"
	// HarmonySplitComplementary shifts hue by 150° either way.
	HarmonySplitComplementary Harmony = "split_complementary"
	// HarmonyTriadic shifts hue by 120° or 240°.
	HarmonyTriadic Harmony = "triadic"
	// HarmonyTetradic shifts hue by 90°, 180° or 270°.
	HarmonyTetradic Harmony = "tetradic"
	// HarmonyNone applies no hue shift; only jitter varies derived colours.
	HarmonyNone Harmony = "none"
)

// Hue shifts as fractions of a full turn.
var harmonyShifts = map[Harmony][]float64{
	HarmonyAnalogous:          {30.0 / 360, -30.0 / 360},
	HarmonyComplementary:      {180.0 / 360},
	HarmonySplitComplementary: {150.0 / 360, -150.0 / 360},
	HarmonyTriadic:            {120.0 / 360, 240.0 / 360},
	HarmonyTetradic:           {90.0 / 360, 180.0 / 360, 270.0 / 360},
}

// Shifts returns the hue shifts for the rule. Unknown rules have none.
func (h Harmony) Shifts() []float64 {
	return slices.Clone(harmonyShifts[h])
}

// String returns the rule name.
func (h Harmony) String() string {
	return string(h)
}

// ValidHarmonies returns the named rules in a stable order.
func ValidHarmonies() []Harmony {
	return []Harmony{
		HarmonyAnalogous,
		HarmonyComplementary,
		HarmonySplitComplementary,
		HarmonyTriadic,
		HarmonyTetradic,
		HarmonyNone,
	}
}

// ParseHarmony normalises a rule name ("Split-Complementary" and
// "split_complementary" are the same rule). Unknown names map to HarmonyNone
// and ok is false.
func ParseHarmony(s string) (h Harmony, ok bool) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	h = Harmony(name)
	if slices.Contains(ValidHarmonies(), h) {
		return h, true
	}
	return HarmonyNone, false
}
