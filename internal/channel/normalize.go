package channel

import "github.com/sweeney/drift-lights/internal/logic"

// Normalized value range.
const (
	ValueMin = -100
	ValueMax = 100
)

// Normalize maps a raw pulse width onto [-100, 100] using the endpoints:
// [Center, High] maps linearly onto [0, 100] and [Low, Center] onto [-100, 0].
// Widths outside [Low, High] saturate. The result is monotonic in raw.
func Normalize(raw uint32, ep Endpoints) int {
	if raw >= ep.Center {
		return scale(logic.Clamp(raw, ep.Center, ep.High), ep.Center, ep.High, 0, ValueMax)
	}
	return scale(logic.Clamp(raw, ep.Low, ep.Center), ep.Low, ep.Center, ValueMin, 0)
}

// scale maps x from [inLo, inHi] onto [outLo, outHi], truncating.
func scale(x, inLo, inHi uint32, outLo, outHi int) int {
	if inHi <= inLo {
		return outHi
	}
	return int(int64(x-inLo)*int64(outHi-outLo)/int64(inHi-inLo)) + outLo
}
