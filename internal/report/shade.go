package report

import "math"

// Shades go from empty to full.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// Negative and Positive shade the two sides of a diverging scale.
var (
	Negative = []rune{'·', '-', '=', '≡'}
	Positive = []rune{'·', '+', '*', '#'}
)

// MapShade maps a value of [0,1] to a shade, values outside are clamped.
func MapShade(value float64) rune {
	return pick(Shades, value)
}

// MapDiverging maps a value of [-limit,limit] to a shade according to its sign.
func MapDiverging(value, limit float64) rune {
	if limit <= 0 {
		return Positive[0]
	}
	v := value / limit
	if v < 0 {
		return pick(Negative, -v)
	}
	return pick(Positive, v)
}

func pick(shades []rune, value float64) rune {
	if math.IsNaN(value) || value <= 0 {
		return shades[0]
	}
	if value >= 1 {
		return shades[len(shades)-1]
	}
	return shades[int(value*float64(len(shades)-1)+0.5)]
}
