package colorspace

import "math"

// Weights are the CIEDE2000 parametric factors. The reference conditions
// use 1 for all three.
type Weights struct {
	KL float64 `json:"kl"`
	KC float64 `json:"kc"`
	KH float64 `json:"kh"`
}

// DefaultWeights are the reference-condition parametric factors.
var DefaultWeights = Weights{KL: 1, KC: 1, KH: 1}

// pow(25, 7)
const pow25To7 = 6103515625.0

// CIEDE2000 returns the CIEDE2000 color difference between x and y using
// DefaultWeights.
//
// The result is symmetric in its arguments and exactly 0 when x == y.
func CIEDE2000(x, y Lab) float64 {
	return CIEDE2000Weighted(x, y, DefaultWeights)
}

// CIEDE2000Weighted returns the CIEDE2000 color difference between x and y
// with custom parametric factors.
//
// The computation follows Sharma, Wu and Dalal, "The CIEDE2000
// Color-Difference Formula: Implementation Notes, Supplementary Test Data,
// and Mathematical Observations" (2005). Hue angles are in radians.
func CIEDE2000Weighted(x, y Lab, w Weights) float64 {
	L1, a1, b1 := x.L, x.A, x.B
	L2, a2, b2 := y.L, y.A, y.B

	// Chroma correction of a*.
	cab1 := math.Sqrt(a1*a1 + b1*b1)
	cab2 := math.Sqrt(a2*a2 + b2*b2)
	cab := 0.5 * (cab1 + cab2)
	cab7 := math.Pow(cab, 7)
	g := 0.5 * (1 - math.Sqrt(cab7/(cab7+pow25To7)))

	ap1 := (1 + g) * a1
	ap2 := (1 + g) * a2
	cp1 := math.Sqrt(ap1*ap1 + b1*b1)
	cp2 := math.Sqrt(ap2*ap2 + b2*b2)
	cpp := cp1 * cp2

	// Hue angles in [0, 2pi).
	hp1 := math.Atan2(b1, ap1)
	if hp1 < 0 {
		hp1 += 2 * math.Pi
	}
	hp2 := math.Atan2(b2, ap2)
	if hp2 < 0 {
		hp2 += 2 * math.Pi
	}

	dL := L2 - L1
	dC := cp2 - cp1

	// Hue difference wrapped into (-pi, pi]. Meaningless when either color
	// is achromatic.
	dhp := hp2 - hp1
	if dhp > math.Pi {
		dhp -= 2 * math.Pi
	}
	if dhp < -math.Pi {
		dhp += 2 * math.Pi
	}
	if cpp == 0 {
		dhp = 0
	}

	// Signed hue difference.
	dH := 2 * math.Sqrt(cpp) * math.Sin(dhp/2)

	lp := 0.5 * (L1 + L2)
	cp := 0.5 * (cp1 + cp2)

	// Mean hue. When one chroma is zero the sum equals the other hue.
	hp := 0.5 * (hp1 + hp2)
	if math.Abs(hp1-hp2) > math.Pi {
		hp -= math.Pi
	}
	if hp < 0 {
		hp += 2 * math.Pi
	}
	if cpp == 0 {
		hp = hp1 + hp2
	}

	lpm502 := (lp - 50) * (lp - 50)
	sl := 1 + 0.015*lpm502/math.Sqrt(20+lpm502)
	sc := 1 + 0.045*cp
	t := 1 - 0.17*math.Cos(hp-math.Pi/6) +
		0.24*math.Cos(2*hp) +
		0.32*math.Cos(3*hp+math.Pi/30) -
		0.20*math.Cos(4*hp-63*math.Pi/180)
	sh := 1 + 0.015*cp*t

	ex := (180/math.Pi*hp - 275) / 25
	deltaTheta := 30 * math.Pi / 180 * math.Exp(-(ex * ex))
	cp7 := math.Pow(cp, 7)
	rc := 2 * math.Sqrt(cp7/(cp7+pow25To7))
	rt := -math.Sin(2*deltaTheta) * rc

	dL /= w.KL * sl
	dC /= w.KC * sc
	dH /= w.KH * sh

	return math.Sqrt(dL*dL + dC*dC + dH*dH + rt*dC*dH)
}
