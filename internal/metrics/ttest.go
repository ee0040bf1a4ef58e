package metrics

import "math"

// tTest runs a one-sample two-sided t-test of the series mean against
// zero. Degenerate series (fewer than 2 samples, zero variance) come
// back as t=0, p=1.
func tTest(r []float64) (tStat, pValue float64) {
	n := len(r)
	std := sampleStd(r)
	if n < 2 || std == 0 {
		return 0, 1
	}

	tStat = mean(r) / (std / math.Sqrt(float64(n)))
	pValue = studentTPValue(tStat, n-1)
	return tStat, pValue
}

// studentTPValue is the two-sided p-value of a t statistic with df
// degrees of freedom: I_x(df/2, 1/2) with x = df/(df+t^2).
func studentTPValue(t float64, df int) float64 {
	fdf := float64(df)
	x := fdf / (fdf + t*t)
	return regIncBeta(fdf/2, 0.5, x)
}

// regIncBeta is the regularized incomplete beta function I_x(a, b),
// evaluated with the continued fraction expansion. Standard numeric
// treatment: use the symmetry relation to keep the fraction convergent.
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lbeta, _ := math.Lgamma(a + b)
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	front := math.Exp(lbeta - la - lb + a*math.Log(x) + b*math.Log(1-x))

	if x < (a+1)/(a+b+2) {
		return front * betacf(a, b, x) / a
	}
	return 1 - front*betacf(b, a, 1-x)/b
}

// betacf evaluates the continued fraction for the incomplete beta
// function by the modified Lentz method.
func betacf(a, b, x float64) float64 {
	const (
		maxIter = 200
		eps     = 3e-14
		fpmin   = 1e-300
	)

	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < fpmin {
		d = fpmin
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIter; m++ {
		fm := float64(m)
		m2 := 2 * fm

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpmin {
			d = fpmin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpmin {
			c = fpmin
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpmin {
			d = fpmin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpmin {
			c = fpmin
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < eps {
			break
		}
	}

	return h
}
