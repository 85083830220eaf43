package shamir

// Arithmetic in GF(2^8) with the AES reduction polynomial
// x^8 + x^4 + x^3 + x + 1 (0x11B). Addition and subtraction are XOR.

// mul multiplies a and b using shift-and-add with reduction.
func mul(a, b byte) byte {
	var p byte
	for b > 0 {
		if b&1 != 0 {
			p ^= a
		}
		carry := a & 0x80
		a <<= 1
		if carry != 0 {
			a ^= 0x1B
		}
		b >>= 1
	}
	return p
}

// inv returns a^-1 as a^254. inv(0) is 0; callers never divide by zero
// because share indices are distinct and non-zero.
func inv(a byte) byte {
	if a == 0 {
		return 0
	}
	r := a
	for i := 0; i < 6; i++ {
		r = mul(r, r)
		r = mul(r, a)
	}
	return mul(r, r)
}

// div returns a / b.
func div(a, b byte) byte {
	return mul(a, inv(b))
}

// eval evaluates c[0] + c[1]*x + ... + c[len-1]*x^(len-1) by Horner's rule.
func eval(coeffs []byte, x byte) byte {
	var y byte
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = mul(y, x) ^ coeffs[i]
	}
	return y
}

// interpolateAtZero returns the value at x=0 of the unique polynomial of
// degree < len(xs) through the points (xs[i], ys[i]).
func interpolateAtZero(xs, ys []byte) byte {
	var secret byte
	for i := range xs {
		// l_i(0) = prod_{j != i} x_j / (x_i - x_j)
		basis := byte(1)
		for j := range xs {
			if i == j {
				continue
			}
			basis = mul(basis, div(xs[j], xs[i]^xs[j]))
		}
		secret ^= mul(ys[i], basis)
	}
	return secret
}
