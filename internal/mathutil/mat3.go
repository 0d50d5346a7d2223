package mathutil

// Mat3 is a row-major 3×3 matrix; element (r, c) is at index r*3+c.
type Mat3 [9]float64

// Mat3Mul returns a × b, so b is applied to a vector first.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for i := range m {
		r, c := i/3*3, i%3
		m[i] = a[r]*b[c] + a[r+1]*b[3+c] + a[r+2]*b[6+c]
	}
	return m
}

// MulVec3 applies m to v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	var out Vec3
	for r := range out {
		out[r] = m[r*3]*v[0] + m[r*3+1]*v[1] + m[r*3+2]*v[2]
	}
	return out
}
