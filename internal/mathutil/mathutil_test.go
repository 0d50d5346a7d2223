package mathutil

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEulerZYXAppliesXFirst(t *testing.T) {
	m := EulerZYX(math.Pi/2, 0, math.Pi/2)
	// X rotation sends +Y to +Z, Z rotation leaves +Z alone.
	v := m.MulVec3(Vec3{0, 1, 0})
	if !near(v[0], 0) || !near(v[1], 0) || !near(v[2], 1) {
		t.Errorf("EulerZYX * Y = %v", v)
	}
}

func TestFromTRS(t *testing.T) {
	m := FromTRS(Vec3{1, 2, 3}, RotZ(math.Pi/2), Vec3{2, 2, 2})
	p := m.MulPoint(Vec3{1, 0, 0})
	if !near(p[0], 1) || !near(p[1], 4) || !near(p[2], 3) {
		t.Errorf("MulPoint = %v", p)
	}
	d := m.MulDir(Vec3{1, 0, 0})
	if !near(d[0], 0) || !near(d[1], 2) || !near(d[2], 0) {
		t.Errorf("MulDir = %v", d)
	}
}

func TestQuatFromMat3(t *testing.T) {
	h := math.Sqrt(0.5)
	for _, c := range []struct {
		r    Mat3
		want Quat
	}{
		{RotZ(0), Quat{0, 0, 0, 1}},
		{RotX(math.Pi / 2), Quat{h, 0, 0, h}},
		{RotY(math.Pi / 2), Quat{0, h, 0, h}},
		{RotZ(math.Pi), Quat{0, 0, 1, 0}},
		{RotX(math.Pi), Quat{1, 0, 0, 0}},
		{RotY(math.Pi), Quat{0, 1, 0, 0}},
	} {
		q := QuatFromMat3(c.r)
		// q and -q encode the same rotation.
		sign := 1.0
		if q[0]*c.want[0]+q[1]*c.want[1]+q[2]*c.want[2]+q[3]*c.want[3] < 0 {
			sign = -1
		}
		for i := range q {
			if math.Abs(sign*q[i]-c.want[i]) > 1e-9 {
				t.Errorf("QuatFromMat3(%v) = %v, want %v", c.r, q, c.want)
				break
			}
		}
	}
}

func TestVec3(t *testing.T) {
	a, b := Vec3{1, 0, 0}, Vec3{0, 2, 0}
	if c := a.Cross(b); c != (Vec3{0, 0, 2}) {
		t.Errorf("Cross = %v", c)
	}
	if m := a.Add(b).Scale(0.5); m != (Vec3{0.5, 1, 0}) {
		t.Errorf("midpoint = %v", m)
	}
	if d := b.Sub(a); d != (Vec3{-1, 2, 0}) || !near(d.Dot(a), -1) {
		t.Errorf("Sub = %v", d)
	}
	if n := b.Normalize(); n != (Vec3{0, 1, 0}) || (Vec3{}).Normalize() != (Vec3{}) {
		t.Errorf("Normalize = %v", n)
	}
}
