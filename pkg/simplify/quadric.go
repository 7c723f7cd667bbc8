package simplify

// Quadric is a symmetric 4x4 error matrix stored as its 10 unique coefficients.
//
// Layout (row-major upper triangle):
//
//	q[0] q[1] q[2] q[3]
//	     q[4] q[5] q[6]
//	          q[7] q[8]
//	               q[9]
//
// The 3x3 block A = q[0..2], q[4..5], q[7]; b = (q[3], q[6], q[8]); c = q[9].
// The zero value is the empty quadric.
type Quadric [10]float64

// NewQuadric builds the fundamental error quadric of the plane ax + by + cz + d = 0.
func NewQuadric(a, b, c, d float64) Quadric {
	return Quadric{
		a * a, a * b, a * c, a * d,
		b * b, b * c, b * d,
		c * c, c * d,
		d * d,
	}
}

// Add returns the component-wise sum q + o.
func (q Quadric) Add(o Quadric) Quadric {
	for i := range q {
		q[i] += o[i]
	}
	return q
}

// Evaluate returns xᵀAx + 2bᵀx + c at (x, y, z).
func (q Quadric) Evaluate(x, y, z float64) float64 {
	return q[0]*x*x + 2*q[1]*x*y + 2*q[2]*x*z + 2*q[3]*x +
		q[4]*y*y + 2*q[5]*y*z + 2*q[6]*y +
		q[7]*z*z + 2*q[8]*z +
		q[9]
}

// Det returns the determinant of the 3x3 matrix whose entries are the
// coefficients at the given indices, listed row by row.
func (q Quadric) Det(a11, a12, a13, a21, a22, a23, a31, a32, a33 int) float64 {
	return q[a11]*q[a22]*q[a33] + q[a13]*q[a21]*q[a32] + q[a12]*q[a23]*q[a31] -
		q[a13]*q[a22]*q[a31] - q[a11]*q[a23]*q[a32] - q[a12]*q[a21]*q[a33]
}
