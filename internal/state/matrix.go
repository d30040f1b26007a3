package state

// A Matrix is a PDF transformation matrix in the row-vector
// convention: a point p is mapped as p·M, and M.Mul(N) applies
// M before N.
type Matrix [3][3]float64

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// NewMatrix builds a Matrix from the six numbers of a PDF cm/Tm
// operand list.
func NewMatrix(a, b, c, d, e, f float64) Matrix {
	return Matrix{
		{a, b, 0},
		{c, d, 0},
		{e, f, 1},
	}
}

// Translation returns the transform that shifts by (tx, ty).
func Translation(tx, ty float64) Matrix {
	return NewMatrix(1, 0, 0, 1, tx, ty)
}

// Components returns the matrix as the six numbers a, b, c, d, e, f.
func (m Matrix) Components() (a, b, c, d, e, f float64) {
	return m[0][0], m[0][1], m[1][0], m[1][1], m[2][0], m[2][1]
}

// Mul returns m×n. Most transforms seen in content streams are
// scale-and-translate only, which multiplies with far fewer terms.
func (m Matrix) Mul(n Matrix) Matrix {
	if m.sparse() && n.sparse() {
		return Matrix{
			{m[0][0] * n[0][0], 0, 0},
			{0, m[1][1] * n[1][1], 0},
			{m[2][0]*n[0][0] + n[2][0], m[2][1]*n[1][1] + n[2][1], 1},
		}
	}

	var mn Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				mn[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return mn
}

// Apply maps the point (x, y) through m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return x*m[0][0] + y*m[1][0] + m[2][0], x*m[0][1] + y*m[1][1] + m[2][1]
}

func (m Matrix) sparse() bool {
	return m[0][1] == 0 && m[0][2] == 0 &&
		m[1][0] == 0 && m[1][2] == 0 &&
		m[2][2] == 1
}
