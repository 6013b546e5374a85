package math

import (
	m "math"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI divided by 2. */
	K_HALF_PI float32 = 0.5 * K_PI
)

func ksin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func kcos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func ksqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func kabs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

// ------------------------------------------
// Vector 2
// ------------------------------------------

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec2Zero() Vec2 {
	return Vec2{}
}

func NewVec2One() Vec2 {
	return Vec2{X: 1, Y: 1}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vec2) Mul(other Vec2) Vec2 {
	return Vec2{X: v.X * other.X, Y: v.Y * other.Y}
}

func (v Vec2) MulScalar(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Length() float32 {
	return ksqrt(v.LengthSquared())
}

/**
 * @brief Compares all elements of v and other and ensures the difference
 * is less than tolerance.
 */
func (v Vec2) Compare(other Vec2, tolerance float32) bool {
	return kabs(v.X-other.X) <= tolerance && kabs(v.Y-other.Y) <= tolerance
}

// ------------------------------------------
// Vector 4
// ------------------------------------------

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func NewVec4One() Vec4 {
	return Vec4{X: 1, Y: 1, Z: 1, W: 1}
}

// ToRGBA8 converts a color with channels in [0, 1] to bytes, clamping out of
// range values.
func (v Vec4) ToRGBA8() [4]uint8 {
	return [4]uint8{
		uint8(255 * Clamp(v.X, 0, 1)),
		uint8(255 * Clamp(v.Y, 0, 1)),
		uint8(255 * Clamp(v.Z, 0, 1)),
		uint8(255 * Clamp(v.W, 0, 1)),
	}
}

// ------------------------------------------
// Matrix 2
// ------------------------------------------

/** @brief A matrix whose columns are the axes scaled by width and height. */
func NewMat2Scale(width, height float32) Mat2 {
	return Mat2{Data: [4]float32{width, 0, 0, height}}
}

/** @brief Rotates both columns of mt counter-clockwise by angle radians. */
func (mt Mat2) Rotate(angle float32) Mat2 {
	c, s := kcos(angle), ksin(angle)
	d := mt.Data
	return Mat2{Data: [4]float32{
		c*d[0] - s*d[1], s*d[0] + c*d[1],
		c*d[2] - s*d[3], s*d[2] + c*d[3],
	}}
}

func (mt Mat2) Column(i int) Vec2 {
	return Vec2{X: mt.Data[i*2], Y: mt.Data[i*2+1]}
}

/** @brief Returns mt * v. */
func (mt Mat2) MulVec2(v Vec2) Vec2 {
	return Vec2{
		X: mt.Data[0]*v.X + mt.Data[2]*v.Y,
		Y: mt.Data[1]*v.X + mt.Data[3]*v.Y,
	}
}

// ------------------------------------------
// Matrix 4
// ------------------------------------------

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 *
 * @return A new identity matrix
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

/**
 * @brief Returns the result of multiplying mt and other. In the row-vector
 * convention the result applies mt first.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out_matrix := Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := float32(0)
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out_matrix.Data[row*4+col] = sum
		}
	}
	return out_matrix
}

/**
 * @brief Creates and returns a translation matrix from the given position.
 */
func NewMat4Translation(x, y, z float32) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[12] = x
	out_matrix.Data[13] = y
	out_matrix.Data[14] = z
	return out_matrix
}

/**
 * @brief Returns a scale matrix using the provided scale.
 */
func NewMat4Scale(x, y, z float32) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = x
	out_matrix.Data[5] = y
	out_matrix.Data[10] = z
	return out_matrix
}

/**
 * @brief Creates a rotation matrix from the provided z angle.
 */
func NewMat4EulerZ(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()

	c := kcos(angle_radians)
	s := ksin(angle_radians)

	out_matrix.Data[0] = c
	out_matrix.Data[1] = s
	out_matrix.Data[4] = -s
	out_matrix.Data[5] = c
	return out_matrix
}

/** @brief Transforms the point (v, 0, 1) by mt and drops z and w. */
func (mt Mat4) TransformVec2(v Vec2) Vec2 {
	d := mt.Data
	return Vec2{
		X: v.X*d[0] + v.Y*d[4] + d[12],
		Y: v.X*d[1] + v.Y*d[5] + d[13],
	}
}
