package math

import "golang.org/x/image/math/f32"

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec4 represents a 4D vector. Colors use X, Y, Z, W as R, G, B, A.
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief A 2x2 matrix stored by columns. Quads use it to carry the two
 * edge vectors of a rectangle, so scaling and rotation share one value.
 */
type Mat2 struct {
	/** @brief Column 0 then column 1. */
	Data [4]float32
}

/**
 * @brief A 4x4 matrix in the row-vector convention: translation lives in
 * elements 12..14, so the storage order matches a column-major matrix that
 * multiplies column vectors. It can be uploaded to GLSL std140 and HLSL
 * constant buffers as is.
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data f32.Mat4
}
