package math

/**
 * @brief A 2D camera. Pos is the world point shown at the top-left corner
 * of the viewport, Size is the viewport in pixels and Zoom scales world
 * units to pixels. Y grows downwards.
 */
type Camera2D struct {
	Pos   Vec2
	Size  Vec2
	Zoom  float32
	Angle float32
}

// NewCamera2D returns a camera mapping one world unit to one pixel of a
// width x height viewport.
func NewCamera2D(width, height int) *Camera2D {
	return &Camera2D{
		Size: NewVec2(float32(width), float32(height)),
		Zoom: 1,
	}
}

/**
 * @brief Builds the matrix taking world coordinates to clip space: scale
 * to normalized units, rotate by Angle, then move Pos to the top-left
 * corner.
 */
func (c *Camera2D) ViewMatrix() Mat4 {
	sx := c.Zoom * 2 / c.Size.X
	sy := -c.Zoom * 2 / c.Size.Y

	scale := NewMat4Scale(sx, sy, 1)
	rotation := NewMat4EulerZ(c.Angle)
	translation := NewMat4Translation(-c.Pos.X*sx-1, -c.Pos.Y*sy+1, 0)
	return scale.Mul(rotation).Mul(translation)
}

// ScreenToWorld maps a pixel position in the viewport to world space. It is
// the inverse of ViewMatrix followed by the clip to pixel mapping.
func (c *Camera2D) ScreenToWorld(p Vec2) Vec2 {
	sx := c.Zoom * 2 / c.Size.X
	sy := -c.Zoom * 2 / c.Size.Y

	// clip space, minus the translation
	x := p.X*2/c.Size.X - 1 + c.Pos.X*sx + 1
	y := 1 - p.Y*2/c.Size.Y + c.Pos.Y*sy - 1

	cs, sn := kcos(c.Angle), ksin(c.Angle)
	x, y = x*cs+y*sn, -x*sn+y*cs
	return Vec2{X: x / sx, Y: y / sy}
}
