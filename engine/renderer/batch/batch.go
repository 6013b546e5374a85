// Package batch draws 2D rectangles through a renderer.Context. A Batch
// collects rectangles sharing up to four textures; a Renderer turns it into
// vertex data and the fewest draws the backend's capabilities allow.
package batch

import (
	"github.com/spaghettifunk/anima-rb/engine/math"
	"github.com/spaghettifunk/anima-rb/engine/renderer"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// MaxTextures is the number of texture slots one batch can reference.
const MaxTextures = 4

// TexKind selects how the fragment shader treats a rectangle's texel.
const (
	TexKindPlain int16 = iota
	// TexKindRoundedRect fades the corners with a radius of half the shorter side.
	TexKindRoundedRect
	// TexKindText uses the atlas alpha as coverage of a white glyph.
	TexKindText
)

// texcoordOne is the int16 value a normalized texture coordinate of 1 maps to.
const texcoordOne = 1<<15 - 1

// FullTexcoords covers a whole texture.
var FullTexcoords = [4]int16{0, 0, texcoordOne, texcoordOne}

// Texture is a texture handle with the size the shader needs for filtering.
type Texture struct {
	Handle metadata.Texture2D
	Width  int
	Height int
}

func (t Texture) isNull() bool {
	return t.Handle.IsNull()
}

/**
 * @brief One rectangle. Scaling holds the two edge vectors starting at Pos,
 * so a rotated rectangle is a rotated Scaling. Texcoords are x, y, width,
 * height normalized to the int16 range.
 */
type Rect struct {
	Pos       math.Vec2
	Scaling   math.Mat2
	TexIndex  int16
	TexKind   int16
	Texcoords [4]int16
	Color     math.Vec4
}

// Batch is a list of rectangles and the textures they sample. The zero
// value is an empty batch.
type Batch struct {
	Textures [MaxTextures]Texture
	Elements []Rect
}

func (b *Batch) PushRect(r Rect) {
	b.Elements = append(b.Elements, r)
}

// Len is the number of rectangles in the batch.
func (b *Batch) Len() int {
	return len(b.Elements)
}

// Reset empties the batch and its texture slots, keeping the element storage.
func (b *Batch) Reset() {
	b.Textures = [MaxTextures]Texture{}
	b.Elements = b.Elements[:0]
}

// UseTexture returns the slot holding t, claiming an empty one when t is not
// in the batch yet. It returns false when all slots hold other textures.
func (b *Batch) UseTexture(t Texture) (int16, bool) {
	empty := -1
	for i := range b.Textures {
		if b.Textures[i].isNull() {
			if empty < 0 {
				empty = i
			}
			continue
		}
		if renderer.IsSameHandle(b.Textures[i].Handle, t.Handle) {
			return int16(i), true
		}
	}
	if empty < 0 {
		return -1, false
	}
	b.Textures[empty] = t
	return int16(empty), true
}

// TexcoordsFromPixels converts a pixel rectangle of a width x height texture
// into normalized Rect texcoords.
func TexcoordsFromPixels(x, y, w, h, width, height int) [4]int16 {
	return [4]int16{
		int16(x * texcoordOne / width),
		int16(y * texcoordOne / height),
		int16(w * texcoordOne / width),
		int16(h * texcoordOne / height),
	}
}
