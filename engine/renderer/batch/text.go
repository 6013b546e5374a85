package batch

import (
	"fmt"

	"github.com/spaghettifunk/anima-rb/engine/assets"
	"github.com/spaghettifunk/anima-rb/engine/math"
	"github.com/spaghettifunk/anima-rb/engine/renderer"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

// Font is a bitmap font with its atlas uploaded to a context.
type Font struct {
	Texture Texture
	face    *assets.BitmapFont
}

func NewFont(ctx *renderer.Context, face *assets.BitmapFont) (*Font, error) {
	tex, err := ctx.MakeTexture2D(&metadata.Texture2DDesc{
		Pixels:          face.Pixels,
		Width:           face.AtlasWidth,
		Height:          face.AtlasHeight,
		Format:          metadata.TexFormatRGBA8,
		LinearFiltering: true,
	})
	if err != nil {
		return nil, fmt.Errorf("font %s atlas: %w", face.Face, err)
	}
	return &Font{
		Texture: Texture{Handle: tex, Width: face.AtlasWidth, Height: face.AtlasHeight},
		face:    face,
	}, nil
}

func (f *Font) Release(ctx *renderer.Context) {
	ctx.FreeTexture2D(f.Texture.Handle)
	f.Texture = Texture{}
}

// LineHeight is the distance between baselines at the given vertical scale.
func (f *Font) LineHeight(scale float32) float32 {
	return float32(f.face.LineHeight) * scale
}

/**
 * @brief Appends one TexKindText rectangle per visible glyph of text with
 * its top-left corner at pos. It returns false without changing the batch
 * when every texture slot is taken by another texture.
 */
func (b *Batch) PushText(font *Font, text string, pos math.Vec2, scale math.Vec2, color math.Vec4) bool {
	slot, ok := b.UseTexture(font.Texture)
	if !ok {
		return false
	}
	face := font.face
	font.layout(text, scale, func(g assets.Glyph, x, y float32) {
		if g.Width == 0 || g.Height == 0 {
			return
		}
		b.PushRect(Rect{
			Pos: math.Vec2{
				X: pos.X + x + float32(g.XOffset)*scale.X,
				Y: pos.Y + y + float32(g.YOffset)*scale.Y,
			},
			Scaling:   math.NewMat2Scale(float32(g.Width)*scale.X, float32(g.Height)*scale.Y),
			TexIndex:  slot,
			TexKind:   TexKindText,
			Texcoords: TexcoordsFromPixels(g.X, g.Y, g.Width, g.Height, face.AtlasWidth, face.AtlasHeight),
			Color:     color,
		})
	})
	return true
}

// MeasureText returns the size of the box PushText would fill.
func (f *Font) MeasureText(text string, scale math.Vec2) math.Vec2 {
	width, lines := f.layout(text, scale, nil)
	return math.Vec2{X: width, Y: float32(lines) * f.LineHeight(scale.Y)}
}

// layout walks text calling emit with each glyph and its pen position
// relative to the text origin. Unknown runes fall back to '?' or are skipped.
func (f *Font) layout(text string, scale math.Vec2, emit func(g assets.Glyph, x, y float32)) (width float32, lines int) {
	face := f.face
	var x, y float32
	lines = 1
	prev := rune(-1)
	for _, ch := range text {
		switch ch {
		case '\n':
			width = max(width, x)
			x = 0
			y += f.LineHeight(scale.Y)
			lines++
			prev = -1
			continue
		case '\t':
			if g, ok := face.Glyphs[' ']; ok {
				x += float32(g.XAdvance*4) * scale.X
			}
			prev = ' '
			continue
		}

		g, ok := face.Glyphs[ch]
		if !ok {
			if g, ok = face.Glyphs['?']; !ok {
				continue
			}
		}
		if prev >= 0 {
			x += float32(face.Kerning(prev, ch)) * scale.X
		}
		prev = ch
		if emit != nil {
			emit(g, x, y)
		}
		x += float32(g.XAdvance) * scale.X
	}
	return max(width, x), lines
}
