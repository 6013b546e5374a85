package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/fzipp/bmfont"
	"golang.org/x/image/draw"
)

// Glyph is one character cell of a font atlas, in pixels.
type Glyph struct {
	Codepoint rune
	X, Y      int
	Width     int
	Height    int
	XOffset   int
	YOffset   int
	XAdvance  int
}

type KerningPair struct {
	First, Second rune
}

// BitmapFont is an AngelCode BMFont with its atlas decoded to RGBA8 pixels.
type BitmapFont struct {
	Face       string
	Size       int
	LineHeight int
	Baseline   int

	AtlasWidth  int
	AtlasHeight int
	// Pixels holds AtlasWidth*AtlasHeight tightly packed RGBA8 texels.
	Pixels []byte

	Glyphs   map[rune]Glyph
	Kernings map[KerningPair]int
}

// LoadBitmapFont parses a text .fnt descriptor and decodes its atlas page.
// Only single-page fonts are supported.
func LoadBitmapFont(path string) (*BitmapFont, error) {
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load bitmap font %s: %w", path, err)
	}
	desc := font.Descriptor

	pageFile := ""
	pages := 0
	for _, p := range desc.Pages {
		pages++
		if p.ID == 0 {
			pageFile = p.File
		}
	}
	if pages != 1 || pageFile == "" {
		return nil, fmt.Errorf("bitmap font %s: %d pages, want exactly one", path, pages)
	}

	out := &BitmapFont{
		Face:        desc.Info.Face,
		Size:        int(desc.Info.Size),
		LineHeight:  int(desc.Common.LineHeight),
		Baseline:    int(desc.Common.Base),
		AtlasWidth:  int(desc.Common.ScaleW),
		AtlasHeight: int(desc.Common.ScaleH),
		Glyphs:      make(map[rune]Glyph, len(desc.Chars)),
		Kernings:    make(map[KerningPair]int, len(desc.Kerning)),
	}
	for _, g := range desc.Chars {
		out.Glyphs[rune(g.ID)] = Glyph{
			Codepoint: rune(g.ID),
			X:         int(g.X),
			Y:         int(g.Y),
			Width:     int(g.Width),
			Height:    int(g.Height),
			XOffset:   int(g.XOffset),
			YOffset:   int(g.YOffset),
			XAdvance:  int(g.XAdvance),
		}
	}
	for p, k := range desc.Kerning {
		out.Kernings[KerningPair{First: rune(p.First), Second: rune(p.Second)}] = int(k.Amount)
	}

	out.Pixels, err = loadAtlas(filepath.Join(filepath.Dir(path), pageFile), out.AtlasWidth, out.AtlasHeight)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// loadAtlas decodes an atlas page into an RGBA8 buffer of the size the
// descriptor declares.
func loadAtlas(path string, width, height int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode font atlas %s: %w", path, err)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba.Pix, nil
}

// Kerning returns the extra advance between a and b.
func (f *BitmapFont) Kerning(a, b rune) int {
	return f.Kernings[KerningPair{First: a, Second: b}]
}
