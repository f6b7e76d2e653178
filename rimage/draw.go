package rimage

import (
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var font *truetype.Font

// init sets up the fonts we want to use.
func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Font returns the font we use for drawing.
func Font() *truetype.Font {
	return font
}

// DrawBanner paints a filled strip of the given height across the top of the context and
// writes text centred in it.
func DrawBanner(dc *gg.Context, text string, height float64, bg, fg color.Color) {
	dc.SetColor(bg)
	dc.DrawRectangle(0, 0, float64(dc.Width()), height)
	dc.Fill()
	dc.SetFontFace(truetype.NewFace(Font(), &truetype.Options{Size: height * 0.6}))
	dc.SetColor(fg)
	dc.DrawStringAnchored(text, float64(dc.Width())/2, height/2, 0.5, 0.5)
}
