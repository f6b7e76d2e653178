package particles

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"go.plaquette.dev/platecount/rimage"
	"go.plaquette.dev/platecount/vision/segmentation"
)

const (
	overlayOpacity = 0.5
	// golden angle in degrees, spreads successive hues evenly
	hueStep = 137.50776405
)

// LabelColors returns n distinct colours, one per label starting at label 1.
func LabelColors(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		hue := math.Mod(float64(i)*hueStep, 360)
		colors[i] = colorful.Hsv(hue, 0.85, 0.95).Clamped()
	}
	return colors
}

// Caption returns the text written above an overlay showing count particles.
func Caption(count int) string {
	return fmt.Sprintf("isolated platelets detected (%d)", count)
}

// Overlay blends a pseudo-coloured rendering of labels over img and adds a caption with
// the particle count.
func Overlay(img *image.Gray, labels *segmentation.LabelMap, count int) image.Image {
	return OverlayWithCaption(img, labels, Caption(count))
}

// OverlayWithCaption is Overlay with arbitrary caption text.
func OverlayWithCaption(img *image.Gray, labels *segmentation.LabelMap, caption string) image.Image {
	base := imaging.Clone(img)
	colors := LabelColors(labels.NumLabels())
	layer := image.NewNRGBA(base.Bounds())
	for y := 0; y < labels.Height(); y++ {
		for x := 0; x < labels.Width(); x++ {
			if l := labels.At(x, y); l != 0 {
				layer.Set(x, y, colors[l-1])
			}
		}
	}
	blended := imaging.Overlay(base, layer, image.Pt(0, 0), overlayOpacity)

	banner := bannerHeight(blended.Bounds().Dy())
	dc := gg.NewContext(blended.Bounds().Dx(), blended.Bounds().Dy()+int(banner))
	dc.DrawImage(blended, 0, int(banner))
	rimage.DrawBanner(dc, caption, banner, color.White, color.Black)
	return dc.Image()
}

func bannerHeight(imageHeight int) float64 {
	return math.Max(18, math.Min(48, float64(imageHeight)/12))
}

// StageImage is a named intermediate rendering.
type StageImage struct {
	Name  string
	Image image.Image
}

// StageImages renders the intermediate products of res as they would appear in a
// diagnostic figure. It returns nil when res was computed without KeepStages.
func (res *Result) StageImages(img *image.Gray) []StageImage {
	if res.Stages == nil {
		return nil
	}
	s := res.Stages
	return []StageImage{
		{Name: "corrected", Image: s.Corrected},
		{Name: "normalized", Image: s.Normalized},
		{Name: "binary", Image: s.Binary.ToGray()},
		{Name: "cleaned", Image: s.Cleaned.ToGray()},
		{Name: "candidates", Image: OverlayWithCaption(img, s.Candidates,
			fmt.Sprintf("candidates (%d)", s.Candidates.NumLabels()))},
		{Name: "isolated", Image: Overlay(img, res.Particles.Labels, res.Count())},
	}
}
