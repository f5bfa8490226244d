package qr

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

const imgSize = 512

// Pos is a position on an image.
type Pos struct {
	x, y int
}

// calcPosFn is a function that calculates a position on an image.
type calcPosFn func(rgba *image.RGBA, d *font.Drawer, s string, fontFace *basicfont.Face) Pos

// loadImage opens an image file and decodes it as an `image.Image`.
func loadImage(fileName string) (image.Image, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("closing image", "file", fileName, "error", err)
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	return img, nil
}

// addLabel draws label centered at the top or the bottom of the PNG at
// fileName, in place. Labels wider than the image are shortened.
func addLabel(fileName, label, position string) error {
	img, err := loadImage(fileName)
	if err != nil {
		return err
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, image.Point{}, draw.Src)

	face, calc := inconsolata.Regular8x16, calcBottomPos
	if position == "top" {
		face, calc = inconsolata.Bold8x16, calcTopPos
	}

	label = fitLabel(label, rgba.Bounds().Dx()/face.Advance)

	d := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: face,
	}
	pos := calc(rgba, d, label, face)
	d.Dot = fixed.Point26_6{X: fixed.I(pos.x), Y: fixed.I(pos.y)}
	d.DrawString(label)

	out, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			slog.Warn("closing image", "file", fileName, "error", err)
		}
	}()

	if err := png.Encode(out, rgba); err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}

	return nil
}

func fitLabel(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes || maxRunes < 4 {
		return s
	}

	return string(r[:maxRunes-3]) + "..."
}

// calcBottomPos centers the label one line above the bottom edge.
func calcBottomPos(rgba *image.RGBA, d *font.Drawer, s string, fontFace *basicfont.Face) Pos {
	labelWidth := d.MeasureString(s).Ceil()
	labelHeight := fontFace.Metrics().Height.Ceil()

	return Pos{
		x: (rgba.Bounds().Dx() - labelWidth) / 2,
		y: rgba.Bounds().Dy() - labelHeight,
	}
}

// calcTopPos centers the label two lines below the top edge.
func calcTopPos(rgba *image.RGBA, d *font.Drawer, s string, fontFace *basicfont.Face) Pos {
	labelWidth := d.MeasureString(s).Ceil()
	labelHeight := fontFace.Metrics().Height.Ceil()

	return Pos{
		x: (rgba.Bounds().Dx() - labelWidth) / 2,
		y: 2 * labelHeight,
	}
}
