package spanlib

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bamiaux/rez"
	"github.com/disintegration/gift"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultBGColor fills canvas areas no monitor image covers and any
// letterboxing the fit styles introduce.
const DefaultBGColor = "#000000"

var defaultBG = color.NRGBA{A: 0xff}

var namedColors = map[string]color.NRGBA{
	"aqua":    {0x00, 0xff, 0xff, 0xff},
	"black":   {0x00, 0x00, 0x00, 0xff},
	"blue":    {0x00, 0x00, 0xff, 0xff},
	"fuchsia": {0xff, 0x00, 0xff, 0xff},
	"gray":    {0x80, 0x80, 0x80, 0xff},
	"green":   {0x00, 0x80, 0x00, 0xff},
	"grey":    {0x80, 0x80, 0x80, 0xff},
	"lime":    {0x00, 0xff, 0x00, 0xff},
	"maroon":  {0x80, 0x00, 0x00, 0xff},
	"navy":    {0x00, 0x00, 0x80, 0xff},
	"olive":   {0x80, 0x80, 0x00, 0xff},
	"purple":  {0x80, 0x00, 0x80, 0xff},
	"red":     {0xff, 0x00, 0x00, 0xff},
	"silver":  {0xc0, 0xc0, 0xc0, 0xff},
	"teal":    {0x00, 0x80, 0x80, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
}

// ParseColor accepts #RRGGBB or #RGB hex and the basic named colors.
func ParseColor(s string) (color.NRGBA, error) {
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		switch len(hex) {
		case 6:
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				break
			}
			return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
		case 3:
			v, err := strconv.ParseUint(hex, 16, 16)
			if err != nil {
				break
			}
			r, g, b := uint8(v>>8&0xf), uint8(v>>4&0xf), uint8(v&0xf)
			return color.NRGBA{r * 0x11, g * 0x11, b * 0x11, 0xff}, nil
		}
		return color.NRGBA{}, fmt.Errorf("invalid color [%s]", s)
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	return color.NRGBA{}, fmt.Errorf("invalid color [%s]", s)
}

// Frame is a mutable raster plus the background color its geometry
// operations fill exposed areas with.
type Frame struct {
	img *image.RGBA
	bg  color.NRGBA
}

func newFrame(img image.Image) *Frame {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &Frame{img: rgba, bg: defaultBG}
}

// LoadImage decodes the image at path, sniffing the format from the
// contents. PNG, JPEG, GIF, BMP, TIFF and WebP decode.
func LoadImage(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wallpaper [%s]: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding wallpaper [%s]: %w", path, err)
	}
	return newFrame(img), nil
}

// NewCanvas builds a w×h frame uniformly filled with bg.
func NewCanvas(w, h int, bg color.NRGBA) (*Frame, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &Frame{img: img, bg: bg}, nil
}

func (f *Frame) Width() int  { return f.img.Bounds().Dx() }
func (f *Frame) Height() int { return f.img.Bounds().Dy() }

func (f *Frame) Clone() *Frame {
	img := image.NewRGBA(f.img.Bounds())
	copy(img.Pix, f.img.Pix)
	return &Frame{img: img, bg: f.bg}
}

// SetBackground parses s and records it as the fill color for later
// extend operations.
func (f *Frame) SetBackground(s string) error {
	c, err := ParseColor(s)
	if err != nil {
		return err
	}
	f.bg = c
	return nil
}

var scaleFilter = rez.NewLanczosFilter(3)

// Scale resamples the frame to exactly w×h.
func (f *Frame) Scale(w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("invalid scale target %dx%d", w, h)
	}
	if w == f.Width() && h == f.Height() {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := rez.Convert(dst, f.img, scaleFilter); err != nil {
		// rez rejects some extreme geometries
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), f.img, f.img.Bounds(), xdraw.Src, nil)
	}
	f.img = dst
	return nil
}

// Crop takes the w×h region at (x, y), clipped to the frame. The result is
// smaller than requested when the region overhangs the frame.
func (f *Frame) Crop(w, h, x, y int) error {
	region := image.Rect(x, y, x+w, y+h).Intersect(f.img.Bounds())
	if region.Empty() {
		return fmt.Errorf("crop %dx%d at (%d,%d) misses the image", w, h, x, y)
	}
	dst := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(dst, dst.Bounds(), f.img, region.Min, draw.Src)
	f.img = dst
	return nil
}

// Extend rebuilds the frame as a w×h canvas filled with the background
// color, compositing the current pixels at (x, y). The offsets may place
// the pixels partly or entirely outside the new canvas.
func (f *Frame) Extend(w, h, x, y int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("invalid extent %dx%d", w, h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(f.bg), image.Point{}, draw.Src)
	draw.Draw(dst, f.img.Bounds().Add(image.Pt(x, y)), f.img, image.Point{}, draw.Over)
	f.img = dst
	return nil
}

// Composite draws src over the frame with its top-left corner at (x, y),
// clipped to the frame bounds.
func (f *Frame) Composite(src *Frame, x, y int) {
	draw.Draw(f.img, src.img.Bounds().Add(image.Pt(x, y)), src.img, image.Point{}, draw.Over)
}

// Rotate turns the image clockwise by deg, a multiple of 90.
func (f *Frame) Rotate(deg int) error {
	var g *gift.GIFT
	switch ((deg % 360) + 360) % 360 {
	case 0:
		return nil
	case 90:
		g = gift.New(gift.Rotate270())
	case 180:
		g = gift.New(gift.Rotate180())
	case 270:
		g = gift.New(gift.Rotate90())
	default:
		return fmt.Errorf("unsupported rotation %d", deg)
	}
	dst := image.NewRGBA(g.Bounds(f.img.Bounds()))
	g.Draw(dst, f.img)
	f.img = dst
	return nil
}

// SupportedOutputFormat reports whether ext names a format Write can encode.
func SupportedOutputFormat(ext string) bool {
	switch strings.ToLower(ext) {
	case "bmp", "png", "jpg", "jpeg", "gif", "tif", "tiff":
		return true
	}
	return false
}

// Write encodes the frame to path based on its extension, creating missing
// parent directories first.
func (f *Frame) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory for [%s]: %w", path, err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating [%s]: %w", path, err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "bmp":
		err = bmp.Encode(out, f.img)
	case "png":
		err = png.Encode(out, f.img)
	case "jpg", "jpeg":
		err = jpeg.Encode(out, f.img, &jpeg.Options{Quality: 100})
	case "gif":
		err = gif.Encode(out, f.img, nil)
	case "tif", "tiff":
		err = tiff.Encode(out, f.img, nil)
	default:
		err = fmt.Errorf("no encoder for output format [%s]", ext)
	}
	if err != nil {
		out.Close()
		return fmt.Errorf("encoding [%s]: %w", path, err)
	}
	return out.Close()
}
