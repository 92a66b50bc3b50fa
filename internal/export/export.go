// Package export writes a heat map scene as an SVG or PNG image.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/kpumuk/kiqheat/internal/heatmap"
)

// ErrUnsupportedFormat is returned for output paths that are neither .svg
// nor .png.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var (
	colorBackdrop = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorText     = color.RGBA{R: 0x34, G: 0x3a, B: 0x40, A: 0xff}
	colorSelected = color.RGBA{R: 0x21, G: 0x25, B: 0x29, A: 0xff}
)

// Options controls image decoration.
type Options struct {
	// Title is drawn in the top-left corner when set.
	Title string
}

// Format is an image format.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// FormatFromPath picks the image format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return SVG, nil
	case ".png":
		return PNG, nil
	default:
		return "", fmt.Errorf("%w: %q (want .svg or .png)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Save writes sc to path in the format its extension names.
func Save(path string, sc heatmap.Scene, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := Write(file, format, sc, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Write encodes sc to w.
func Write(w io.Writer, format Format, sc heatmap.Scene, opts Options) error {
	switch format {
	case SVG:
		return WriteSVG(w, sc, opts)
	case PNG:
		return WritePNG(w, sc, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteSVG draws sc as an SVG document. Each cell carries its tooltip as a
// <title> element.
func WriteSVG(w io.Writer, sc heatmap.Scene, opts Options) error {
	canvas := svg.New(w)
	canvas.Start(sc.Width, sc.Height)
	canvas.Rect(0, 0, sc.Width, sc.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	if opts.Title != "" {
		canvas.Text(4, 12, opts.Title, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;font-weight:bold", css(colorText)))
	}

	canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", num(sc.OffsetX), num(sc.OffsetY)))
	canvas.Gid("boxes")
	for i, cv := range sc.Cells {
		r := cv.Rect
		style := fmt.Sprintf("fill:%s", cv.DisplayFill().Hex())
		if cv.State == heatmap.Selected {
			style += fmt.Sprintf(";stroke:%s;stroke-width:1", css(colorSelected))
		}
		canvas.Group(fmt.Sprintf(`id="cell-%d"`, i), fmt.Sprintf(`class="box-group %s"`, cv.State))
		canvas.Roundrect(round(r.X), round(r.Y), round(r.Width), round(r.Height), round(r.RX), round(r.RY), style)
		if cv.Title != "" {
			canvas.Title(cv.Title)
		}
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Gid("cols")
	for _, l := range sc.ColLabels {
		drawLabelSVG(canvas, l)
	}
	canvas.Gend()
	canvas.Gid("rows")
	for _, l := range sc.RowLabels {
		drawLabelSVG(canvas, l)
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return nil
}

func drawLabelSVG(canvas *svg.SVG, l heatmap.LabelView) {
	canvas.Text(round(l.X+l.DX), round(l.Y+l.DY), l.Text,
		fmt.Sprintf("fill:%s;font-size:10px;font-family:monospace;text-anchor:%s", css(colorText), l.Anchor))
}

// WritePNG rasterizes sc.
func WritePNG(w io.Writer, sc heatmap.Scene, opts Options) error {
	if sc.Width <= 0 || sc.Height <= 0 {
		return fmt.Errorf("render png: empty %dx%d scene", sc.Width, sc.Height)
	}
	dc := gg.NewContext(sc.Width, sc.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if opts.Title != "" {
		dc.SetColor(colorText)
		dc.DrawStringAnchored(opts.Title, 4, 12, 0, 0)
	}

	dc.Translate(sc.OffsetX, sc.OffsetY)
	for _, cv := range sc.Cells {
		drawCell(dc, cv)
	}

	dc.SetColor(colorText)
	for _, l := range sc.ColLabels {
		drawLabel(dc, l)
	}
	for _, l := range sc.RowLabels {
		drawLabel(dc, l)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawCell(dc *gg.Context, cv heatmap.CellView) {
	r := cv.Rect
	radius := math.Min(math.Min(r.RX, r.RY), math.Min(r.Width, r.Height)/2)
	dc.SetColor(cv.DisplayFill())
	dc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, radius)
	dc.Fill()
	if cv.State == heatmap.Selected {
		dc.SetColor(colorSelected)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, radius)
		dc.Stroke()
	}
}

func drawLabel(dc *gg.Context, l heatmap.LabelView) {
	var ax float64
	switch l.Anchor {
	case heatmap.AnchorMiddle:
		ax = 0.5
	case heatmap.AnchorEnd:
		ax = 1
	}
	dc.DrawStringAnchored(l.Text, l.X+l.DX, l.Y+l.DY, ax, 0)
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func round(v float64) int {
	return int(math.Round(v))
}

func num(v float64) string {
	return fmt.Sprintf("%d", round(v))
}
