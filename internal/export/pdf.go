// Package export writes finished artworks to printable documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const titleHeight = 12.0

// WritePDF writes an A4 portrait page holding title and the PNG artwork
// scaled to fit the printable area.
func WritePDF(w io.Writer, png []byte, title string) error {
	if len(png) == 0 {
		return errors.New("export pdf: empty image")
	}
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetCreator("ColoringStudio", true)
	p.SetTitle(title, true)
	p.AddPage()

	tr := p.UnicodeTranslatorFromDescriptor("")
	p.SetFont("Helvetica", "B", 18)
	left, top, right, bottom := p.GetMargins()
	pageW, pageH := p.GetPageSize()
	p.CellFormat(0, titleHeight, tr(title), "", 1, "C", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := p.RegisterImageOptionsReader("artwork", opts, bytes.NewReader(png))
	if p.Err() {
		return fmt.Errorf("export pdf: %w", p.Error())
	}

	boxW := pageW - left - right
	boxH := pageH - top - bottom - titleHeight
	w0, h0 := info.Width(), info.Height()
	scale := min(boxW/w0, boxH/h0)
	imgW, imgH := w0*scale, h0*scale
	x := left + (boxW-imgW)/2
	y := top + titleHeight + (boxH-imgH)/2
	p.ImageOptions("artwork", x, y, imgW, imgH, false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}
