package canvas

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/shubh-37/startupai/internal/models"
)

const (
	MimeSVG = "image/svg+xml"
	MimePNG = "image/png"
	MimePDF = "application/pdf"

	pngNotice = "PNG rasterization is not available; use the SVG or PDF export"
)

// ExportSVG wraps rendered SVG markup as an asset.
func ExportSVG(svgContent string) models.VisualAsset {
	return models.VisualAsset{Content: svgContent, MimeType: MimeSVG, Size: len(svgContent)}
}

// ExportPNG returns a placeholder asset. Raster output needs a headless
// renderer the service does not ship with.
func ExportPNG(svgContent string) models.VisualAsset {
	return models.VisualAsset{Content: pngNotice, MimeType: MimePNG, Size: len(pngNotice)}
}

// A4 landscape, in points.
const (
	pdfWidth  = 842
	pdfHeight = 595
)

// ExportPDF draws the canvas on a single A4 landscape page. Content is the
// base64 encoded document; Size is the raw byte count.
func ExportPDF(c *models.Canvas) (models.VisualAsset, error) {
	boxes, err := layoutFor(c.Type, pdfWidth, pdfHeight)
	if err != nil {
		return models.VisualAsset{}, err
	}
	colors := palettes[c.Type]

	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(heading(c.Type, c.Title), true)
	pdf.SetCreator("startupai", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(34, 34, 34)
	pdf.Text(padding, 38, tr(heading(c.Type, c.Title)))

	fill := mustRGB(colors.Fill)
	stroke := mustRGB(colors.Stroke)
	header := mustRGB(colors.Header)
	for _, b := range boxes {
		pdf.SetFillColor(fill[0], fill[1], fill[2])
		pdf.SetDrawColor(stroke[0], stroke[1], stroke[2])
		pdf.SetLineWidth(1.5)
		pdf.Rect(float64(b.X), float64(b.Y), float64(b.W), float64(b.H), "FD")

		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(header[0], header[1], header[2])
		pdf.Text(float64(b.X+8), float64(b.Y+18), tr(b.Title))

		writePDFItems(pdf, tr, c.Data[b.Key], b)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return models.VisualAsset{}, fmt.Errorf("failed to write pdf: %w", err)
	}
	return models.VisualAsset{
		Content:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType: MimePDF,
		Size:     buf.Len(),
	}, nil
}

func writePDFItems(pdf *fpdf.Fpdf, tr func(string) string, items []string, b box) {
	x := float64(b.X + 8)
	y := float64(b.Y + 36)
	shown, hidden := visibleItems(items)
	if len(shown) == 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(153, 153, 153)
		pdf.Text(x, y, emptyNotice)
		return
	}

	limit := (b.W - 16) / 5
	if limit < 10 {
		limit = 10
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(51, 51, 51)
	for _, item := range shown {
		pdf.Text(x, y, tr(TruncateText(bullet+" "+item, limit)))
		y += 12
	}
	if hidden > 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(119, 119, 119)
		pdf.Text(x, y, fmt.Sprintf("+%d more", hidden))
	}
}

// mustRGB parses a #rrggbb color from the fixed palettes.
func mustRGB(hex string) [3]int {
	var rgb [3]int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &rgb[0], &rgb[1], &rgb[2]); err != nil {
		return [3]int{0, 0, 0}
	}
	return rgb
}

// Export produces one asset for a canvas in the requested format.
func Export(c *models.Canvas, format models.VisualFormat, opts RenderOptions) (models.VisualAsset, error) {
	switch format {
	case models.FormatSVG:
		out, err := RenderSVG(c.Type, c.Title, c.Data, opts)
		if err != nil {
			return models.VisualAsset{}, err
		}
		return ExportSVG(out), nil
	case models.FormatPNG:
		out, err := RenderSVG(c.Type, c.Title, c.Data, opts)
		if err != nil {
			return models.VisualAsset{}, err
		}
		return ExportPNG(out), nil
	case models.FormatPDF:
		return ExportPDF(c)
	}
	return models.VisualAsset{}, fmt.Errorf("%w: unknown visual format %q", models.ErrInvalidInput, format)
}
