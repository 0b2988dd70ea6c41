package canvas

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	svg "github.com/ajstarks/svgo"

	"github.com/shubh-37/startupai/internal/models"
)

const (
	bullet      = "•"
	ellipsis    = "..."
	emptyNotice = "No items defined"
)

type palette struct {
	Fill   string
	Stroke string
	Header string
}

var palettes = map[models.CanvasType]palette{
	models.CanvasValueProposition:     {Fill: "#f5f9ff", Stroke: "#2f6fb3", Header: "#1c4f86"},
	models.CanvasBusinessModel:        {Fill: "#f7fbf4", Stroke: "#4c8a3f", Header: "#2f5f25"},
	models.CanvasTestingBusinessIdeas: {Fill: "#fffaf2", Stroke: "#c07a1c", Header: "#8a5210"},
}

// CreateVPCSVG renders a value proposition canvas.
func CreateVPCSVG(title string, data models.CanvasData, opts RenderOptions) string {
	out, _ := RenderSVG(models.CanvasValueProposition, title, data, opts)
	return out
}

// CreateBMCSVG renders a business model canvas.
func CreateBMCSVG(title string, data models.CanvasData, opts RenderOptions) string {
	out, _ := RenderSVG(models.CanvasBusinessModel, title, data, opts)
	return out
}

// CreateTBISVG renders a testing business ideas board.
func CreateTBISVG(title string, data models.CanvasData, opts RenderOptions) string {
	out, _ := RenderSVG(models.CanvasTestingBusinessIdeas, title, data, opts)
	return out
}

// RenderSVG draws a canvas of type t as a standalone SVG document.
func RenderSVG(t models.CanvasType, title string, data models.CanvasData, opts RenderOptions) (string, error) {
	opts = opts.withDefaults()
	boxes, err := layoutFor(t, opts.Width, opts.Height)
	if err != nil {
		return "", err
	}
	colors := palettes[t]

	var buf bytes.Buffer
	s := svg.New(&buf)
	s.Start(opts.Width, opts.Height)
	s.Title(heading(t, title))
	s.Rect(0, 0, opts.Width, opts.Height, "fill:#ffffff")
	s.Text(padding, 38, heading(t, title), "font-family:Helvetica,Arial,sans-serif;font-size:24px;font-weight:bold;fill:#222222")

	for _, b := range boxes {
		s.Rect(b.X, b.Y, b.W, b.H, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", colors.Fill, colors.Stroke))
		s.Text(b.X+10, b.Y+25, b.Title, fmt.Sprintf("font-family:Helvetica,Arial,sans-serif;font-size:16px;font-weight:bold;fill:%s", colors.Header))
		writeItems(s, data[b.Key], b)
	}
	s.End()
	return buf.String(), nil
}

func heading(t models.CanvasType, title string) string {
	if strings.TrimSpace(title) == "" {
		return typeLabel(t)
	}
	return typeLabel(t) + ": " + title
}

// RenderItems renders the item list of one section as an SVG fragment for a
// box of the given width.
func RenderItems(items []string, width int) string {
	var buf bytes.Buffer
	s := svg.New(&buf)
	writeItems(s, items, box{W: width, H: DefaultHeight})
	return buf.String()
}

func writeItems(s *svg.SVG, items []string, b box) {
	const itemStyle = "font-family:Helvetica,Arial,sans-serif;font-size:13px;fill:#333333"

	x := b.X + 10
	y := b.Y + 50
	shown, hidden := visibleItems(items)
	if len(shown) == 0 {
		s.Text(x, y, emptyNotice, "font-family:Helvetica,Arial,sans-serif;font-size:13px;font-style:italic;fill:#999999")
		return
	}

	limit := b.maxChars()
	for _, item := range shown {
		s.Text(x, y, TruncateText(bullet+" "+item, limit), itemStyle)
		y += lineHeight
	}
	if hidden > 0 {
		s.Text(x, y, fmt.Sprintf("+%d more", hidden), "font-family:Helvetica,Arial,sans-serif;font-size:12px;font-style:italic;fill:#777777")
	}
}

// TruncateText shortens s to at most n runes, ending with an ellipsis when
// anything was cut.
func TruncateText(s string, n int) string {
	if s == "" || n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return string([]rune(ellipsis)[:n])
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:n-len(ellipsis)]), " ") + ellipsis
}
