package canvas

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/startupai/internal/models"
)

func TestCreateVPCSVG(t *testing.T) {
	out := CreateVPCSVG("Bookkeeping", fullVPC(), RenderOptions{})

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")
	assert.Contains(t, out, `width="1200"`)
	assert.Contains(t, out, `height="800"`)
	for _, header := range []string{"Customer Jobs", "Pains", "Gains", "Products &amp; Services", "Pain Relievers", "Gain Creators"} {
		assert.Contains(t, out, header)
	}
	assert.Contains(t, out, "Automated bookkeeping app")
}

func TestCreateBMCSVG(t *testing.T) {
	out := CreateBMCSVG("Marketplace", fullBMC(), RenderOptions{Width: 1600, Height: 900})

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")
	assert.Contains(t, out, `width="1600"`)
	for _, header := range []string{"Key Partners", "Key Activities", "Key Resources", "Value Propositions",
		"Customer Relationships", "Channels", "Customer Segments", "Cost Structure", "Revenue Streams"} {
		assert.Contains(t, out, header)
	}
}

func TestCreateTBISVG(t *testing.T) {
	out := CreateTBISVG("", models.CanvasData{
		models.SectionHypotheses: {"We believe agencies will pay for automated books"},
	}, RenderOptions{})

	assert.Contains(t, out, "Testing Business Ideas")
	assert.Contains(t, out, "Hypotheses")
	assert.Equal(t, 2, strings.Count(out, emptyNotice))
}

func TestCreateSVG_EmptyData(t *testing.T) {
	out := CreateVPCSVG("Empty", models.CanvasData{}, RenderOptions{})
	assert.Equal(t, 6, strings.Count(out, "No items defined"))

	out = CreateBMCSVG("Empty", nil, RenderOptions{})
	assert.Equal(t, 9, strings.Count(out, "No items defined"))
}

func TestRenderSVG_EscapesText(t *testing.T) {
	out, err := RenderSVG(models.CanvasValueProposition, "R&D <beta>", models.CanvasData{
		models.SectionPains: {"Costs > revenue & churn"},
	}, RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, out, "R&amp;D &lt;beta&gt;")
	assert.NotContains(t, out, "<beta>")
	assert.Contains(t, out, "&amp; churn")
}

func TestRenderSVG_Deterministic(t *testing.T) {
	a := CreateBMCSVG("Same", fullBMC(), RenderOptions{})
	b := CreateBMCSVG("Same", fullBMC(), RenderOptions{})
	assert.Equal(t, a, b)
}

func TestRenderSVG_UnsupportedType(t *testing.T) {
	_, err := RenderSVG("leanCanvas", nil, RenderOptions{})
	assert.ErrorIs(t, err, models.ErrUnsupportedCanvasType)
}

func TestRenderItems_LimitsToFive(t *testing.T) {
	items := []string{"one", "two", "three", "four", "five", "six", "seven", "eight"}
	out := RenderItems(items, 300)

	assert.Equal(t, 5, strings.Count(out, bullet))
	assert.Contains(t, out, "five")
	assert.NotContains(t, out, "six")
	assert.Contains(t, out, "+3 more")
}

func TestRenderItems_AlwaysBulleted(t *testing.T) {
	out := RenderItems([]string{"only"}, 300)
	assert.Contains(t, out, bullet)
	assert.NotContains(t, out, "more")
}

func TestRenderItems_Empty(t *testing.T) {
	assert.Contains(t, RenderItems(nil, 300), emptyNotice)
	assert.Contains(t, RenderItems([]string{""}, 300), emptyNotice)
}

func TestRenderItems_TruncatesLongItems(t *testing.T) {
	long := strings.Repeat("word ", 60)
	out := RenderItems([]string{long}, 200)
	assert.Contains(t, out, ellipsis)
	assert.NotContains(t, out, long)
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "empty", in: "", n: 10, want: ""},
		{name: "fits", in: "short", n: 10, want: "short"},
		{name: "exact", in: "0123456789", n: 10, want: "0123456789"},
		{name: "truncated", in: "abcdefghijklmnop", n: 10, want: "abcdefg..."},
		{name: "tiny budget", in: "abcdefghijklmnop", n: 2, want: ".."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateText(tt.in, tt.n))
		})
	}
}

func TestTruncateText_LengthBound(t *testing.T) {
	inputs := []string{"plain ascii sentence that is long", "ünïcödé strings stay rune safe ✓✓✓", strings.Repeat("x", 500)}
	for _, in := range inputs {
		for n := 1; n < 40; n++ {
			got := TruncateText(in, n)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), n)
			assert.True(t, utf8.ValidString(got))
			if utf8.RuneCountInString(in) > n && n > len(ellipsis) {
				assert.True(t, strings.HasSuffix(got, ellipsis), "%q truncated to %d", in, n)
			}
		}
	}
}
