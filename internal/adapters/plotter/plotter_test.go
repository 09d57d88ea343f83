package plotter

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
)

func date(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func sampleLayout(t *testing.T) domain.ChartLayout {
	return domain.ChartLayout{
		Caption:     "Fan Art Daily",
		WindowStart: date(t, "2026-07-15"),
		XMin:        date(t, "2026-09-01"),
		XMax:        date(t, "2026-10-15"),
		YMax:        7,
		LabelCount:  4,
		Points: []domain.Point{
			{Date: date(t, "2026-09-01"), Count: 2},
			{Date: date(t, "2026-09-20"), Count: 5},
			{Date: date(t, "2026-10-10"), Count: 1},
		},
	}
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func hasAccent(img image.Image) bool {
	near := func(a, b uint32) bool {
		d := int(a>>8) - int(b)
		return d > -8 && d < 8
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if near(r, uint32(Accent.R)) && near(g, uint32(Accent.G)) && near(bl, uint32(Accent.B)) {
				return true
			}
		}
	}
	return false
}

func TestPNGWriter_CanvasSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fan_art_daily.png")

	require.NoError(t, NewPNGWriter().Write(context.Background(), sampleLayout(t), path))

	img := decode(t, path)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
	assert.True(t, hasAccent(img), "series should be drawn in the accent color")
}

func TestPNGWriter_EmptyLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiet_daily.png")
	today := date(t, "2026-10-15")
	layout := domain.ChartLayout{
		Caption:    "Quiet Daily",
		XMin:       today,
		XMax:       today,
		YMax:       12,
		LabelCount: 1,
	}

	require.NoError(t, NewPNGWriter().Write(context.Background(), layout, path))

	img := decode(t, path)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.False(t, hasAccent(img))
}

func TestPNGWriter_BadPath(t *testing.T) {
	err := NewPNGWriter().Write(context.Background(), sampleLayout(t), "/nonexistent/dir/chart.png")
	assert.Error(t, err)
}

func TestDayTicker(t *testing.T) {
	min := dayValue(date(t, "2026-07-15"))
	max := dayValue(date(t, "2026-10-15"))

	tests := []struct {
		labels int
		want   int
	}{
		{labels: 1, want: 1},
		{labels: 2, want: 2},
		{labels: 10, want: 10},
		{labels: 30, want: 30},
	}

	for _, tt := range tests {
		ticks := dayTicker{Labels: tt.labels}.Ticks(min, max)
		assert.LessOrEqual(t, len(ticks), tt.want, "labels=%d", tt.labels)
		assert.NotEmpty(t, ticks)
		for _, tick := range ticks {
			assert.GreaterOrEqual(t, tick.Value, min)
			assert.LessOrEqual(t, tick.Value, max)
			assert.Len(t, tick.Label, 5, "month/day label")
		}
	}

	ticks := dayTicker{Labels: 2}.Ticks(min, max)
	assert.Equal(t, "07/15", ticks[0].Label)
}

func TestDayTicker_SingleDay(t *testing.T) {
	today := dayValue(date(t, "2026-10-15"))
	ticks := dayTicker{Labels: 1}.Ticks(today-43200, today+43200)
	require.Len(t, ticks, 1)
	assert.Equal(t, "10/15", ticks[0].Label)
}

func TestIntTicks(t *testing.T) {
	assert.Equal(t, 1, niceStep(7))
	assert.Equal(t, 2, niceStep(12))
	assert.Equal(t, 5, niceStep(42))
	assert.Equal(t, 10, niceStep(102))
	assert.Equal(t, 20, niceStep(150))

	ticks := intTicks(12)
	require.NotEmpty(t, ticks)
	assert.Equal(t, "0", ticks[0].Label)
	assert.Equal(t, "12", ticks[len(ticks)-1].Label)
}

func TestHTMLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fan_art_daily.html")
	w := NewHTMLWriter()
	assert.Equal(t, ".html", w.Ext())

	require.NoError(t, w.Write(context.Background(), sampleLayout(t), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.Contains(html, "Fan Art Daily"))
	assert.True(t, strings.Contains(html, "2026-09-20"))
	assert.True(t, strings.Contains(html, AccentHex))
}
