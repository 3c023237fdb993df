package timeline

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"teatime/internal/trends"
)

// Padding is the space between the canvas edge and the plotting area, in logical units.
type Padding struct {
	Left, Right, Top, Bottom float64
}

// Canvas is the fixed logical drawing surface. The rendered element may be any size;
// see Viewport.
type Canvas struct {
	Width        float64
	Height       float64
	Padding      Padding
	MinBarHeight float64
	TopMargin    float64
}

// DefaultCanvas matches the timeline chart: 1000x160 with room for the year axis.
func DefaultCanvas() Canvas {
	return Canvas{
		Width:        1000,
		Height:       160,
		Padding:      Padding{Left: 40, Right: 20, Top: 12, Bottom: 34},
		MinBarHeight: 2,
		TopMargin:    6,
	}
}

// ChartWidth is the horizontal extent of the plotting area.
func (c Canvas) ChartWidth() float64 { return c.Width - c.Padding.Left - c.Padding.Right }

// ChartHeight is the vertical extent of the plotting area.
func (c Canvas) ChartHeight() float64 { return c.Height - c.Padding.Top - c.Padding.Bottom }

// Baseline is the y coordinate of the time axis.
func (c Canvas) Baseline() float64 { return c.Height - c.Padding.Bottom }

// Viewport is the size the canvas was actually rendered at.
type Viewport struct {
	RenderedWidth  float64 `json:"renderedWidth"`
	RenderedHeight float64 `json:"renderedHeight"`
}

// Scale maps the time/magnitude domain onto a canvas.
type Scale struct {
	Canvas       Canvas
	DomainMin    int64
	DomainMax    int64
	MaxMagnitude float64
}

// NewScale builds a scale. A non-positive maxMagnitude is treated as 1.
func NewScale(c Canvas, domainMin, domainMax int64, maxMagnitude float64) *Scale {
	if maxMagnitude <= 0 {
		maxMagnitude = 1
	}
	return &Scale{Canvas: c, DomainMin: domainMin, DomainMax: domainMax, MaxMagnitude: maxMagnitude}
}

// ScaleForDataset builds a scale spanning the full-span window of ds.
func ScaleForDataset(c Canvas, ds *trends.Dataset, span Window) *Scale {
	return NewScale(c, span.Start, span.End, ds.MaxMagnitude())
}

// Span is the domain width in milliseconds, never less than 1.
func (s *Scale) Span() int64 {
	return max(1, s.DomainMax-s.DomainMin)
}

// XFor maps ts to the x coordinate. Timestamps outside the domain collapse onto the nearest edge.
func (s *Scale) XFor(ts int64) float64 {
	ratio := float64(ts-s.DomainMin) / float64(s.Span())
	return s.Canvas.Padding.Left + clamp01(ratio)*s.Canvas.ChartWidth()
}

// HeightFor maps a magnitude to a bar height, never shorter than MinBarHeight.
func (s *Scale) HeightFor(magnitude float64) float64 {
	h := magnitude / s.MaxMagnitude * (s.Canvas.ChartHeight() - s.Canvas.TopMargin)
	return math.Max(s.Canvas.MinBarHeight, h)
}

// TimestampAtPixel inverts XFor for a pixel offset from the rendered element's left edge.
func (s *Scale) TimestampAtPixel(px float64, vp Viewport) int64 {
	if vp.RenderedWidth <= 0 {
		vp.RenderedWidth = s.Canvas.Width
	}
	leftPx := s.Canvas.Padding.Left / s.Canvas.Width * vp.RenderedWidth
	chartPx := s.Canvas.ChartWidth() / s.Canvas.Width * vp.RenderedWidth
	ratio := clamp01((px - leftPx) / chartPx)
	return s.DomainMin + int64(ratio*float64(s.Span()))
}

// ToLogical converts a rendered pixel position to logical canvas coordinates.
func (s *Scale) ToLogical(px, py float64, vp Viewport) (float64, float64) {
	x, y := px, py
	if vp.RenderedWidth > 0 {
		x = px / vp.RenderedWidth * s.Canvas.Width
	}
	if vp.RenderedHeight > 0 {
		y = py / vp.RenderedHeight * s.Canvas.Height
	}
	return x, y
}

// Tick is a labelled position on the time axis.
type Tick struct {
	Year int     `json:"year"`
	X    float64 `json:"x"`
}

// YearTicks returns one tick per calendar year from year(DomainMin) through year(DomainMax).
func (s *Scale) YearTicks() []Tick {
	first := time.UnixMilli(s.DomainMin).UTC().Year()
	last := time.UnixMilli(s.DomainMax).UTC().Year()
	ticks := make([]Tick, 0, last-first+1)
	for y := first; y <= last; y++ {
		ticks = append(ticks, Tick{Year: y, X: s.XFor(ForcedStart(y))})
	}
	return ticks
}

// Bar is the drawable rectangle for one mark.
type Bar struct {
	X, Y, Width, Height float64
}

// PeakBar positions the mark for p, centred on its timestamp.
func (s *Scale) PeakBar(p trends.Point, width float64) Bar {
	h := s.HeightFor(p.Magnitude)
	return Bar{
		X:      s.XFor(p.Timestamp) - width/2,
		Y:      s.Canvas.Baseline() - h,
		Width:  width,
		Height: h,
	}
}

// BucketBar lays out bucket i of n as an equal-width slot across the plotting area,
// with gap logical units between neighbours.
func (s *Scale) BucketBar(i, n int, magnitude, gap float64) Bar {
	if n <= 0 {
		return Bar{}
	}
	slot := s.Canvas.ChartWidth() / float64(n)
	w := math.Max(1, slot-gap)
	h := s.HeightFor(magnitude)
	return Bar{
		X:      s.Canvas.Padding.Left + float64(i)*slot + (slot-w)/2,
		Y:      s.Canvas.Baseline() - h,
		Width:  w,
		Height: h,
	}
}

// BucketAtPixel returns which of n equal slots a rendered pixel falls in, clamped to [0, n-1].
func (s *Scale) BucketAtPixel(px float64, n int, vp Viewport) int {
	if n <= 0 {
		return -1
	}
	x, _ := s.ToLogical(px, 0, vp)
	ratio := clamp01((x - s.Canvas.Padding.Left) / s.Canvas.ChartWidth())
	i := int(ratio * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Tooltip is the hover label and its position as a percentage of the canvas.
type Tooltip struct {
	Visible  bool    `json:"visible"`
	Content  string  `json:"content,omitempty"`
	LeftPct  float64 `json:"leftPct"`
	TopPct   float64 `json:"topPct"`
	PointIdx int     `json:"pointIndex"`
}

// TooltipOffset lifts the tooltip above the pointer, in logical units.
const TooltipOffset = 8

// TooltipAt builds the tooltip for p hovered at rendered pixel (px, py).
func (s *Scale) TooltipAt(idx int, p trends.Point, px, py float64, vp Viewport) Tooltip {
	x, y := s.ToLogical(px, py, vp)
	y -= TooltipOffset
	return Tooltip{
		Visible:  true,
		Content:  TooltipText(p),
		LeftPct:  x / s.Canvas.Width * 100,
		TopPct:   y / s.Canvas.Height * 100,
		PointIdx: idx,
	}
}

// TooltipText renders "label — date — score N".
func TooltipText(p trends.Point) string {
	return fmt.Sprintf("%s — %s — score %s", p.Label, p.Time().Format("2006-01-02"), strconv.FormatFloat(p.Magnitude, 'f', -1, 64))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
