// Package render draws the map table as an SVG choropleth of the Choice A ratio.
//
// Regions are projected with an equirectangular projection scaled by the
// cosine of the mean latitude, which is close enough for a country-sized map.
// Regions without a finite ratio are outlined but left unfilled.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/twpayne/go-geom"

	"github.com/tordrt/refmap/internal/schema"
)

const (
	DefaultTitle = "Choice A votes by region"

	gradientID  = "ratio-scale"
	titleHeight = 40
	legendWidth = 90
	margin      = 10
	edgeStyle   = "stroke:black;stroke-width:0.4;stroke-linejoin:round;fill-rule:evenodd"
	textStyle   = "font-family:sans-serif;fill:black"
)

var ErrNothingToDraw = errors.New("no region geometry to draw")

// Options configures the drawing
type Options struct {
	Width  int
	Height int
	Title  string
}

// SVGRenderer writes the map as a standalone SVG document
type SVGRenderer struct {
	writer *errWriter
	opts   Options
}

// NewSVGRenderer creates a renderer writing to w
func NewSVGRenderer(w io.Writer, opts Options) *SVGRenderer {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	return &SVGRenderer{writer: &errWriter{w: w}, opts: opts}
}

// Render draws every record. It fails when no record has a drawable geometry.
func (r *SVGRenderer) Render(records []schema.MapRecord) error {
	if r.opts.Width <= 0 || r.opts.Height <= 0 {
		return fmt.Errorf("invalid map size %dx%d", r.opts.Width, r.opts.Height)
	}

	bounds := geom.NewBounds(geom.XY)
	for _, rec := range records {
		if rec.Geometry != nil {
			bounds.Extend(rec.Geometry)
		}
	}
	if bounds.IsEmpty() {
		return ErrNothingToDraw
	}

	proj := newProjection(bounds, r.plotArea())
	scale := newColorScale(records)

	canvas := svg.New(r.writer)
	canvas.Start(r.opts.Width, r.opts.Height)
	canvas.Title(r.opts.Title)

	canvas.Def()
	canvas.LinearGradient(gradientID, 0, 100, 0, 0, scale.stops())
	canvas.DefEnd()

	canvas.Text(r.opts.Width/2, titleHeight-12, r.opts.Title,
		"text-anchor:middle;font-size:18px;"+textStyle)

	canvas.Gstyle(edgeStyle)
	for _, rec := range records {
		d := proj.path(rec.Geometry)
		if d == "" {
			continue
		}
		fill := "fill:none"
		if rec.HasRatio() {
			fill = "fill:" + scale.color(rec.Ratio)
		}
		canvas.Path(d, fill, fmt.Sprintf(`id="region-%s"`, rec.RegionCode))
	}
	canvas.Gend()

	r.drawLegend(canvas, scale)
	canvas.End()

	if r.writer.err != nil {
		return fmt.Errorf("failed to write svg: %w", r.writer.err)
	}
	return nil
}

func (r *SVGRenderer) plotArea() area {
	return area{
		x: margin,
		y: titleHeight,
		w: float64(r.opts.Width - legendWidth - 2*margin),
		h: float64(r.opts.Height - titleHeight - margin),
	}
}

func (r *SVGRenderer) drawLegend(canvas *svg.SVG, scale colorScale) {
	x := r.opts.Width - legendWidth + margin
	top := titleHeight + margin
	height := (r.opts.Height - titleHeight) / 2
	canvas.Rect(x, top, 18, height, "fill:url(#"+gradientID+");"+edgeStyle)

	label := "text-anchor:start;font-size:12px;" + textStyle
	if !scale.valid {
		canvas.Text(x+24, top+12, "n/a", label)
		return
	}
	canvas.Text(x+24, top+12, fmt.Sprintf("%.2f", scale.max), label)
	canvas.Text(x+24, top+height, fmt.Sprintf("%.2f", scale.min), label)
}

type area struct {
	x, y, w, h float64
}

// projection maps lon/lat to pixel coordinates inside an area
type projection struct {
	minX, maxY float64
	kx         float64
	scale      float64
	offsetX    float64
	offsetY    float64
}

func newProjection(b *geom.Bounds, a area) projection {
	minX, minY := b.Min(0), b.Min(1)
	maxX, maxY := b.Max(0), b.Max(1)

	kx := math.Cos((minY + maxY) / 2 * math.Pi / 180)
	spanX := (maxX - minX) * kx
	spanY := maxY - minY

	scale := math.Inf(1)
	if spanX > 0 {
		scale = a.w / spanX
	}
	if spanY > 0 {
		scale = math.Min(scale, a.h/spanY)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	return projection{
		minX:    minX,
		maxY:    maxY,
		kx:      kx,
		scale:   scale,
		offsetX: a.x + (a.w-spanX*scale)/2,
		offsetY: a.y + (a.h-spanY*scale)/2,
	}
}

func (p projection) point(c geom.Coord) (float64, float64) {
	x := p.offsetX + (c.X()-p.minX)*p.kx*p.scale
	y := p.offsetY + (p.maxY-c.Y())*p.scale
	return x, y
}

// path returns the SVG path data of a polygon or multipolygon
func (p projection) path(g geom.T) string {
	var sb strings.Builder
	switch g := g.(type) {
	case *geom.Polygon:
		p.writePolygon(&sb, g)
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			p.writePolygon(&sb, g.Polygon(i))
		}
	}
	return strings.TrimSpace(sb.String())
}

func (p projection) writePolygon(sb *strings.Builder, poly *geom.Polygon) {
	for i := 0; i < poly.NumLinearRings(); i++ {
		coords := poly.LinearRing(i).Coords()
		if len(coords) == 0 {
			continue
		}
		for j, c := range coords {
			x, y := p.point(c)
			cmd := "L"
			if j == 0 {
				cmd = "M"
			}
			fmt.Fprintf(sb, "%s%.2f,%.2f ", cmd, x, y)
		}
		sb.WriteString("Z ")
	}
}

// errWriter keeps the first write error since the svg writer does not report them
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
