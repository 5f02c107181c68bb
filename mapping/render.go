package mapping

import (
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/miniBill/sdc-map/geo"
)

const (
	// ringPrecision is the decimal precision projected border points are
	// rounded to before deduplication.
	ringPrecision = 2

	// minRingPoints is the minimum number of distinct points a ring must
	// keep after deduplication to be worth drawing.
	minRingPoints = 5

	// fillAlpha is the fixed opacity of country fills.
	fillAlpha = 0.5
)

// Border is one country's outline for drawing.
type Border struct {
	Country string
	Rings   [][]geo.Coordinate
}

// Marker is a named point plotted for a respondent who opted into a public
// marker.
type Marker struct {
	Label string
	At    geo.Coordinate
}

// Pie is a small pie chart anchored at a coordinate, one slice per grouped
// count (for example respondents per location within a country).
type Pie struct {
	At     geo.Coordinate
	Slices []PieSlice
}

// PieSlice is one labeled wedge of a Pie.
type PieSlice struct {
	Label string
	Count int
}

// Model is everything one render pass draws.
type Model struct {
	Width   int
	Height  int
	Borders []Border
	Markers []Marker
	Pies    []Pie
}

// Render writes the model as an SVG document. The output doubles as the
// downloadable export: it is a complete standalone vector file.
func Render(w io.Writer, m Model) {
	width, height := m.Width, m.Height
	if width == 0 {
		width = 1000
	}
	if height == 0 {
		height = 600
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	offset := XY{X: float64(width) / 2, Y: float64(height) / 2}

	for _, border := range m.Borders {
		renderBorder(canvas, border, offset)
	}
	for _, pie := range m.Pies {
		renderPie(canvas, pie, offset)
	}
	for _, marker := range m.Markers {
		renderMarker(canvas, marker, offset)
	}

	canvas.End()
}

// WriteSVG renders the model into a standalone SVG file at path.
func WriteSVG(path string, m Model) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg file: %w", err)
	}
	Render(f, m)
	if err := f.Close(); err != nil {
		return fmt.Errorf("close svg file: %w", err)
	}
	return nil
}

func renderBorder(canvas *svg.SVG, border Border, offset XY) {
	style := fmt.Sprintf("%s;stroke:black;stroke-width:0.5", fillStyle(border.Country))

	for _, ring := range border.Rings {
		points := dedupeRing(ring)
		if len(points) < minRingPoints {
			continue
		}

		xs := make([]int, len(points))
		ys := make([]int, len(points))
		for i, p := range points {
			xs[i] = int(math.Round(p.X + offset.X))
			ys[i] = int(math.Round(p.Y + offset.Y))
		}
		canvas.Polygon(xs, ys, style)
	}
}

func renderMarker(canvas *svg.SVG, marker Marker, offset XY) {
	p := Project(marker.At)
	x := int(math.Round(p.X + offset.X))
	y := int(math.Round(p.Y + offset.Y))

	canvas.Circle(x, y, 3, "fill:crimson;stroke:black;stroke-width:0.5")
	if marker.Label != "" {
		canvas.Text(x+5, y-5, marker.Label, "font-size:10px;font-family:sans-serif")
	}
}

func renderPie(canvas *svg.SVG, pie Pie, offset XY) {
	total := 0
	for _, slice := range pie.Slices {
		total += slice.Count
	}
	if total == 0 {
		return
	}

	center := Project(pie.At)
	cx := center.X + offset.X
	cy := center.Y + offset.Y
	radius := 4 + math.Sqrt(float64(total))

	if len(pie.Slices) == 1 {
		canvas.Circle(int(math.Round(cx)), int(math.Round(cy)), int(math.Round(radius)),
			fmt.Sprintf("%s;stroke:black;stroke-width:0.5", fillStyle(pie.Slices[0].Label)))
		return
	}

	angle := -math.Pi / 2 // first slice starts at twelve o'clock
	for _, slice := range pie.Slices {
		sweep := 2 * math.Pi * float64(slice.Count) / float64(total)
		sx := cx + radius*math.Cos(angle)
		sy := cy + radius*math.Sin(angle)
		ex := cx + radius*math.Cos(angle+sweep)
		ey := cy + radius*math.Sin(angle+sweep)

		large := 0
		if sweep > math.Pi {
			large = 1
		}

		path := fmt.Sprintf("M%.2f,%.2f L%.2f,%.2f A%.2f,%.2f 0 %d,1 %.2f,%.2f Z",
			cx, cy, sx, sy, radius, radius, large, ex, ey)
		canvas.Path(path, fmt.Sprintf("%s;stroke:black;stroke-width:0.5", fillStyle(slice.Label)))

		angle += sweep
	}
}

// dedupeRing projects a ring and drops consecutive points that round to the
// same plot position at ringPrecision decimals. Degenerate rings collapse
// below minRingPoints and get skipped by the caller.
func dedupeRing(ring []geo.Coordinate) []XY {
	factor := math.Pow(10, ringPrecision)

	var points []XY
	var lastX, lastY float64
	for i, c := range ring {
		p := Project(c)
		rx := math.Round(p.X*factor) / factor
		ry := math.Round(p.Y*factor) / factor
		if i > 0 && rx == lastX && ry == lastY {
			continue
		}
		points = append(points, XY{X: rx, Y: ry})
		lastX, lastY = rx, ry
	}
	return points
}

// fillStyle derives a stable fill from a name: an FNV-1a hash split into
// three byte channels, with a fixed alpha. No palette table needed, and the
// color survives reloads.
func fillStyle(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	sum := h.Sum32()

	r := uint8(sum >> 16)
	g := uint8(sum >> 8)
	b := uint8(sum)
	return fmt.Sprintf("fill:rgb(%d,%d,%d);fill-opacity:%.2f", r, g, b, fillAlpha)
}

// SortedBorders orders borders by country name so the document layout is
// stable between renders of the same model.
func SortedBorders(borders []Border) []Border {
	sorted := make([]Border, len(borders))
	copy(sorted, borders)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Country < sorted[j].Country
	})
	return sorted
}
