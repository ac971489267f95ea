// Package render draws a trajectory subset as a latitude/longitude line plot.
package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/roach88/trajectory/internal/trajectory"
)

// Default figure size in inches.
const (
	DefaultWidth  = 6.4
	DefaultHeight = 4.8
)

// Axis labels.
const (
	XLabel = "LATITUDE"
	YLabel = "LONGITUDE"
)

// Plotter renders subsets with gonum/plot.
type Plotter struct {
	Width  vg.Length
	Height vg.Length
}

// NewPlotter returns a Plotter for a figure of the given size in inches.
// Non-positive sizes fall back to the defaults.
func NewPlotter(widthInches, heightInches float64) *Plotter {
	if widthInches <= 0 {
		widthInches = DefaultWidth
	}
	if heightInches <= 0 {
		heightInches = DefaultHeight
	}
	return &Plotter{
		Width:  vg.Length(widthInches) * vg.Inch,
		Height: vg.Length(heightInches) * vg.Inch,
	}
}

// Title returns the plot title for an object id.
func Title(id trajectory.ObjectID) string {
	return fmt.Sprintf("Trajectory for object_id: %d", id)
}

// Render writes the plot of sub to dest. The image format follows the
// extension (png when there is none). The image is written to a temporary file
// and renamed over dest, so a failed render leaves any existing dest untouched.
func (p *Plotter) Render(ctx context.Context, sub trajectory.Subset, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wt, err := p.writerTo(sub, FormatOf(dest))
	if err != nil {
		return err
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create plot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	if _, err := wt.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write plot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close plot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// Encode writes the plot of sub to w in the given format
// (png, svg, pdf, jpg, tif, eps).
func (p *Plotter) Encode(w io.Writer, sub trajectory.Subset, format string) error {
	wt, err := p.writerTo(sub, format)
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

// writerTo draws sub and prepares it for encoding. Unsupported formats fail
// here, before anything touches the filesystem.
func (p *Plotter) writerTo(sub trajectory.Subset, format string) (io.WriterTo, error) {
	if sub.Empty() {
		return nil, trajectory.NewEmptySubsetError("render", sub.ObjectID())
	}

	pl := plot.New()
	pl.Title.Text = Title(sub.ObjectID())
	pl.X.Label.Text = XLabel
	pl.Y.Label.Text = YLabel

	pts := make(plotter.XYs, sub.Len())
	for i := range pts {
		r := sub.At(i)
		pts[i].X = r.Latitude
		pts[i].Y = r.Longitude
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("build line: %w", err)
	}
	pl.Add(line)

	wt, err := pl.WriterTo(p.Width, p.Height, format)
	if err != nil {
		return nil, fmt.Errorf("encode plot: %w", err)
	}
	return wt, nil
}

// FormatOf returns the image format implied by a path's extension.
func FormatOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "png"
	}
	return ext
}
