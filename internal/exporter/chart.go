package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"vacancycli/internal/errors"
	"vacancycli/internal/validation"
	"vacancycli/pkg/contracts/domain"
)

// Chart titles, one per panel
const (
	TitleSalaryByYear = "Salary levels by year"
	TitleCountByYear  = "Vacancies by year"
	TitleSalaryByCity = "Salary levels by city"
	TitleShareByCity  = "Vacancy share by city"
)

const (
	chartWidth  = 12 * vg.Inch
	chartHeight = 8 * vg.Inch
	barWidth    = vg.Length(10)
	tickFont    = vg.Length(8)
	smallFont   = vg.Length(6)
)

// ChartExporter renders the four report panels into a single raster image
type ChartExporter struct {
	logger    *slog.Logger
	validator *validation.FileValidator
}

// NewChartExporter creates a new chart exporter
func NewChartExporter(logger *slog.Logger) *ChartExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartExporter{logger: logger, validator: validation.NewFileValidator(logger)}
}

// Format implements Exporter
func (e *ChartExporter) Format() string { return "png" }

// Extensions implements Exporter
func (e *ChartExporter) Extensions() []string { return validation.ChartExtensions }

// Export implements Exporter. The encoder follows the extension: .png or .jpg/.jpeg.
func (e *ChartExporter) Export(ctx context.Context, report *domain.Report, path string) error {
	if err := e.validator.ValidateOutputPath(path, e.Extensions()); err != nil {
		return err
	}
	if err := e.validator.ValidateOutputDirectory(path); err != nil {
		return err
	}

	img, err := RenderCharts(report)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return errors.NewStorageError("failed to create chart file", err).WithContext("path", path)
	}
	if err := encodeImage(img, path, f); err != nil {
		f.Close()
		return errors.NewRenderError("failed to encode chart", err).WithContext("path", path)
	}
	if err := f.Close(); err != nil {
		return errors.NewStorageError("failed to close chart file", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "Chart report written",
		slog.String("path", path),
		slog.Int("years", len(report.SalaryByYear)),
		slog.Int("cities", len(report.ShareByCity)))
	return nil
}

func encodeImage(img *vgimg.Canvas, path string, w io.Writer) error {
	var wt io.WriterTo
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		wt = &vgimg.JpegCanvas{Canvas: img}
	default:
		wt = &vgimg.PngCanvas{Canvas: img}
	}
	_, err := wt.WriteTo(w)
	return err
}

// RenderCharts lays out the four panels on a 2x2 grid
func RenderCharts(report *domain.Report) (*vgimg.Canvas, error) {
	salaryYears, err := yearBarsPlot(TitleSalaryByYear, report.Years(),
		report.SalaryByYear, "average salary",
		report.ProfessionSalaryByYear, "salary "+report.Profession)
	if err != nil {
		return nil, errors.NewRenderError("failed to build salary by year chart", err)
	}
	countYears, err := yearBarsPlot(TitleCountByYear, report.Years(),
		report.CountByYear, "Vacancies",
		report.ProfessionCountByYear, "Vacancies "+report.Profession)
	if err != nil {
		return nil, errors.NewRenderError("failed to build vacancies by year chart", err)
	}
	citySalary, err := citySalaryPlot(report.SalaryByCity)
	if err != nil {
		return nil, errors.NewRenderError("failed to build salary by city chart", err)
	}
	cityShare := citySharePlot(report.ShareByCity)

	img := vgimg.New(chartWidth, chartHeight)
	dc := draw.New(img)

	plots := [][]*plot.Plot{
		{salaryYears, countYears},
		{citySalary, cityShare},
	}
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 8,
		PadY:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}

	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}
	return img, nil
}

// yearBarsPlot draws two series side by side on a nominal year axis
func yearBarsPlot(title string, years []int, all []domain.YearValue, allLabel string, prof []domain.YearValue, profLabel string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Legend.Top = true
	p.Legend.Left = true
	p.Y.Tick.Label.Font.Size = tickFont

	series := []struct {
		values []domain.YearValue
		label  string
		offset vg.Length
	}{
		{all, allLabel, -barWidth / 2},
		{prof, profLabel, barWidth / 2},
	}
	for i, s := range series {
		if len(s.values) == 0 {
			continue
		}
		bars, err := plotter.NewBarChart(yearValues(s.values), barWidth)
		if err != nil {
			return nil, err
		}
		bars.Offset = s.offset
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(s.label, bars)
	}

	p.Add(plotter.NewGrid())
	if len(years) == 0 {
		return p, nil
	}

	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = strconv.Itoa(y)
	}
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.X.Tick.Label.Font.Size = tickFont
	return p, nil
}

// citySalaryPlot draws horizontal bars with the highest salary on top
func citySalaryPlot(cities []domain.CityValue) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = TitleSalaryByCity
	p.X.Tick.Label.Font.Size = tickFont

	n := len(cities)
	if n == 0 {
		return p, nil
	}

	values := make(plotter.Values, n)
	names := make([]string, n)
	for i, c := range cities {
		values[n-1-i] = float64(c.Value)
		names[n-1-i] = cityLabel(c.City)
	}

	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = 0
	p.Add(bars)

	p.NominalY(names...)
	p.Y.Tick.Label.Font.Size = smallFont
	p.Y.Tick.Label.XAlign = text.XRight
	p.Y.Tick.Label.YAlign = text.YCenter
	p.Add(plotter.NewGrid())
	return p, nil
}

// cityLabel breaks a city name onto one line per word
func cityLabel(city string) string {
	return strings.ReplaceAll(city, " ", "\n")
}

func citySharePlot(shares []domain.CityShare) *plot.Plot {
	p := plot.New()
	p.Title.Text = TitleShareByCity
	p.HideAxes()
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = smallFont

	pie := NewPie(pieSlices(shares))
	p.Add(pie)
	for _, s := range pie.Slices {
		p.Legend.Add(fmt.Sprintf("%s %s", s.Label, formatPercent(s.Value)), pie.Thumbnail(s))
	}
	return p
}

// pieSlices puts the "Other" remainder first when the listed shares do not add up to one
func pieSlices(shares []domain.CityShare) []PieSlice {
	slices := make([]PieSlice, 0, len(shares)+1)

	var sum float64
	for _, s := range shares {
		sum += s.Share
	}
	if rest := 1 - sum; rest > otherShareEpsilon {
		slices = append(slices, PieSlice{Label: OtherLabel, Value: rest})
	}
	for _, s := range shares {
		slices = append(slices, PieSlice{Label: s.City, Value: s.Share})
	}
	return slices
}

type yearValues []domain.YearValue

func (v yearValues) Len() int            { return len(v) }
func (v yearValues) Value(i int) float64 { return float64(v[i].Value) }
