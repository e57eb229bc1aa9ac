package utils

import (
	"fmt"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
)

type LineChart struct {
	Chart    *chart2d.Chart2D
	ColorMap *utils2.ColorMap
}

func NewLineChart(width, height int, xmin, xmax, fmin, fmax float64) (lc *LineChart) {
	lc = &LineChart{
		Chart:    chart2d.NewChart2D(width, height, float32(xmin), float32(xmax), float32(fmin), float32(fmax)),
		ColorMap: utils2.NewColorMap(-1, 1, 1),
	}
	go lc.Chart.Plot()
	return
}

// Plot adds one named series, lineColor goes from -1 (red) to 1 (blue)
func (lc *LineChart) Plot(graphDelay time.Duration, x, f []float64, lineColor float64, lineName string) (err error) {
	if len(x) != len(f) {
		return fmt.Errorf("series %s: %d abscissae for %d values", lineName, len(x), len(f))
	}
	if err = lc.Chart.AddSeries(lineName, x, f,
		chart2d.NoGlyph, chart2d.Solid, lc.ColorMap.GetRGB(float32(lineColor))); err != nil {
		return fmt.Errorf("unable to add graph series %s: %w", lineName, err)
	}
	time.Sleep(graphDelay)
	return
}

// SeriesRange returns the min and max over a set of series, padded by scale
func SeriesRange(scale float64, series ...[]float64) (fmin, fmax float64) {
	first := true
	for _, s := range series {
		for _, v := range s {
			if first || v < fmin {
				fmin = v
			}
			if first || v > fmax {
				fmax = v
			}
			first = false
		}
	}
	pad := 0.5 * (scale - 1) * (fmax - fmin)
	fmin -= pad
	fmax += pad
	return
}
