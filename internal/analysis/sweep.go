package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/locosim/internal/sim"
)

// SweepPoint holds the distinct settled values seen for one parameter value.
type SweepPoint struct {
	Param  float64
	Values []float64
}

// RunFunc runs one simulation with the swept parameter set to param.
type RunFunc func(ctx context.Context, param float64) (*sim.Result, error)

// Sweep runs once per parameter value and records the distinct values of
// value after transient seconds. Values are quantised to resolution when
// deciding whether they are distinct; zero keeps every value.
func Sweep(ctx context.Context, run RunFunc, params []float64, value func(*sim.Sample) float64, transient, resolution float64) ([]SweepPoint, error) {
	results := make([]SweepPoint, 0, len(params))

	for _, param := range params {
		res, err := run(ctx, param)
		if err != nil {
			return results, fmt.Errorf("param %g: %w", param, err)
		}

		values := make([]float64, 0, 16)
		seen := make(map[int64]bool)
		for i := range res.Samples {
			s := &res.Samples[i]
			if s.Time < transient {
				continue
			}
			v := value(s)
			if resolution > 0 {
				key := int64(math.Round(v / resolution))
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			values = append(values, v)
		}

		results = append(results, SweepPoint{Param: param, Values: values})
	}

	return results, nil
}

// Range returns count evenly spaced values from lo to hi inclusive.
func Range(lo, hi float64, count int) []float64 {
	if count <= 1 {
		return []float64{lo}
	}
	out := make([]float64, count)
	step := (hi - lo) / float64(count-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// SweepToASCII plots every value of every point, one column band per
// parameter.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := newCanvas(width, height)
	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	return canvasString(canvas)
}

func newCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	return canvas
}

func canvasString(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
