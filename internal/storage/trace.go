package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/sim"
)

var baseColumns = []string{
	"time", "dt", "sub_steps", "phase", "speed", "phase_speed", "stride_length", "at_rest",
	"goal_x", "goal_y", "goal_yaw",
	"body_x", "body_y", "body_z", "body_yaw",
	"pelvis_x", "pelvis_y", "pelvis_z", "bob",
}

var footColumns = []string{"x", "y", "z", "swing", "phase", "height"}

// TraceColumns names the CSV columns for a rig with feet feet.
func TraceColumns(feet int) []string {
	cols := append([]string(nil), baseColumns...)
	for i := 0; i < feet; i++ {
		for _, c := range footColumns {
			cols = append(cols, fmt.Sprintf("foot%d_%s", i, c))
		}
	}
	return cols
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// SampleRow flattens a sample in TraceColumns order.
func SampleRow(s *sim.Sample) []float64 {
	row := []float64{
		s.Time, s.Dt, float64(s.SubSteps), s.Phase, s.Speed, s.PhaseSpeed, s.StrideLength, boolValue(s.AtRest),
		s.Goal.Translation.X(), s.Goal.Translation.Y(), geom.Yaw(s.Goal.Rotation),
		s.Body.Translation.X(), s.Body.Translation.Y(), s.Body.Translation.Z(), geom.Yaw(s.Body.Rotation),
		s.Pelvis.Translation.X(), s.Pelvis.Translation.Y(), s.Pelvis.Translation.Z(), s.Bob,
	}
	for _, f := range s.Feet {
		row = append(row, f.Position.X(), f.Position.Y(), f.Position.Z(), boolValue(f.InSwing), f.Phase, f.Height)
	}
	return row
}

func WriteTrace(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if len(samples) == 0 {
		cw.Flush()
		return cw.Error()
	}

	if err := cw.Write(TraceColumns(len(samples[0].Feet))); err != nil {
		return err
	}
	for i := range samples {
		vals := SampleRow(&samples[i])
		rec := make([]string, len(vals))
		for j, v := range vals {
			rec[j] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteTraceFile(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteTrace(f, samples)
}

// Trace is a loaded trace.csv.
type Trace struct {
	Columns []string
	Rows    [][]float64
	index   map[string]int
}

// Column returns one column by name, or nil.
func (t *Trace) Column(name string) []float64 {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// Feet is the number of feet recorded.
func (t *Trace) Feet() int {
	return (len(t.Columns) - len(baseColumns)) / len(footColumns)
}

func ReadTrace(r io.Reader) (*Trace, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	t := &Trace{index: make(map[string]int)}
	if len(records) == 0 {
		return t, nil
	}
	t.Columns = records[0]
	for i, c := range t.Columns {
		t.index[c] = i
	}

	t.Rows = make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", len(t.Rows)+1, t.Columns[j], err)
			}
			row[j] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func ReadTraceFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTrace(f)
}

// Samples rebuilds samples from the trace. Quantities not stored in the
// trace, such as planted positions and foot radii, are left zero.
func (t *Trace) Samples() []sim.Sample {
	feet := t.Feet()
	out := make([]sim.Sample, len(t.Rows))
	for r, row := range t.Rows {
		v := func(i int) float64 {
			if i < len(row) {
				return row[i]
			}
			return 0
		}
		s := sim.Sample{
			Frame:        r,
			Time:         v(0),
			Dt:           v(1),
			SubSteps:     int(v(2)),
			Phase:        v(3),
			Speed:        v(4),
			PhaseSpeed:   v(5),
			StrideLength: v(6),
			AtRest:       v(7) != 0,
			Goal:         geom.FromPositionYaw(mgl64.Vec3{v(8), v(9), 0}, v(10)),
			Body:         geom.FromPositionYaw(mgl64.Vec3{v(11), v(12), v(13)}, v(14)),
			Pelvis:       geom.FromPosition(mgl64.Vec3{v(15), v(16), v(17)}),
			Bob:          v(18),
			Feet:         make([]sim.FootSample, feet),
		}
		for i := range s.Feet {
			base := len(baseColumns) + i*len(footColumns)
			s.Feet[i] = sim.FootSample{
				Position: mgl64.Vec3{v(base), v(base + 1), v(base + 2)},
				InSwing:  v(base+3) != 0,
				Phase:    v(base + 4),
				Height:   v(base + 5),
			}
		}
		out[r] = s
	}
	return out
}
