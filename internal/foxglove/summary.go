package foxglove

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FieldStats holds the range and mean of one floating-point field.
type FieldStats struct {
	Name string
	Min  float64
	Max  float64
	Mean float64
}

// Summary describes the contents of a point cloud.
type Summary struct {
	FrameID string
	Points  int
	Bytes   int
	Fields  []FieldStats
}

// Summarize computes per-field statistics for every FLOAT32 field of pc.
// Fields are reported in table order; an empty cloud has no statistics.
func Summarize(pc PointCloud) Summary {
	s := Summary{FrameID: pc.FrameID, Points: pc.Len(), Bytes: len(pc.Data)}
	if s.Points == 0 {
		return s
	}
	values := make([]float64, s.Points)
	for _, f := range pc.Fields {
		if f.Type != NumericTypeFloat32 {
			continue
		}
		ok := true
		for i := range values {
			v, err := pc.Float32At(i, f)
			if err != nil {
				ok = false
				break
			}
			values[i] = float64(v)
		}
		if !ok {
			continue
		}
		s.Fields = append(s.Fields, FieldStats{
			Name: f.Name,
			Min:  floats.Min(values),
			Max:  floats.Max(values),
			Mean: stat.Mean(values, nil),
		})
	}
	return s
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "frame=%q points=%d bytes=%d", s.FrameID, s.Points, s.Bytes)
	for _, f := range s.Fields {
		fmt.Fprintf(&b, " %s=[%.3f, %.3f] mean=%.3f", f.Name, f.Min, f.Max, f.Mean)
	}
	return b.String()
}
