package foxglove

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// pcdType maps a numeric type onto the PCD TYPE letter.
func pcdType(t NumericType) string {
	switch t {
	case NumericTypeFloat32, NumericTypeFloat64:
		return "F"
	case NumericTypeInt8, NumericTypeInt16, NumericTypeInt32:
		return "I"
	case NumericTypeUint8, NumericTypeUint16, NumericTypeUint32:
		return "U"
	default:
		return ""
	}
}

// WritePCD writes pc as a binary PCD v0.7 file. The record layout is copied
// straight from Data, so the fields must tile the stride with no gaps or
// overlaps.
func WritePCD(w io.Writer, pc PointCloud) error {
	fields := make([]PackedElementField, len(pc.Fields))
	copy(fields, pc.Fields)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Offset < fields[j].Offset })

	var names, sizes, types, counts []string
	var next uint32
	for _, f := range fields {
		size := f.Type.Size()
		if size == 0 {
			return fmt.Errorf("field %q has unsupported type %s", f.Name, f.Type)
		}
		if f.Offset != next {
			return fmt.Errorf("field %q at offset %d, expected %d: PCD records cannot have gaps or overlaps", f.Name, f.Offset, next)
		}
		next += uint32(size)
		names = append(names, f.Name)
		sizes = append(sizes, fmt.Sprint(size))
		types = append(types, pcdType(f.Type))
		counts = append(counts, "1")
	}
	if next != pc.PointStride {
		return fmt.Errorf("fields cover %d bytes but point stride is %d", next, pc.PointStride)
	}

	n := pc.Len()
	p := pc.Pose
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# .PCD v0.7 - Point Cloud Data file format\n")
	fmt.Fprintf(bw, "VERSION 0.7\n")
	fmt.Fprintf(bw, "FIELDS %s\n", strings.Join(names, " "))
	fmt.Fprintf(bw, "SIZE %s\n", strings.Join(sizes, " "))
	fmt.Fprintf(bw, "TYPE %s\n", strings.Join(types, " "))
	fmt.Fprintf(bw, "COUNT %s\n", strings.Join(counts, " "))
	fmt.Fprintf(bw, "WIDTH %d\n", n)
	fmt.Fprintf(bw, "HEIGHT 1\n")
	fmt.Fprintf(bw, "VIEWPOINT %g %g %g %g %g %g %g\n",
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Orientation.Real, p.Orientation.Imag, p.Orientation.Jmag, p.Orientation.Kmag)
	fmt.Fprintf(bw, "POINTS %d\n", n)
	fmt.Fprintf(bw, "DATA binary\n")
	if _, err := bw.Write(pc.Data[:n*int(pc.PointStride)]); err != nil {
		return fmt.Errorf("failed to write PCD data: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PCD: %w", err)
	}
	return nil
}
