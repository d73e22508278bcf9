package foxglove

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// SchemaName identifies PointCloud on the host.
const SchemaName = "foxglove.PointCloud"

// Time is a timestamp as whole seconds plus nanoseconds.
type Time struct {
	Sec  uint32 `json:"sec"`
	Nsec uint32 `json:"nsec"`
}

// AsTimestamp returns t as a protobuf well-known Timestamp. Nanoseconds of a
// second or more are carried into Seconds so the result is always valid.
func (t Time) AsTimestamp() *timestamppb.Timestamp {
	const nanosPerSecond = 1e9
	return &timestamppb.Timestamp{
		Seconds: int64(t.Sec) + int64(t.Nsec/nanosPerSecond),
		Nanos:   int32(t.Nsec % nanosPerSecond),
	}
}

// NumericType is the element type of a packed field.
// Values match foxglove.PackedElementField.NumericType.
type NumericType int32

const (
	NumericTypeUnknown NumericType = 0
	NumericTypeUint8   NumericType = 1
	NumericTypeInt8    NumericType = 2
	NumericTypeUint16  NumericType = 3
	NumericTypeInt16   NumericType = 4
	NumericTypeUint32  NumericType = 5
	NumericTypeInt32   NumericType = 6
	NumericTypeFloat32 NumericType = 7
	NumericTypeFloat64 NumericType = 8
)

// Size returns the width in bytes of one value, or 0 for unknown types.
func (t NumericType) Size() int {
	switch t {
	case NumericTypeUint8, NumericTypeInt8:
		return 1
	case NumericTypeUint16, NumericTypeInt16:
		return 2
	case NumericTypeUint32, NumericTypeInt32, NumericTypeFloat32:
		return 4
	case NumericTypeFloat64:
		return 8
	default:
		return 0
	}
}

func (t NumericType) String() string {
	switch t {
	case NumericTypeUint8:
		return "UINT8"
	case NumericTypeInt8:
		return "INT8"
	case NumericTypeUint16:
		return "UINT16"
	case NumericTypeInt16:
		return "INT16"
	case NumericTypeUint32:
		return "UINT32"
	case NumericTypeInt32:
		return "INT32"
	case NumericTypeFloat32:
		return "FLOAT32"
	case NumericTypeFloat64:
		return "FLOAT64"
	default:
		return "UNKNOWN"
	}
}

// PackedElementField describes one named value inside a point record.
type PackedElementField struct {
	Name   string      `json:"name"`
	Offset uint32      `json:"offset"`
	Type   NumericType `json:"type"`
}

// Pose places the cloud within its frame.
// Orientation uses gonum's quaternion layout: Real is w, Imag/Jmag/Kmag are x/y/z.
type Pose struct {
	Position    r3.Vector
	Orientation quat.Number
}

// IdentityPose returns the pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Orientation: quat.Number{Real: 1}}
}

type vector3JSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type quaternionJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

type poseJSON struct {
	Position    vector3JSON    `json:"position"`
	Orientation quaternionJSON `json:"orientation"`
}

// MarshalJSON renders the pose with foxglove's {position, orientation} keys.
func (p Pose) MarshalJSON() ([]byte, error) {
	return json.Marshal(poseJSON{
		Position: vector3JSON{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z},
		Orientation: quaternionJSON{
			X: p.Orientation.Imag,
			Y: p.Orientation.Jmag,
			Z: p.Orientation.Kmag,
			W: p.Orientation.Real,
		},
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (p *Pose) UnmarshalJSON(b []byte) error {
	var pj poseJSON
	if err := json.Unmarshal(b, &pj); err != nil {
		return err
	}
	p.Position = r3.Vector{X: pj.Position.X, Y: pj.Position.Y, Z: pj.Position.Z}
	p.Orientation = quat.Number{
		Real: pj.Orientation.W,
		Imag: pj.Orientation.X,
		Jmag: pj.Orientation.Y,
		Kmag: pj.Orientation.Z,
	}
	return nil
}

// PointCloud is a packed point buffer and its layout.
// Data holds Len() records of PointStride bytes each, little-endian.
type PointCloud struct {
	Timestamp   Time                 `json:"timestamp"`
	FrameID     string               `json:"frame_id"`
	Pose        Pose                 `json:"pose"`
	PointStride uint32               `json:"point_stride"`
	Fields      []PackedElementField `json:"fields"`
	Data        []byte               `json:"data"`
}

// Len returns the number of whole records in Data.
func (pc PointCloud) Len() int {
	if pc.PointStride == 0 {
		return 0
	}
	return len(pc.Data) / int(pc.PointStride)
}

// Field looks up a field by name.
func (pc PointCloud) Field(name string) (PackedElementField, bool) {
	for _, f := range pc.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return PackedElementField{}, false
}

// fieldBytes returns the bytes of field f in record i after checking that
// the field has the expected type and lies inside the buffer.
func (pc PointCloud) fieldBytes(i int, f PackedElementField, want NumericType) ([]byte, error) {
	if f.Type != want {
		return nil, fmt.Errorf("field %q is %s, not %s", f.Name, f.Type, want)
	}
	if i < 0 || i >= pc.Len() {
		return nil, fmt.Errorf("record %d out of range [0,%d)", i, pc.Len())
	}
	start := i*int(pc.PointStride) + int(f.Offset)
	end := start + want.Size()
	if int(f.Offset)+want.Size() > int(pc.PointStride) {
		return nil, fmt.Errorf("field %q at offset %d overruns stride %d", f.Name, f.Offset, pc.PointStride)
	}
	return pc.Data[start:end], nil
}

// Float32At decodes a FLOAT32 field of record i.
func (pc PointCloud) Float32At(i int, f PackedElementField) (float32, error) {
	b, err := pc.fieldBytes(i, f, NumericTypeFloat32)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// Uint8At decodes a UINT8 field of record i.
func (pc PointCloud) Uint8At(i int, f PackedElementField) (uint8, error) {
	b, err := pc.fieldBytes(i, f, NumericTypeUint8)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}
