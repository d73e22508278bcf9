package convert

import (
	"encoding/binary"
	"math"

	"github.com/banshee-data/livox-pointcloud/internal/foxglove"
	"github.com/banshee-data/livox-pointcloud/internal/livox"
)

// LivoxPointStride is the size in bytes of one packed Livox point:
// three float32 coordinates followed by three uint8 attributes.
const LivoxPointStride = 15

// livoxFields is the record layout written by LivoxToPointCloud.
var livoxFields = [...]foxglove.PackedElementField{
	{Name: "x", Offset: 0, Type: foxglove.NumericTypeFloat32},
	{Name: "y", Offset: 4, Type: foxglove.NumericTypeFloat32},
	{Name: "z", Offset: 8, Type: foxglove.NumericTypeFloat32},
	{Name: "reflectivity", Offset: 12, Type: foxglove.NumericTypeUint8},
	{Name: "tag", Offset: 13, Type: foxglove.NumericTypeUint8},
	{Name: "line", Offset: 14, Type: foxglove.NumericTypeUint8},
}

// LivoxFields returns a copy of the packed record layout.
func LivoxFields() []foxglove.PackedElementField {
	fields := make([]foxglove.PackedElementField, len(livoxFields))
	copy(fields, livoxFields[:])
	return fields
}

// LivoxToPointCloud packs msg into a foxglove.PointCloud expressed directly
// in the message's frame. Coordinates are narrowed to float32 and the
// integer attributes are truncated to their low byte. The returned buffer is
// freshly allocated and owned by the caller.
func LivoxToPointCloud(msg livox.CustomMsg) foxglove.PointCloud {
	data := make([]byte, len(msg.Points)*LivoxPointStride)
	for i, p := range msg.Points {
		rec := data[i*LivoxPointStride : (i+1)*LivoxPointStride]
		binary.LittleEndian.PutUint32(rec[0:], math.Float32bits(float32(p.X)))
		binary.LittleEndian.PutUint32(rec[4:], math.Float32bits(float32(p.Y)))
		binary.LittleEndian.PutUint32(rec[8:], math.Float32bits(float32(p.Z)))
		rec[12] = uint8(p.Reflectivity)
		rec[13] = uint8(p.Tag)
		rec[14] = uint8(p.Line)
	}

	return foxglove.PointCloud{
		Timestamp:   foxglove.Time(msg.Header.Stamp),
		FrameID:     msg.Header.FrameID,
		Pose:        foxglove.IdentityPose(),
		PointStride: LivoxPointStride,
		Fields:      LivoxFields(),
		Data:        data,
	}
}
