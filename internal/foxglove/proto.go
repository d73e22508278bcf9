package foxglove

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
)

// Field numbers of the foxglove protobuf schemas.
const (
	pointCloudTimestamp   protowire.Number = 1
	pointCloudFrameID     protowire.Number = 2
	pointCloudPose        protowire.Number = 3
	pointCloudPointStride protowire.Number = 4
	pointCloudFields      protowire.Number = 5
	pointCloudData        protowire.Number = 6

	fieldName   protowire.Number = 1
	fieldOffset protowire.Number = 2
	fieldType   protowire.Number = 3

	posePosition    protowire.Number = 1
	poseOrientation protowire.Number = 2
)

// MarshalProto encodes pc as a foxglove.PointCloud protobuf message.
// Scalars equal to their zero value are omitted, as proto3 encoders do.
// Submessages are always written.
func (pc PointCloud) MarshalProto() ([]byte, error) {
	ts, err := proto.MarshalOptions{Deterministic: true}.Marshal(pc.Timestamp.AsTimestamp())
	if err != nil {
		return nil, fmt.Errorf("failed to encode timestamp: %w", err)
	}

	b := make([]byte, 0, len(pc.Data)+64+32*len(pc.Fields))
	b = protowire.AppendTag(b, pointCloudTimestamp, protowire.BytesType)
	b = protowire.AppendBytes(b, ts)

	if pc.FrameID != "" {
		b = protowire.AppendTag(b, pointCloudFrameID, protowire.BytesType)
		b = protowire.AppendString(b, pc.FrameID)
	}

	b = protowire.AppendTag(b, pointCloudPose, protowire.BytesType)
	b = protowire.AppendBytes(b, appendPose(nil, pc.Pose))

	if pc.PointStride != 0 {
		b = protowire.AppendTag(b, pointCloudPointStride, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, pc.PointStride)
	}

	for _, f := range pc.Fields {
		b = protowire.AppendTag(b, pointCloudFields, protowire.BytesType)
		b = protowire.AppendBytes(b, appendField(nil, f))
	}

	if len(pc.Data) > 0 {
		b = protowire.AppendTag(b, pointCloudData, protowire.BytesType)
		b = protowire.AppendBytes(b, pc.Data)
	}
	return b, nil
}

func appendField(b []byte, f PackedElementField) []byte {
	if f.Name != "" {
		b = protowire.AppendTag(b, fieldName, protowire.BytesType)
		b = protowire.AppendString(b, f.Name)
	}
	if f.Offset != 0 {
		b = protowire.AppendTag(b, fieldOffset, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, f.Offset)
	}
	if f.Type != NumericTypeUnknown {
		b = protowire.AppendTag(b, fieldType, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(f.Type))
	}
	return b
}

func appendPose(b []byte, p Pose) []byte {
	pos := appendDoubles(nil, p.Position.X, p.Position.Y, p.Position.Z)
	rot := appendDoubles(nil, p.Orientation.Imag, p.Orientation.Jmag, p.Orientation.Kmag, p.Orientation.Real)

	b = protowire.AppendTag(b, posePosition, protowire.BytesType)
	b = protowire.AppendBytes(b, pos)
	b = protowire.AppendTag(b, poseOrientation, protowire.BytesType)
	b = protowire.AppendBytes(b, rot)
	return b
}

// appendDoubles writes vs as double fields numbered 1..len(vs), which is the
// layout of both foxglove.Vector3 and foxglove.Quaternion.
func appendDoubles(b []byte, vs ...float64) []byte {
	for i, v := range vs {
		if math.Float64bits(v) == 0 {
			continue
		}
		b = protowire.AppendTag(b, protowire.Number(i+1), protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(v))
	}
	return b
}
