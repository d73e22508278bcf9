package foxglove

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type wireField struct {
	num   protowire.Number
	typ   protowire.Type
	bytes []byte
	value uint64
}

// parseFields splits b into its top-level fields.
func parseFields(t *testing.T, b []byte) []wireField {
	t.Helper()
	var out []wireField
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		require.GreaterOrEqual(t, n, 0, "bad tag: %v", protowire.ParseError(n))
		b = b[n:]

		f := wireField{num: num, typ: typ}
		switch typ {
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			f.value = uint64(v)
		case protowire.Fixed64Type:
			f.value, n = protowire.ConsumeFixed64(b)
		case protowire.VarintType:
			f.value, n = protowire.ConsumeVarint(b)
		default:
			t.Fatalf("unexpected wire type %v", typ)
		}
		require.GreaterOrEqual(t, n, 0, "bad value: %v", protowire.ParseError(n))
		b = b[n:]
		out = append(out, f)
	}
	return out
}

func TestMarshalProto(t *testing.T) {
	pc := xyzi([4]float64{1, 2, 3, 4}, [4]float64{5, 6, 7, 8})
	b, err := pc.MarshalProto()
	require.NoError(t, err)

	fields := parseFields(t, b)
	var nums []protowire.Number
	for _, f := range fields {
		nums = append(nums, f.num)
	}
	// timestamp, frame_id, pose, point_stride, 4 fields, data.
	assert.Equal(t, []protowire.Number{1, 2, 3, 4, 5, 5, 5, 5, 6}, nums)

	var ts timestamppb.Timestamp
	require.NoError(t, proto.Unmarshal(fields[0].bytes, &ts))
	assert.Equal(t, int64(5), ts.GetSeconds())
	assert.Equal(t, int32(6), ts.GetNanos())

	assert.Equal(t, "sensor", string(fields[1].bytes))

	assert.Equal(t, protowire.Fixed32Type, fields[3].typ)
	assert.Equal(t, uint64(13), fields[3].value)

	assert.Equal(t, pc.Data, fields[8].bytes)
}

func TestMarshalProto_Fields(t *testing.T) {
	pc := xyzi([4]float64{1, 2, 3, 4})
	b, err := pc.MarshalProto()
	require.NoError(t, err)

	var got []PackedElementField
	for _, f := range parseFields(t, b) {
		if f.num != pointCloudFields {
			continue
		}
		var pf PackedElementField
		for _, sub := range parseFields(t, f.bytes) {
			switch sub.num {
			case fieldName:
				pf.Name = string(sub.bytes)
			case fieldOffset:
				assert.Equal(t, protowire.Fixed32Type, sub.typ)
				pf.Offset = uint32(sub.value)
			case fieldType:
				assert.Equal(t, protowire.VarintType, sub.typ)
				pf.Type = NumericType(sub.value)
			}
		}
		got = append(got, pf)
	}
	assert.Equal(t, pc.Fields, got)
}

func TestMarshalProto_Pose(t *testing.T) {
	pc := xyzi()
	b, err := pc.MarshalProto()
	require.NoError(t, err)

	top := parseFields(t, b)
	var pose []byte
	for _, f := range top {
		if f.num == pointCloudPose {
			pose = f.bytes
		}
	}
	require.NotNil(t, pose)

	sub := parseFields(t, pose)
	require.Len(t, sub, 2)
	assert.Equal(t, posePosition, sub[0].num)
	assert.Empty(t, sub[0].bytes, "zero position encodes as an empty Vector3")

	assert.Equal(t, poseOrientation, sub[1].num)
	rot := parseFields(t, sub[1].bytes)
	require.Len(t, rot, 1, "only w is non-zero")
	assert.Equal(t, protowire.Number(4), rot[0].num)
	assert.Equal(t, 1.0, math.Float64frombits(rot[0].value))
}

func TestMarshalProto_EmptyCloud(t *testing.T) {
	pc := xyzi()
	pc.FrameID = ""
	b, err := pc.MarshalProto()
	require.NoError(t, err)

	for _, f := range parseFields(t, b) {
		assert.NotEqual(t, pointCloudData, f.num, "empty data must be omitted")
		assert.NotEqual(t, pointCloudFrameID, f.num, "empty frame_id must be omitted")
	}
}
