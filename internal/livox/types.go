package livox

import (
	"time"
)

// SchemaName identifies CustomMsg on the host.
const SchemaName = "livox_ros_driver2/msg/CustomMsg"

// Time is a ROS-style stamp: whole seconds plus nanoseconds.
type Time struct {
	Sec  uint32 `json:"sec"`
	Nsec uint32 `json:"nsec"`
}

// Time returns the stamp as a UTC time.Time.
func (t Time) Time() time.Time {
	return time.Unix(int64(t.Sec), int64(t.Nsec)).UTC()
}

// Header carries the coordinate frame and acquisition time of a message.
type Header struct {
	FrameID string `json:"frame_id"`
	Stamp   Time   `json:"stamp"`
}

// CustomPoint is one Livox sample. Reflectivity, Tag and Line are nominally
// 0-255; wider values are accepted as-is and narrowed by the encoder.
type CustomPoint struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Z            float64 `json:"z"`
	Reflectivity int     `json:"reflectivity"`
	Tag          int     `json:"tag"`
	Line         int     `json:"line"`
}

// CustomMsg is the driver's point list. Point order is iteration order.
type CustomMsg struct {
	Header Header        `json:"header"`
	Points []CustomPoint `json:"points"`
}
