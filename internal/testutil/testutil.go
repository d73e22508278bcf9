// Package testutil provides shared test utilities and fixtures.
//
// Fixtures build Livox messages that several packages decode, convert and
// re-read, so they live here rather than in each package's tests.
package testutil

import (
	"math/rand"

	"github.com/banshee-data/livox-pointcloud/internal/livox"
)

// ScenarioJSON is a single-point CustomMsg in the host's JSON wire shape.
const ScenarioJSON = `{
  "header": {"frame_id": "lidar", "stamp": {"sec": 1, "nsec": 0}},
  "points": [
    {"x": 1.5, "y": -2.25, "z": 0, "reflectivity": 200, "tag": 1, "line": 3}
  ]
}`

// ScenarioMsg is ScenarioJSON already decoded.
func ScenarioMsg() livox.CustomMsg {
	return livox.CustomMsg{
		Header: livox.Header{FrameID: "lidar", Stamp: livox.Time{Sec: 1, Nsec: 0}},
		Points: []livox.CustomPoint{
			{X: 1.5, Y: -2.25, Z: 0, Reflectivity: 200, Tag: 1, Line: 3},
		},
	}
}

// RandomCustomMsg returns n points drawn from rng. Coordinates span a
// +/-100m cube and attributes stay within 0-255.
func RandomCustomMsg(rng *rand.Rand, frameID string, n int) livox.CustomMsg {
	msg := livox.CustomMsg{
		Header: livox.Header{
			FrameID: frameID,
			Stamp:   livox.Time{Sec: rng.Uint32(), Nsec: uint32(rng.Intn(1e9))},
		},
		Points: make([]livox.CustomPoint, n),
	}
	for i := range msg.Points {
		msg.Points[i] = livox.CustomPoint{
			X:            rng.Float64()*200 - 100,
			Y:            rng.Float64()*200 - 100,
			Z:            rng.Float64()*200 - 100,
			Reflectivity: rng.Intn(256),
			Tag:          rng.Intn(256),
			Line:         rng.Intn(256),
		}
	}
	return msg
}
