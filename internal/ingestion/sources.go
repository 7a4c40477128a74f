// Package ingestion moves pose frames from an external pose-estimation
// provider into the coaching core. The provider is opaque: the core depends
// only on the shape of the frames crossing the boundary.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"

	"swing-coach-lab/internal/domain"
)

// FrameSource is the boundary to an external pose-frame provider. Frames
// arrive in timestamp order at irregular but roughly periodic intervals; the
// channel closes when the source is exhausted or the context is cancelled.
type FrameSource interface {
	Frames(ctx context.Context) (<-chan domain.PoseFrame, error)
}

// framePayload is the JSON wire format one pose frame arrives in:
//
//	{"t": 1723629000123, "landmarks": [{"x":0.5,"y":0.4,"z":-0.1,"v":0.98}, ...]}
//
// Timestamps are producer-side milliseconds; landmark order follows the
// 33-point MediaPipe scheme.
type framePayload struct {
	TimestampMs int64                  `json:"t"`
	Landmarks   []domain.JointPosition `json:"landmarks"`
}

// DecodeFrame parses one wire-format frame.
func DecodeFrame(data []byte) (domain.PoseFrame, error) {
	var payload framePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.PoseFrame{}, fmt.Errorf("decode frame: %w", err)
	}
	if payload.TimestampMs <= 0 {
		return domain.PoseFrame{}, fmt.Errorf("decode frame: missing timestamp")
	}
	if len(payload.Landmarks) == 0 {
		return domain.PoseFrame{}, fmt.Errorf("decode frame: no landmarks")
	}
	return domain.PoseFrame{
		TimestampMs: payload.TimestampMs,
		Joints:      payload.Landmarks,
	}, nil
}

// EncodeFrame serializes a frame into the wire format. Used by the replay
// tooling; the server itself only decodes.
func EncodeFrame(frame domain.PoseFrame) ([]byte, error) {
	return json.Marshal(framePayload{
		TimestampMs: frame.TimestampMs,
		Landmarks:   frame.Joints,
	})
}
