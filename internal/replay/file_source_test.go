package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swing-coach-lab/internal/domain"
)

func testFrames() []domain.PoseFrame {
	joints := func(x float64) []domain.JointPosition {
		js := make([]domain.JointPosition, domain.LandmarkCount)
		js[domain.LandmarkRightWrist] = domain.JointPosition{X: x, Y: 0.5, Z: -0.1, Visibility: 0.9}
		return js
	}
	return []domain.PoseFrame{
		{TimestampMs: 1000, Joints: joints(0.50)},
		{TimestampMs: 1033, Joints: joints(0.52)},
		{TimestampMs: 1066, Joints: joints(0.55)},
	}
}

func TestFrameLog_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rally.jsonl")

	require.NoError(t, WriteFrameLog(path, testFrames()))

	loaded, err := LoadFrameLog(path)
	require.NoError(t, err)
	assert.Equal(t, testFrames(), loaded)
}

func TestLoadFrameLog_SortsByTimestamp(t *testing.T) {
	frames := testFrames()
	// Write out of order; the loader must restore timestamp order.
	shuffled := []domain.PoseFrame{frames[2], frames[0], frames[1]}

	path := filepath.Join(t.TempDir(), "rally.jsonl")
	require.NoError(t, WriteFrameLog(path, shuffled))

	loaded, err := LoadFrameLog(path)
	require.NoError(t, err)
	assert.Equal(t, frames, loaded)
}

func TestLoadFrameLog_MalformedLineFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rally.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"t\":1000,\"landmarks\":[{\"x\":1,\"y\":1,\"z\":0,\"v\":1}]}\nnot json\n"), 0o644))

	_, err := LoadFrameLog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFileSource_StreamsAllFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rally.jsonl")
	require.NoError(t, WriteFrameLog(path, testFrames()))

	source := NewFileSource(path, false)
	frames, err := source.Frames(context.Background())
	require.NoError(t, err)

	var got []domain.PoseFrame
	for frame := range frames {
		got = append(got, frame)
	}
	assert.Equal(t, testFrames(), got)
}

func TestFileSource_CancelStopsStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rally.jsonl")
	require.NoError(t, WriteFrameLog(path, testFrames()))

	ctx, cancel := context.WithCancel(context.Background())
	source := NewFileSource(path, true)
	frames, err := source.Frames(ctx)
	require.NoError(t, err)

	<-frames // first frame arrives without delay
	cancel()

	// The channel must close instead of sleeping out the remaining gaps.
	for range frames {
	}
}
