// Package replay reads recorded pose-frame logs and feeds them through the
// live pipeline. Frame logs are development artifacts for calibration and
// regression checks, one wire-format JSON frame per line.
package replay

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"swing-coach-lab/internal/domain"
	"swing-coach-lab/internal/ingestion"
)

// FileSource replays a JSONL frame log as a FrameSource.
type FileSource struct {
	path string
	// realtime, when set, sleeps out the recorded inter-frame gaps;
	// otherwise frames are delivered as fast as the consumer takes them.
	// Detection is timestamp-driven either way, so results are identical.
	realtime bool
}

// NewFileSource creates a replay source for the given frame log.
func NewFileSource(path string, realtime bool) *FileSource {
	return &FileSource{path: path, realtime: realtime}
}

// Frames loads the log, sorts it by timestamp, and streams it on the
// returned channel. The channel closes when the log is exhausted or the
// context is cancelled.
func (s *FileSource) Frames(ctx context.Context) (<-chan domain.PoseFrame, error) {
	frames, err := LoadFrameLog(s.path)
	if err != nil {
		return nil, err
	}

	out := make(chan domain.PoseFrame)
	go func() {
		defer close(out)
		var prevMs int64
		for _, frame := range frames {
			if s.realtime && prevMs > 0 {
				gap := time.Duration(frame.TimestampMs-prevMs) * time.Millisecond
				select {
				case <-time.After(gap):
				case <-ctx.Done():
					return
				}
			}
			prevMs = frame.TimestampMs

			select {
			case out <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// LoadFrameLog reads every frame from a JSONL log, sorted by timestamp.
// Blank lines are skipped; a malformed line fails the whole load, since a
// corrupt log should be fixed rather than silently truncated.
func LoadFrameLog(path string) ([]domain.PoseFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame log: %w", err)
	}
	defer f.Close()

	var frames []domain.PoseFrame
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		frame, err := ingestion.DecodeFrame(data)
		if err != nil {
			return nil, fmt.Errorf("frame log line %d: %w", line, err)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read frame log: %w", err)
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].TimestampMs < frames[j].TimestampMs
	})
	return frames, nil
}

// WriteFrameLog writes frames to a JSONL log in the wire format.
func WriteFrameLog(path string, frames []domain.PoseFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame log: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, frame := range frames {
		data, err := ingestion.EncodeFrame(frame)
		if err != nil {
			return fmt.Errorf("encode frame: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write frame log: %w", err)
		}
	}
	return w.Flush()
}
