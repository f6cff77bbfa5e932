package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/gopxl/beep"
	"github.com/youpy/go-wav"
)

const wavBlockSize = 1024

// WriteWAV pulls frames frames from src and writes them to w as 16-bit stereo
// PCM. If afterBlock is not nil it is called with the number of frames written
// so far after every block, which lets the caller drive a clock alongside the
// render.
func WriteWAV(w io.Writer, src beep.Streamer, sampleRate, frames int, afterBlock func(written int)) error {
	writer := wav.NewWriter(w, uint32(frames), 2, uint32(sampleRate), 16)
	buf := make([][2]float64, wavBlockSize)
	samples := make([]wav.Sample, wavBlockSize)
	written := 0
	for written < frames {
		n := wavBlockSize
		if frames-written < n {
			n = frames - written
		}
		got, ok := src.Stream(buf[:n])
		if !ok && got == 0 {
			if err := src.Err(); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			// pad with silence to keep the header length honest
			for i := range buf[:n] {
				buf[i] = [2]float64{}
			}
			got = n
		}
		for i := 0; i < got; i++ {
			samples[i].Values[0] = toPCM16(buf[i][0])
			samples[i].Values[1] = toPCM16(buf[i][1])
		}
		if err := writer.WriteSamples(samples[:got]); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
		written += got
		if afterBlock != nil {
			afterBlock(written)
		}
	}
	return nil
}

func toPCM16(v float64) int {
	v = math.Max(-1, math.Min(1, v))
	return int(math.Round(v * math.MaxInt16))
}
