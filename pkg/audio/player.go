package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hellwatch/hellwatch/pkg/models"
)

const (
	sampleRate = 44100
	channels   = 1

	burstLen = 180 * time.Millisecond // one tone burst
	gapLen   = 120 * time.Millisecond // silence between bursts
)

// Global audio context singleton
var (
	globalCtx     *oto.Context
	globalCtxOnce sync.Once
	ctxReady      bool
)

// initContext initializes the global audio context once.
func initContext() {
	globalCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalCtx = ctx
		ctxReady = true
		log.Println("Audio context initialized successfully")
	})
}

// TonePlayer synthesizes and plays beep patterns. Safe for use from any
// goroutine; playback never blocks the caller.
type TonePlayer struct{}

func NewTonePlayer() *TonePlayer {
	return &TonePlayer{}
}

// PatternDuration returns how long a pattern lasts from first to last sample.
func PatternDuration(pattern models.BeepPattern) time.Duration {
	n := pattern.Repeats()
	return time.Duration(n)*burstLen + time.Duration(n-1)*gapLen
}

// Beep plays the pattern at the given pitch and returns its duration. The
// duration is returned immediately while playback runs in the background, so
// the caller can sequence follow-up cues. An unavailable audio device is an
// error, not a panic.
func (p *TonePlayer) Beep(pattern models.BeepPattern, pitchHz int) (time.Duration, error) {
	initContext()
	if !ctxReady || globalCtx == nil {
		return 0, errors.New("audio context not ready")
	}
	if pitchHz <= 0 {
		pitchHz = 880
	}

	pcm := renderPattern(pattern.Repeats(), pitchHz)

	go func() {
		player := globalCtx.NewPlayer(bytes.NewReader(pcm))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(time.Millisecond)
		}
		if err := player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}
	}()

	return PatternDuration(pattern), nil
}

// renderPattern builds signed 16-bit little-endian PCM for n sine bursts
// separated by silence, with a short attack/release ramp to avoid clicks.
func renderPattern(n, pitchHz int) []byte {
	burstSamples := int(sampleRate * burstLen / time.Second)
	gapSamples := int(sampleRate * gapLen / time.Second)
	ramp := sampleRate / 200 // 5ms fade in/out

	total := n*burstSamples + (n-1)*gapSamples
	buf := make([]byte, total*2)

	pos := 0
	for burst := 0; burst < n; burst++ {
		for i := 0; i < burstSamples; i++ {
			amp := 0.6
			if i < ramp {
				amp *= float64(i) / float64(ramp)
			} else if burstSamples-i < ramp {
				amp *= float64(burstSamples-i) / float64(ramp)
			}
			v := amp * math.Sin(2*math.Pi*float64(pitchHz)*float64(i)/sampleRate)
			binary.LittleEndian.PutUint16(buf[pos:], uint16(int16(v*math.MaxInt16)))
			pos += 2
		}
		if burst < n-1 {
			pos += gapSamples * 2 // zeroed already
		}
	}
	return buf
}
