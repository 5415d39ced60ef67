//go:build !headless

package audio

import (
	"sync"
	"time"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoSink is a Sink backed by ebitengine/oto/v3, adapted from the teacher's
// own OtoPlayer (audio_backend_oto.go): a pull-based oto.Player reading
// float32 frames, here sourced from a Driver's RingBuffer instead of a
// chip's dedicated sample ring.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player
	ring   *RingBuffer

	mu      sync.Mutex
	started bool
}

// NewOtoSink creates an unopened oto sink.
func NewOtoSink() *OtoSink { return &OtoSink{} }

// Open creates the oto context and player at sampleRate with the given
// channel count, pulling frames from ring on every Read.
func (s *OtoSink) Open(sampleRate, channels int, ring *RingBuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4 * time.Millisecond,
	})
	if err != nil {
		return err
	}
	<-ready

	s.ctx = ctx
	s.ring = ring
	s.player = ctx.NewPlayer(s)
	return nil
}

// Read implements io.Reader for oto.Player: it pulls frames from the ring
// buffer and zero-fills any shortfall rather than blocking, so a slow
// producer never stalls the host's audio callback.
func (s *OtoSink) Read(p []byte) (n int, err error) {
	numSamples := len(p) / 4
	samples := s.ring.Read(numSamples, 5*time.Millisecond)

	buf := make([]float32, numSamples)
	copy(buf, samples)

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&buf[0]))[:len(p)])
	return len(p), nil
}

// Start begins playback.
func (s *OtoSink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started && s.player != nil {
		s.player.Play()
		s.started = true
	}
	return nil
}

// Stop halts playback without releasing the player.
func (s *OtoSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started && s.player != nil {
		s.player.Pause()
		s.started = false
	}
	return nil
}

// Close releases the player entirely.
func (s *OtoSink) Close() error {
	_ = s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		err := s.player.Close()
		s.player = nil
		return err
	}
	return nil
}

// IsStarted reports whether playback is active.
func (s *OtoSink) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}
