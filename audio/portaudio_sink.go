//go:build portaudio

package audio

import (
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// PortAudioSink is an alternate Sink backed by gordonklaus/portaudio, for
// platforms or deployments where oto isn't the preferred backend (the pack
// carries this dependency but no pack repo wires it to a concrete
// component — see DESIGN.md). Uses PortAudio's pull-callback stream model,
// the same shape as OtoSink's Read: the callback pulls from the ring buffer
// and zero-fills on shortfall.
type PortAudioSink struct {
	stream *portaudio.Stream
	ring   *RingBuffer

	mu      sync.Mutex
	started bool
	opened  bool
}

// NewPortAudioSink creates an unopened PortAudio sink.
func NewPortAudioSink() *PortAudioSink { return &PortAudioSink{} }

// Open initializes the PortAudio library and the default output stream with
// the given channel count.
func (s *PortAudioSink) Open(sampleRate, channels int, ring *RingBuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return err
	}
	s.ring = ring

	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), 0, s.callback)
	if err != nil {
		_ = portaudio.Terminate()
		return err
	}
	s.stream = stream
	s.opened = true
	return nil
}

func (s *PortAudioSink) callback(out []float32) {
	samples := s.ring.Read(len(out), 5*time.Millisecond)
	copy(out, samples)
	for i := len(samples); i < len(out); i++ {
		out[i] = 0
	}
}

// Start begins stream playback.
func (s *PortAudioSink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stream == nil {
		return nil
	}
	if err := s.stream.Start(); err != nil {
		return err
	}
	s.started = true
	return nil
}

// Stop halts stream playback.
func (s *PortAudioSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.stream == nil {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		return err
	}
	s.started = false
	return nil
}

// Close releases the stream and terminates the PortAudio library.
func (s *PortAudioSink) Close() error {
	_ = s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream != nil {
		_ = s.stream.Close()
		s.stream = nil
	}
	if s.opened {
		s.opened = false
		return portaudio.Terminate()
	}
	return nil
}

// IsStarted reports whether the stream is currently active.
func (s *PortAudioSink) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}
