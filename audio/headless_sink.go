//go:build headless

package audio

// HeadlessSink is a no-op Sink for tests and headless builds, grounded on
// the teacher's own audio_backend_headless.go stub.
type HeadlessSink struct {
	started bool
}

// NewHeadlessSink creates a sink that discards all audio.
func NewHeadlessSink() *HeadlessSink { return &HeadlessSink{} }

func (s *HeadlessSink) Open(sampleRate, channels int, ring *RingBuffer) error { return nil }
func (s *HeadlessSink) Start() error                                         { s.started = true; return nil }
func (s *HeadlessSink) Stop() error                                          { s.started = false; return nil }
func (s *HeadlessSink) Close() error                                         { s.started = false; return nil }
func (s *HeadlessSink) IsStarted() bool                                      { return s.started }
