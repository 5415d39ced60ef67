package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/zotley-labs/ay38910"
)

// Sink is a pluggable host audio backend. It pulls frames from the Driver's
// ring buffer at its own pace (oto's callback, PortAudio's callback, or
// nothing at all for the headless sink) rather than being pushed to, which
// keeps the Driver ignorant of any particular host audio API.
type Sink interface {
	// Open prepares the sink for the given sample rate and channel count
	// (1 = mono, 2 = interleaved stereo), wiring ring as the source it
	// pulls frames from.
	Open(sampleRate, channels int, ring *RingBuffer) error
	Start() error
	Stop() error
	Close() error
	IsStarted() bool
}

// ErrorCallback is invoked whenever a non-fatal error occurs: from the
// generation goroutine when a chunk does not fit into the ring buffer, and
// from Stop when the generation goroutine does not exit in time.
type ErrorCallback func(error)

// StatusCallback is invoked on driver lifecycle transitions ("started",
// "stopped", "paused", "resumed").
type StatusCallback func(status string)

// Driver owns a Core, a SampleGenerator, a RingBuffer, and a Sink, and runs
// the background generation loop that keeps the ring buffer fed. Modeled on
// AudioDriver (original_source/pypsgemu/audio/driver.py): a dedicated
// generation goroutine plays the producer role while the sink's own
// callback (or polling loop) plays the consumer, decoupled entirely through
// the ring buffer.
type Driver struct {
	core       *ay38910.Core
	sink       Sink
	sampleRate int
	channels   int

	generator *SampleGenerator
	ring      *RingBuffer

	mu        sync.Mutex
	playing   bool
	paused    bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	startTime time.Time

	errorCallback  ErrorCallback
	statusCallback StatusCallback

	underrunCount uint64
}

// NewDriver builds a Driver around core, generating at sampleRate with the
// given output gain (clamped to [0, 1]) and buffering bufferSeconds worth of
// frames. The channel count (mono or interleaved stereo) comes from core's
// Config, same as the sample generator it builds. sink is not opened until
// Start is called.
func NewDriver(core *ay38910.Core, sink Sink, sampleRate int, outputGain float32, bufferSeconds float64) (*Driver, error) {
	gen, err := NewSampleGenerator(core, sampleRate, outputGain)
	if err != nil {
		return nil, err
	}
	if bufferSeconds <= 0 {
		bufferSeconds = 0.1
	}
	channels := gen.Channels()
	size := int(float64(sampleRate)*bufferSeconds) * channels
	if size < channels {
		size = channels
	}
	return &Driver{
		core:       core,
		sink:       sink,
		sampleRate: sampleRate,
		channels:   channels,
		generator:  gen,
		ring:       NewRingBuffer(size),
	}, nil
}

// SetErrorCallback installs a callback invoked on background errors.
func (d *Driver) SetErrorCallback(cb ErrorCallback) { d.errorCallback = cb }

// SetStatusCallback installs a callback invoked on lifecycle transitions.
func (d *Driver) SetStatusCallback(cb StatusCallback) { d.statusCallback = cb }

// IsPlaying reports whether the driver is currently generating and playing.
func (d *Driver) IsPlaying() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

// RingBuffer exposes the driver's ring buffer, mainly for statistics.
func (d *Driver) RingBuffer() *RingBuffer { return d.ring }

// Start opens the sink, resets statistics, and launches the background
// generation goroutine.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.playing {
		return fmt.Errorf("audio: driver already playing: %w", ay38910.ErrAudioRuntime)
	}
	if err := d.sink.Open(d.sampleRate, d.channels, d.ring); err != nil {
		return fmt.Errorf("audio: open sink: %w: %w", ay38910.ErrAudioBackend, err)
	}
	if err := d.sink.Start(); err != nil {
		return fmt.Errorf("audio: start sink: %w: %w", ay38910.ErrAudioBackend, err)
	}

	d.ring.ResetStatistics()
	d.generator.ResetStatistics()
	d.underrunCount = 0

	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	go d.generationLoop(d.stopCh, d.doneCh)

	d.playing = true
	d.paused = false
	d.startTime = time.Now()
	d.notifyStatus("started")
	return nil
}

// Pause stops the sink without tearing down the generation goroutine, so
// the ring buffer keeps filling while playback is silent — mirrors
// AudioDriver.pause, which stops only the underlying stream.
func (d *Driver) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.playing || d.paused {
		return nil
	}
	if err := d.sink.Stop(); err != nil {
		return fmt.Errorf("audio: pause sink: %w", err)
	}
	d.paused = true
	d.notifyStatus("paused")
	return nil
}

// Resume restarts a sink previously stopped by Pause. Mirrors
// AudioDriver.resume, which restarts the stream only.
func (d *Driver) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.playing || !d.paused {
		return nil
	}
	if err := d.sink.Start(); err != nil {
		return fmt.Errorf("audio: resume sink: %w", err)
	}
	d.paused = false
	d.notifyStatus("resumed")
	return nil
}

// IsPaused reports whether the driver is playing but currently paused.
func (d *Driver) IsPaused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing && d.paused
}

// Stop signals the generation goroutine to exit, waits up to one second for
// it to finish, then stops and closes the sink. If the goroutine has not
// exited within that second, the sink is still stopped and closed, and Stop
// reports an ErrAudioRuntime error (also passed to the error callback).
func (d *Driver) Stop() error {
	d.mu.Lock()
	if !d.playing {
		d.mu.Unlock()
		return nil
	}
	d.playing = false
	d.paused = false
	stopCh, doneCh := d.stopCh, d.doneCh
	d.mu.Unlock()

	close(stopCh)
	var err error
	select {
	case <-doneCh:
	case <-time.After(time.Second):
		err = fmt.Errorf("audio: generation goroutine did not exit within 1s: %w", ay38910.ErrAudioRuntime)
		d.notifyError(err)
	}

	if stopErr := d.sink.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	if closeErr := d.sink.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	d.ring.Clear()
	d.notifyStatus("stopped")
	return err
}

// generationLoop fills the ring buffer in chunks until stopCh closes,
// mirroring AudioDriver._generation_loop's chunked, free-space-gated
// production rhythm instead of generating one frame at a time.
func (d *Driver) generationLoop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	const minChunk = 512
	const maxChunk = 4096
	chunkFrames := d.ring.Size() / d.channels / 4
	if chunkFrames < minChunk {
		chunkFrames = minChunk
	}
	if chunkFrames > maxChunk {
		chunkFrames = maxChunk
	}

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		freeFrames := d.ring.Free() / d.channels
		if freeFrames < chunkFrames {
			time.Sleep(time.Millisecond)
			continue
		}
		n := chunkFrames
		if n > freeFrames {
			n = freeFrames
		}
		samples := d.generator.GenerateSamples(n)
		written := d.ring.Write(samples, 10*time.Millisecond)
		if written < len(samples) {
			d.notifyError(fmt.Errorf("audio: buffer overrun, wrote %d/%d frames", written, len(samples)))
		}
	}
}

func (d *Driver) notifyError(err error) {
	if d.errorCallback != nil {
		d.errorCallback(err)
	}
}

func (d *Driver) notifyStatus(status string) {
	if d.statusCallback != nil {
		d.statusCallback(status)
	}
}

// Statistics reports driver-level counters alongside the ring buffer's own.
type Statistics struct {
	Playing         bool
	Runtime         time.Duration
	FramesGenerated uint64
	Buffer          Stats
}

// Statistics returns a snapshot of the driver's running state.
func (d *Driver) Statistics() Statistics {
	d.mu.Lock()
	playing := d.playing
	start := d.startTime
	d.mu.Unlock()

	var runtime time.Duration
	if playing {
		runtime = time.Since(start)
	}
	return Statistics{
		Playing:         playing,
		Runtime:         runtime,
		FramesGenerated: d.generator.FramesGenerated(),
		Buffer:          d.ring.Statistics(),
	}
}
