package audio

// HQPipeline implements the optional high-quality audio path: 8x
// oversampling via AYUMI-style cubic interpolation, a 192-tap symmetric FIR
// decimation filter, and a DC-blocking high-pass — ported from
// HighQualityAudioPipeline (original_source/pypsgemu/audio/high_quality_pipeline.py).
// Operates on mono frames; construct two for stereo processing.
type HQPipeline struct {
	oversample int
	history    [4]float64 // last 4 raw input samples, for cubic interpolation
	fir        firFilter
	dcSum      float64
	dcBuf      [dcFilterSize]float64
	dcIndex    int
}

const (
	oversampleFactor = 8
	firTapCount      = 192
	dcFilterSize     = 1024
)

// firCoefficients mirrors the original's sparse symmetric tap set: only the
// center tap (96) and the seven taps on each side of it (89-95, 97-103)
// carry a nonzero AYUMI coefficient, the rest are zero — reproduced exactly, not "filled in" with
// invented values for the untapped positions.
var firCoefficients = func() [firTapCount]float64 {
	var c [firTapCount]float64
	c[96] = 0.125
	c[95], c[97] = 0.12176343577287731, 0.12176343577287731
	c[94], c[98] = 0.11236045936950932, 0.11236045936950932
	c[93], c[99] = 0.097675998716952317, 0.097675998716952317
	c[92], c[100] = 0.079072012081405949, 0.079072012081405949
	c[91], c[101] = 0.057345000000000003, 0.057345000000000003
	c[90], c[102] = 0.033333333333333333, 0.033333333333333333
	c[89], c[103] = 0.0078125000000000002, 0.0078125000000000002
	return c
}()

type firFilter struct {
	buf   [firTapCount]float64
	index int
}

func (f *firFilter) process(sample float64) float64 {
	f.buf[f.index] = sample
	f.index = (f.index + 1) % firTapCount
	var result float64
	for i := 0; i < firTapCount; i++ {
		idx := (f.index - 1 - i + firTapCount*2) % firTapCount
		result += f.buf[idx] * firCoefficients[i]
	}
	return result
}

// NewHQPipeline creates a single-channel oversampling pipeline.
func NewHQPipeline() *HQPipeline {
	return &HQPipeline{oversample: oversampleFactor}
}

// cubicCoefficients computes the AYUMI-style interpolation coefficients
// from the last four input samples (spec.md §4.11).
func cubicCoefficients(y0, y1, y2, y3 float64) (c0, c1, c2 float64) {
	diff := y2 - y0
	c0 = 0.5*y1 + 0.25*(y0+y2)
	c1 = 0.5 * diff
	c2 = 0.25 * (y3 - y1 - diff)
	return
}

// Process runs one input sample through 8x cubic-interpolated oversampling,
// the 192-tap FIR, decimation back to the base rate (only the first of
// every 8 filtered outputs is kept, matching the original's
// _process_channel), and the DC-blocking stage, returning the one output
// sample for this input.
func (p *HQPipeline) Process(sample float64) float64 {
	p.history[0], p.history[1], p.history[2], p.history[3] =
		p.history[1], p.history[2], p.history[3], sample

	c0, c1, c2 := cubicCoefficients(p.history[0], p.history[1], p.history[2], p.history[3])

	var decimated float64
	for i := 0; i < p.oversample; i++ {
		x := float64(i) / float64(p.oversample)
		interpolated := (c2*x+c1)*x + c0
		filtered := p.fir.process(interpolated)
		if i == 0 {
			decimated = filtered
		}
	}

	return p.dcBlock(decimated)
}

// dcBlock is a moving-average DC subtractor over dcFilterSize samples,
// reproduced from DCRemovalFilter: out = x - running_mean(x).
func (p *HQPipeline) dcBlock(x float64) float64 {
	p.dcSum += -p.dcBuf[p.dcIndex] + x
	p.dcBuf[p.dcIndex] = x
	p.dcIndex = (p.dcIndex + 1) % dcFilterSize
	return x - p.dcSum/float64(dcFilterSize)
}

// Reset clears all internal filter state.
func (p *HQPipeline) Reset() {
	*p = HQPipeline{oversample: oversampleFactor}
}
