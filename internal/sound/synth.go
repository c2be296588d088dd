package sound

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// SampleRate is the rate every effect is generated at.
const SampleRate = beep.SampleRate(44100)

type wave uint8

const (
	waveSine wave = iota
	waveSquare
	waveNoise
)

// tone is a fixed-length oscillator with a linear fade out.
type tone struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     wave
	gain     float64
	rng      *rand.Rand
}

func newTone(freq float64, d time.Duration, w wave, gain float64) *tone {
	return &tone{
		freq:   freq,
		length: SampleRate.N(d),
		wave:   w,
		gain:   gain,
		rng:    rand.New(rand.NewSource(int64(freq * 1000))),
	}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}
		var v float64
		switch o.wave {
		case waveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			if o.phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		case waveNoise:
			v = o.rng.Float64()*2 - 1
		}
		fade := 1 - float64(o.position)/float64(o.length)
		v *= o.gain * fade
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(SampleRate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }

// Effect builds a fresh streamer for id, or nil for an unknown id.
func Effect(id ID) beep.Streamer {
	switch id {
	case Footstep:
		return newTone(0, 45*time.Millisecond, waveNoise, 0.25)
	case Push:
		return newTone(90, 120*time.Millisecond, waveSquare, 0.2)
	case Undo:
		return beep.Seq(
			newTone(660, 50*time.Millisecond, waveSine, 0.2),
			newTone(440, 70*time.Millisecond, waveSine, 0.2),
		)
	case Win:
		return beep.Seq(
			newTone(523.25, 110*time.Millisecond, waveSine, 0.3),
			newTone(659.25, 110*time.Millisecond, waveSine, 0.3),
			newTone(783.99, 220*time.Millisecond, waveSine, 0.3),
		)
	}
	return nil
}
