package sound

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"

	"tomatobar/internal/core/timekeeper"
)

const (
	windupDuration = 600 * time.Millisecond
	dingDuration   = 900 * time.Millisecond
	dingFrequency  = 880
	clickDuration  = 6 * time.Millisecond
)

// windupSound is a rising sweep.
func windupSound(rate beep.SampleRate) beep.Streamer {
	total := rate.N(windupDuration)
	var position int
	var angle float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if position >= total {
			return 0, false
		}
		n := 0
		for ; n < len(samples) && position < total; n++ {
			progress := float64(position) / float64(total)
			frequency := 220 + 660*progress
			angle += 2 * math.Pi * frequency / float64(rate)
			value := 0.5 * math.Sin(angle) * fade(progress)
			samples[n] = [2]float64{value, value}
			position++
		}
		return n, true
	})
}

// dingSound is a bell-like tone with an exponential decay.
func dingSound(rate beep.SampleRate) (beep.Streamer, error) {
	tone, err := generators.SineTone(rate, dingFrequency)
	if err != nil {
		return nil, err
	}
	total := rate.N(dingDuration)
	return decay(beep.Take(total, tone), total), nil
}

func decay(streamer beep.Streamer, total int) beep.Streamer {
	var position int
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := streamer.Stream(samples)
		for index := range samples[:n] {
			gain := 0.6 * math.Exp(-5*float64(position)/float64(total))
			samples[index][0] *= gain
			samples[index][1] *= gain
			position++
		}
		return n, ok
	})
}

// fade ramps the edges of a sound to avoid clicks.
func fade(progress float64) float64 {
	return math.Min(1, math.Min(progress*20, (1-progress)*8))
}

// ambienceSound returns an endless loop for kind.
func ambienceSound(kind timekeeper.AmbienceKind, rate beep.SampleRate) beep.Streamer {
	switch kind {
	case timekeeper.AmbienceTicking:
		return ticking(rate)
	case timekeeper.AmbienceDark:
		return brownNoise()
	case timekeeper.AmbienceRainy:
		return rain()
	default:
		return nil
	}
}

// ticking clicks once per second.
func ticking(rate beep.SampleRate) beep.Streamer {
	period, click := rate.N(time.Second), rate.N(clickDuration)
	var position int
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for index := range samples {
			offset := position % period
			var value float64
			if offset < click {
				value = 0.4 * white() * (1 - float64(offset)/float64(click))
			}
			samples[index] = [2]float64{value, value}
			position++
		}
		return len(samples), true
	})
}

func brownNoise() beep.Streamer {
	var last float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for index := range samples {
			last = (last + 0.02*white()) / 1.02
			value := 3 * last
			samples[index] = [2]float64{value, value}
		}
		return len(samples), true
	})
}

// rain is low-passed white noise with occasional drops.
func rain() beep.Streamer {
	var last float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for index := range samples {
			last += 0.3 * (white() - last)
			value := 0.3 * last
			if rand.IntN(4000) == 0 {
				value += 0.3 * white()
			}
			samples[index] = [2]float64{value, value}
		}
		return len(samples), true
	})
}

func white() float64 {
	return rand.Float64()*2 - 1
}
