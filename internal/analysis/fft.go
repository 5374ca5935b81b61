package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// data after removing its mean and applying a Hann window.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range data {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// of data sampled at sampleRate, and that bin's magnitude.
func DominantFrequency(data []float64, sampleRate float64) (freq, power float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || sampleRate <= 0 {
		return 0, 0
	}

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) * sampleRate / float64(len(data)), ps[best]
}

// Resample linearly interpolates values taken at increasing times onto a
// uniform grid at rate samples per second.
func Resample(times, values []float64, rate float64) []float64 {
	n := len(times)
	if n == 0 || n != len(values) || rate <= 0 {
		return nil
	}

	t0, t1 := times[0], times[n-1]
	count := int(math.Floor((t1-t0)*rate)) + 1
	out := make([]float64, count)

	j := 0
	for i := range out {
		t := t0 + float64(i)/rate
		for j < n-2 && times[j+1] < t {
			j++
		}
		if j+1 >= n {
			out[i] = values[n-1]
			continue
		}
		span := times[j+1] - times[j]
		if span <= 0 {
			out[i] = values[j+1]
			continue
		}
		alpha := (t - times[j]) / span
		alpha = math.Max(0, math.Min(1, alpha))
		out[i] = values[j] + (values[j+1]-values[j])*alpha
	}
	return out
}
