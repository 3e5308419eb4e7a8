package audio

// Fit returns a copy of buf truncated or zero-padded to n samples.
func Fit(buf []float64, n int) []float64 {
	out := make([]float64, max(0, n))
	copy(out, buf)
	return out
}

// Pair aligns track to the length of reference and returns the two as
// channels 0 and 1.
func Pair(reference, track []float64) [][]float64 {
	return [][]float64{reference, Fit(track, len(reference))}
}
