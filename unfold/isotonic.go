// SPDX-License-Identifier: MIT

package unfold

// Isotonic returns the weighted least-squares non-decreasing fit to values
// (pool-adjacent-violators). A nil weights slice means unit weights.
// The input is not modified.
//
// Complexity: O(n) amortized time, O(n) space.
func Isotonic(values, weights []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	// blocks of pooled values: mean, total weight, length
	means := make([]float64, 0, n)
	wts := make([]float64, 0, n)
	lens := make([]int, 0, n)

	var i, top int
	var wi float64
	for i = 0; i < n; i++ {
		wi = 1
		if weights != nil {
			wi = weights[i]
		}
		means = append(means, values[i])
		wts = append(wts, wi)
		lens = append(lens, 1)

		// merge while the last two blocks violate monotonicity
		for top = len(means) - 1; top > 0 && means[top-1] > means[top]; top = len(means) - 1 {
			tw := wts[top-1] + wts[top]
			means[top-1] = (means[top-1]*wts[top-1] + means[top]*wts[top]) / tw
			wts[top-1] = tw
			lens[top-1] += lens[top]
			means, wts, lens = means[:top], wts[:top], lens[:top]
		}
	}

	// expand blocks
	var k, b int
	for b = range means {
		for i = 0; i < lens[b]; i++ {
			out[k] = means[b]
			k++
		}
	}

	return out
}
