package analysis

import "math"

// SecretEntropyThreshold is the Shannon entropy, in bits per character, above
// which a token is treated as a likely secret.
const SecretEntropyThreshold = 4.5

// ShannonEntropy returns the Shannon entropy of s in bits per character.
func ShannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}

	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}

	var h float64
	for _, n := range freq {
		p := float64(n) / float64(total)
		h -= p * math.Log2(p)
	}

	return h
}
