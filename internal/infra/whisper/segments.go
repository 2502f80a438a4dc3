package whisper

import "strings"

// PCMToFloat converts 16-bit samples to floats in [-1, 1).
func PCMToFloat(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768
	}
	return out
}

// JoinSegments concatenates segment texts, skipping annotations such as
// [BLANK_AUDIO] or (music) and repeated segments.
func JoinSegments(segments []string) string {
	seen := make(map[string]bool)
	var parts []string
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s == "" || isAnnotation(s) || seen[s] {
			continue
		}
		seen[s] = true
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func isAnnotation(s string) bool {
	return s[0] == '(' || s[0] == '[' || s[len(s)-1] == ')' || s[len(s)-1] == ']'
}
