package nodes

// DefaultTopK is the retrieval fan-out used when configuration is absent or invalid.
const DefaultTopK = 3

const maxLabelSnippet = 80

// normalizeTopK returns a sane default when the provided value is invalid.
func normalizeTopK(k int) int {
	if k <= 0 {
		return DefaultTopK
	}
	return k
}

// safeSnippet truncates untrusted model output before it reaches the logs.
func safeSnippet(s string) string {
	if len(s) <= maxLabelSnippet {
		return s
	}
	return s[:maxLabelSnippet]
}
