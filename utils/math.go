package utils

// Sign returns (-1)^n
func Sign(n int) float64 {
	if n%2 == 0 {
		return 1
	}
	return -1
}
