package utils

// NORMTOL is the largest accepted deviation of a DVR norm from one
const NORMTOL = 1.e-8

// Atomic unit conversions
const (
	Bohr2Angs = 0.52917721092
	Angs2Bohr = 1. / Bohr2Angs
	AU2MEV    = 27211.38602
)
