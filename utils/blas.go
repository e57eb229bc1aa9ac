package utils

// BLASImplementation names the BLAS backend gonum routes through
var BLASImplementation = "gonum"
