// Package classify compares tagged RGB samples against a reference color.
//
// A Classifier converts each sample to Lab, measures its CIEDE2000 distance
// to the reference and marks it as a match when the distance is within the
// configured threshold. CIE76 and CIE94 distances are reported alongside for
// comparison. Distances in a Result are truncated toward zero, not rounded.
//
// # Input
//
// Samples arrive either directly or as Records: an identifier plus a
// comma-separated list of packed 0xRRGGBB decimal integers, the form the
// data layer stores them in. ParseColorList turns such a list into colors,
// skipping empty segments.
//
// # Concurrency
//
// The work for one sample never depends on another. Classify fans the input
// out over a bounded number of goroutines and writes each result into its
// input slot, so output order always matches input order and a sequential
// run (Workers = 1) produces identical output.
package classify
