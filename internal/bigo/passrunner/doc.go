// Package passrunner orchestrates the Pass Runner state machine: warmup,
// reset, two measurement passes, classification, and report rendering.
package passrunner
