// Package classifier implements the complexity classifier component of the
// harness: given two (n, measurement) points and a tolerance, it selects
// one of a fixed set of growth classes.
package classifier
