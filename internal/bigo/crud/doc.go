// Package crud implements the CRUD Harness, composing four passrunner
// analyses that share one dataset parameter n.
package crud
