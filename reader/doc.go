// Package reader opens a bag directory, reconciles its manifest against
// the storage backend(s) it lists, and yields messages in ascending
// timestamp order across every file. It follows the teacher's Created ->
// Open -> Iterate* -> Close state-machine shape, exposing a Reader handle
// rather than free functions.
package reader
