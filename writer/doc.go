// Package writer creates a bag directory and streams connections and
// messages into it, following the teacher's functional-options
// configuration style and the Created -> Open -> Close -> Finalized state
// machine spec.md §4.6 defines.
package writer
