// Package debug provides a lightweight, allocation-free diagnostic logger used only on non-hot
// paths (init, fatal-error reporting) — never inside the per-tick scheduler loop.
package debug

import "log"

// DropError prints "<prefix>: <error>" when err is non-nil, or just "<prefix>" otherwise (used as
// a cheap trace tag). Intentionally unformatted and minimal — avoid extending.
//
//go:nosplit
//go:inline
func DropError(prefix string, err error) {
	if err != nil {
		log.Printf("%s: %v", prefix, err)
	} else {
		log.Print(prefix)
	}
}

// DropMessage prints "<prefix>: <message>" — used for cold-path status lines (phase transitions,
// run summaries) that aren't associated with an error value.
//
//go:nosplit
//go:inline
func DropMessage(prefix, message string) {
	log.Printf("%s: %s", prefix, message)
}
