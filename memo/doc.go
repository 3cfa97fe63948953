// Package memo memoizes many values at once, each behind its own
// lazy.Concurrent.
//
// The Tableize family memoizes pure functions by their arguments:
//
//	area := memo.TableizeI2O1(func(w, h int) int { return w * h }, 1024)
//	area(3, 4) // computed
//	area(3, 4) // served from the table
//
// Tableize assumes purity, not just determinism: do not use it on functions
// that depend on time, I/O or any other outside state. Concurrent first
// calls with equal arguments run the function once, unless the table
// rotates between them and each call lands in a different generation.
// Tables are bounded: a Trie keeps two generations and drops the older one
// when the newer fills up, so an evicted result is computed again on demand.
//
// Map memoizes values by string key with a caller-provided supplier. Failed
// suppliers are not cached, so a later Get for the same key retries.
package memo
