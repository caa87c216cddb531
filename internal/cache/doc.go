// Package cache implements a single-process, in-memory key–value cache.
//
// Goals for this package:
//   - Make the core data structures explicit (map + doubly-linked list)
//   - Provide O(1) Set/Get/Delete via map index + insertion-order pointers
//   - Be concurrency-safe (RWMutex) with correctness as the primary goal
//   - Support per-entry TTL with lazy expiration on every touch, plus an
//     optional background janitor
//   - Track cumulative hit/miss statistics without failing any operation
//
// Eviction is FIFO: when the cache is full, the earliest-inserted live entry
// goes first. Get does not refresh an entry's position, and overwriting a key
// keeps its original insertion slot. This is not LRU and is not meant to be.
package cache
