// Package memo wraps functions so repeated calls with equal arguments reuse
// a cached result instead of recomputing.
//
// Each wrapper owns a private cache instance; two wrappers never share state,
// and there is no package-level cache.
//
// Keys default to the canonical JSON encoding of the argument (see Key).
// Arguments that encoding/json cannot serialize, such as functions, channels,
// or cyclic structures, degrade to a fmt-formatted fallback key rather than
// panicking; callers with such arguments should supply WithKeyFunc.
//
// The context-aware variant MemoizeCtx never caches an error: a failed call
// propagates its error unchanged and the next call with the same key invokes
// the function again. Without WithCoalescing, overlapping calls for the same
// key each run their own computation.
package memo
