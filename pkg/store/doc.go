// Package store is the persistent store of the journal and note data.
//
// A [Store] maps string keys to JSON values held by an injected
// [core.Backend]. Reads never fail: an absent key, unparsable text or a
// backend error all resolve to the caller's fallback. Writes never fail
// either: a rejected write is logged, handed to the optional error handler
// and otherwise swallowed, so the caller's in-memory state may run ahead of
// what is durable.
//
// Every Save replaces the whole value stored at a key. There are no
// transactions across keys; callers updating several keys must tolerate a
// partial result (for example a page whose category was deleted).
package store
