// Package mythos is the composition root of the Mythos journal and note store.
//
// All state is a flat mapping from string keys to JSON values held by a
// pluggable backend (memory, a directory of files, SQLite or PostgreSQL).
// The Store reads with fallbacks and never surfaces write errors to callers;
// the journal and notes services build the application operations on top.
//
// Usage:
//
//	st, err := mythos.Open(ctx, "./data", mythos.WithAdapter("sqlite"))
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	journal := mythos.NewJournal(st)
//	entry, err := journal.Add(ctx, mythos.Draft{Title: "Prometheus"})
package mythos
