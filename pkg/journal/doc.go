// Package journal implements the Mythos Journal: one entry per learned topic,
// five reflective questions per entry, a goal counter and a weekly review.
//
// Entries live as a single newest-first list under store.KeyEntries and the
// goal under store.KeyGoal.
package journal
