// Package notes implements the categorised note store: categories hold
// pages, and each page has six Markdown panels stored under their own
// content keys.
//
// The Store enforces no relationships between these keys. Service makes the
// relationships explicit: deleting a category deletes its pages, and deleting
// a page deletes its panel content. Cascades are sequences of independent
// saves, so readers must tolerate the partial states listed by Orphans and
// OrphanContent.
package notes
