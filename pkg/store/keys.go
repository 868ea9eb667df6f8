package store

import (
	"strings"
)

// Fixed keys of the persisted layout.
const (
	KeyEntries    = "entries"
	KeyGoal       = "goal"
	KeyCategories = "categories"
	KeyPages      = "pages"
	KeyImages     = "images"
)

const (
	contentPrefix = "content:"
	contentSep    = ":"
)

var keyEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// ContentKey addresses the Markdown content of one panel of one page.
type ContentKey struct {
	PageID  string
	PanelID string
}

// String encodes the key as content:{pageID}:{panelID}.
// Separator and escape characters inside the ids are percent-encoded, so
// distinct pairs never encode to the same key.
func (k ContentKey) String() string {
	return contentPrefix + keyEscaper.Replace(k.PageID) + contentSep + keyEscaper.Replace(k.PanelID)
}

// NoteContentKey returns the storage key of a panel's content.
func NoteContentKey(pageID, panelID string) string {
	return ContentKey{PageID: pageID, PanelID: panelID}.String()
}

// ParseContentKey decodes a key produced by ContentKey.String. Keys that
// String would not produce, such as lowercase escapes or a bare '%', are
// rejected, so a parsed key always re-encodes to the same string.
func ParseContentKey(key string) (ContentKey, bool) {
	rest, ok := strings.CutPrefix(key, contentPrefix)
	if !ok {
		return ContentKey{}, false
	}
	page, panel, ok := strings.Cut(rest, contentSep)
	if !ok || strings.Contains(panel, contentSep) {
		return ContentKey{}, false
	}
	ck := ContentKey{
		PageID:  unescapeKeyPart(page),
		PanelID: unescapeKeyPart(panel),
	}
	if ck.String() != key {
		return ContentKey{}, false
	}
	return ck, true
}

// unescapeKeyPart reverses keyEscaper, scanning left to right so that
// "%253A" decodes to "%3A" rather than ":".
func unescapeKeyPart(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+3 <= len(s) {
			switch s[i : i+3] {
			case "%25":
				b.WriteByte('%')
				i += 2
				continue
			case "%3A":
				b.WriteByte(':')
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
