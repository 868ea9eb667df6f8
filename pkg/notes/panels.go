package notes

// Column is the side of the page a panel is laid out in.
type Column string

const (
	ColumnLeft  Column = "left"
	ColumnRight Column = "right"
)

// Panel is one of the fixed content slots of a page.
type Panel struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Column Column `json:"column"`
}

var panels = []Panel{
	{ID: "summary", Label: "Summary", Column: ColumnLeft},
	{ID: "episode", Label: "Episode", Column: ColumnLeft},
	{ID: "question", Label: "Questions", Column: ColumnLeft},
	{ID: "lineage", Label: "Lineage", Column: ColumnRight},
	{ID: "art", Label: "Artworks", Column: ColumnRight},
	{ID: "modern", Label: "Modern references", Column: ColumnRight},
}

// Panels returns the six panels, left column first.
func Panels() []Panel {
	out := make([]Panel, len(panels))
	copy(out, panels)
	return out
}

// IsPanel reports whether id names a panel.
func IsPanel(id string) bool {
	_, ok := PanelByID(id)
	return ok
}

// PanelByID returns the panel with the given id.
func PanelByID(id string) (Panel, bool) {
	for _, p := range panels {
		if p.ID == id {
			return p, true
		}
	}
	return Panel{}, false
}
