package main

import (
	"encoding/json"
	"io"
)

var jsonOutput bool

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
