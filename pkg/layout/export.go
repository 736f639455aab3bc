package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the JSON form of a target set written by `deckview layout`.
type Document struct {
	Layout  Name      `json:"layout"`
	Count   int       `json:"count"`
	Targets TargetSet `json:"targets"`
}

// NewDocument builds the target set for n items under name.
func NewDocument(name Name, n int) (Document, error) {
	g, ok := Lookup(name)
	if !ok {
		_, err := ParseName(string(name))
		return Document{}, err
	}
	set := Build(g, n)
	return Document{Layout: name, Count: len(set), Targets: set}, nil
}

// Marshal serializes a Document to pretty-printed JSON bytes.
func Marshal(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal parses a Document and checks that the count matches the number
// of targets.
func Unmarshal(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if _, err := ParseName(string(d.Layout)); err != nil {
		return Document{}, err
	}
	if d.Count != len(d.Targets) {
		return Document{}, fmt.Errorf("layout %s: count %d but %d targets", d.Layout, d.Count, len(d.Targets))
	}
	return d, nil
}

// WriteFile writes a Document to a JSON file.
func WriteFile(d Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Document from a JSON file.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
