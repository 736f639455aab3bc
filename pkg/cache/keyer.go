package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// SheetKey keys the parsed rows of one sheet.
	SheetKey(spreadsheetID string, opts SheetKeyOpts) string

	// PhotoKey keys a downloaded card photo by URL.
	PhotoKey(url string) string

	// ArtifactKey keys a rendered frame sequence.
	ArtifactKey(itemsHash string, opts ArtifactKeyOpts) string
}

// SheetKeyOpts are the options that select which data a sheet request
// returns.
type SheetKeyOpts struct {
	SheetName string `json:"sheet_name"`
	GID       string `json:"gid,omitempty"`
	Public    bool   `json:"public"`
}

// ArtifactKeyOpts are the render options that affect frame output.
type ArtifactKeyOpts struct {
	Layouts     []string `json:"layouts"`
	Initial     string   `json:"initial"`
	Frames      int      `json:"frames"`
	Duration    string   `json:"duration"`
	Easing      string   `json:"easing"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Supersample int      `json:"supersample"`
	Format      string   `json:"format"`
	Seed        uint64   `json:"seed"`
	Photos      bool     `json:"photos,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

func (DefaultKeyer) SheetKey(spreadsheetID string, opts SheetKeyOpts) string {
	return hashKey("sheet", spreadsheetID, opts)
}

func (DefaultKeyer) PhotoKey(url string) string {
	return hashKey("photo", url)
}

func (DefaultKeyer) ArtifactKey(itemsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", itemsHash, opts)
}
