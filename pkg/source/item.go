package source

import (
	"encoding/json"

	"github.com/matzehuels/deckview/pkg/cache"
)

// Column headers the viewer understands. Other columns are kept in
// Item.Fields but not displayed.
const (
	FieldName     = "Name"
	FieldPhoto    = "Photo"
	FieldAge      = "Age"
	FieldCountry  = "Country"
	FieldInterest = "Interest"
	FieldNetWorth = "Net Worth"
)

// Item is one data row.
type Item struct {
	Index  int               `json:"index"`
	Fields map[string]string `json:"fields"`
}

// Get returns the value of column key, or "" if the row has no such column.
func (it Item) Get(key string) string { return it.Fields[key] }

func (it Item) Name() string     { return it.Get(FieldName) }
func (it Item) Photo() string    { return it.Get(FieldPhoto) }
func (it Item) Age() string      { return it.Get(FieldAge) }
func (it Item) Country() string  { return it.Get(FieldCountry) }
func (it Item) Interest() string { return it.Get(FieldInterest) }
func (it Item) NetWorth() string { return it.Get(FieldNetWorth) }

// Tier returns the net worth tier of the item.
func (it Item) Tier() Tier { return TierOf(it.NetWorth()) }

// HashItems returns a stable content hash of items, used in cache keys.
func HashItems(items []Item) string {
	data, _ := json.Marshal(items)
	return cache.Hash(data)
}

func newItems(header []string, rows [][]string) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]string, len(header))
		for col, h := range header {
			v := ""
			if col < len(row) {
				v = row[col]
			}
			fields[h] = v
		}
		items = append(items, Item{Index: len(items), Fields: fields})
	}
	return items
}
