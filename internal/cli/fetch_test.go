package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/deckview/pkg/source"
)

const peopleCSV = `Name,Age,Country,Interest,Net Worth
Ada Lovelace,36,UK,Mathematics,"$250,000"
Charles Babbage,79,UK,Engines,$50
`

func TestItemsTable(t *testing.T) {
	items, err := source.ParseCSV(strings.NewReader(peopleCSV))
	if err != nil {
		t.Fatal(err)
	}

	out := itemsTable(items)
	for _, want := range []string{"Ada Lovelace", "Charles Babbage", "Mathematics", "$250,000", source.FieldNetWorth} {
		if !strings.Contains(out, want) {
			t.Errorf("itemsTable() missing %q:\n%s", want, out)
		}
	}
}

func TestFetchToJSON(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	csv := filepath.Join(dir, "people.csv")
	if err := os.WriteFile(csv, []byte(peopleCSV), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "items.json")

	args := []string{"fetch", "--no-auth", "--no-cache", "--input", csv, "-o", out}
	if err := Execute(context.Background(), io.Discard, args); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var items []source.Item
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("items.json: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Name() != "Ada Lovelace" || items[0].Tier() != source.TierHigh {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Tier() != source.TierLow {
		t.Errorf("items[1] tier = %s, want low", items[1].Tier())
	}
}
