// Package source loads the rows that deckview turns into cards.
//
// Rows come from a Google spreadsheet, either through the public CSV export
// (no credentials, the sheet must be shared publicly) or through the Sheets
// API values endpoint (requires an API key), or from a local CSV file.
// Every row becomes an [Item] whose Index is its position in the source;
// items are never reordered.
//
//	client := source.NewClient(c, source.WithLogger(logger))
//	items, err := client.Fetch(ctx, source.SheetOptions{
//	    SpreadsheetID: id,
//	    SheetName:     "Data Template",
//	    Public:        true,
//	})
//
// Each item is coloured by its net worth tier, see [TierOf].
package source
