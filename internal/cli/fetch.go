package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/pipeline"
	"github.com/matzehuels/deckview/pkg/source"
)

// Tier colours, matching the card colours.
var tierColors = map[source.Tier]lipgloss.Color{
	source.TierLow:     lipgloss.Color("167"),
	source.TierMedium:  lipgloss.Color("208"),
	source.TierHigh:    lipgloss.Color("35"),
	source.TierUnknown: colorDim,
}

func (c *CLI) fetchCommand() *cobra.Command {
	var (
		src     sourceFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the sheet rows and print them as a table",
		Example: `  deckview fetch
  deckview fetch --sheet 1AbC... -o items.json
  deckview fetch --input people.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.requireSession(ctx)
			if err != nil {
				return err
			}
			if output != "" {
				if err := errors.ValidateOutputPath(output); err != nil {
					return err
				}
			}

			var opts pipeline.Options
			src.apply(&opts, c.config)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, sess, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			start := time.Now()
			spin := startSpinner(ctx, c.errOut, "Loading items...")
			items, err := runner.Load(ctx, opts)
			spin.Stop()
			if err != nil {
				return err
			}
			logElapsed(c.Logger, start, "loaded items", "count", len(items))

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), itemsTable(items))
				return nil
			}
			data, err := json.MarshalIndent(items, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			p := c.print()
			p.success("Wrote %d items", len(items))
			p.file(output)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write items as JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
	return cmd
}

// itemsTable renders items with the net worth column coloured by tier.
func itemsTable(items []source.Item) string {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{
			strconv.Itoa(it.Index + 1),
			it.Name(),
			it.Age(),
			it.Country(),
			it.Interest(),
			it.NetWorth(),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", source.FieldName, source.FieldAge, source.FieldCountry, source.FieldInterest, source.FieldNetWorth).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return cell.Foreground(colorDim)
			case col == 5 && row < len(items):
				return cell.Foreground(tierColors[items[row].Tier()])
			}
			return cell.Foreground(colorWhite)
		})
	return t.Render()
}
