package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/layout"
	"github.com/matzehuels/deckview/pkg/source"
)

// layoutCommand creates the layout command, which writes a layout's target
// set as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		typ    string
		count  int
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute a layout's target transforms",
		Long: `Compute the target position and rotation of every card in a layout.

The card count comes from --count or from the number of rows in --input.
The result is printed as JSON, or written to --output.

Layouts: ` + strings.Join(layoutNames(), ", ") + ` (pyramid is an alias of tetrahedron).`,
		Example: `  deckview layout --type helix --count 24
  deckview layout -t sphere -i people.csv -o sphere.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := layout.ParseName(typ)
			if err != nil {
				return err
			}

			n := count
			if input != "" {
				items, err := source.ReadCSVFile(input)
				if err != nil {
					return err
				}
				n = len(items)
			}
			if n <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "set --count to a positive number or pass --input")
			}

			doc, err := layout.NewDocument(name, n)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("computed layout", "layout", name, "cards", doc.Count)

			if output == "" {
				data, err := layout.Marshal(doc)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := errors.ValidateOutputPath(output); err != nil {
				return err
			}
			if err := layout.WriteFile(doc, output); err != nil {
				return fmt.Errorf("write layout: %w", err)
			}
			p := c.print()
			p.success("Computed %s layout for %d cards", name, doc.Count)
			p.file(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", string(layout.Table), "layout: "+strings.Join(layoutNames(), ", "))
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of cards")
	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV file whose row count sets the number of cards")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.MarkFlagsMutuallyExclusive("count", "input")

	return cmd
}

func layoutNames() []string {
	names := layout.Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
