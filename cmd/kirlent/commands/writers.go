package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/kirlent/internal/writer"
)

// WritersCmd lists the registered writers.
type WritersCmd struct{}

func (w *WritersCmd) Run(g *Global, _ *CLI) error {
	tw := tabwriter.NewWriter(g.stdout(), 0, 4, 2, ' ', 0)
	for _, name := range writer.Names() {
		wr, err := writer.Lookup(name)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", name, wr.Description)
	}
	return tw.Flush()
}
