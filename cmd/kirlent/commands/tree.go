package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/reader"
)

// TreeCmd prints the document tree a source is read into.
type TreeCmd struct {
	Source string `arg:"" optional:"" default:"-" help:"Source document (- for standard input)"`
	Format string `name:"input-format" enum:"auto,xml,markdown" default:"auto" help:"Source syntax (auto, xml, markdown)"`
}

func (t *TreeCmd) Run(g *Global, _ *CLI) error {
	in := g.stdin()
	if t.Source != "-" {
		f, err := os.Open(t.Source)
		if err != nil {
			if os.IsNotExist(err) {
				return errors.NotFoundError("source not found: " + t.Source).WithContext("source", t.Source).Build()
			}
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot open "+t.Source).Build()
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	doc, err := reader.Read(in, t.Source, reader.Format(t.Format))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(g.stdout(), doctree.Dump(doc))
	return err
}
