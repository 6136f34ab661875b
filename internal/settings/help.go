package settings

import (
	"fmt"
	"strings"
)

const helpWidth = 78

// Help formats the option reference shown by --help.
func (s Spec) Help(usage string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s\n", usage)
	for _, g := range s.Groups {
		if len(g.Options) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", g.Title)
		if g.Description != "" {
			writeWrapped(&b, g.Description, "  ")
		}
		for _, o := range g.Options {
			b.WriteString("  " + flagLine(o) + "\n")
			if o.Help != "" {
				writeWrapped(&b, o.Help, "        ")
			}
		}
	}
	return b.String()
}

func flagLine(o Option) string {
	parts := make([]string, 0, len(o.Flags))
	for _, f := range o.Flags {
		if o.takesValue() {
			metavar := o.Metavar
			if metavar == "" {
				metavar = "<" + strings.ReplaceAll(o.Dest, "_", "-") + ">"
			}
			sep := "="
			if !strings.HasPrefix(f, "--") {
				sep = " "
			}
			parts = append(parts, f+sep+metavar)
			continue
		}
		parts = append(parts, f)
	}
	return strings.Join(parts, ", ")
}

func writeWrapped(b *strings.Builder, text, indent string) {
	line := indent
	for _, word := range strings.Fields(text) {
		if len(line) > len(indent) && len(line)+1+len(word) > helpWidth {
			b.WriteString(line + "\n")
			line = indent
		}
		if len(line) > len(indent) {
			line += " "
		}
		line += word
	}
	if len(line) > len(indent) {
		b.WriteString(line + "\n")
	}
}
