package writer

import "git.home.luguber.info/inful/kirlent/internal/settings"

// Flags every kirlent writer removes from the base HTML options. Passing one
// of them is reported as "no such option".
var retiredFlags = []string{
	"--xml-declaration", "--no-xml-declaration",
	"--compact-lists", "--no-compact-lists",
	"--compact-field-lists", "--no-compact-field-lists",
	"--table-style",
	"--cloak-email-addresses",
}

const stylesheetPathHelp = "Comma separated list of stylesheet paths. Relative paths are expanded " +
	"if a matching file is found in the --stylesheet-dirs. With --link-stylesheet, " +
	"the path is rewritten relative to the output HTML file. Default: \"minimal.css,plain.css\"."

var generalGroup = settings.Group{
	Title: "General Options",
	Options: []settings.Option{
		{
			Help:    "Specify the document title as metadata.",
			Flags:   []string{"--title"},
			Dest:    "title",
			Metavar: "TITLE",
		},
		{
			Help:    "Specify the language (as BCP 47 language tag). Default: \"en\".",
			Flags:   []string{"--language", "-l"},
			Dest:    "language_code",
			Metavar: "LANG",
			Default: "en",
		},
		{
			Help:      "Source syntax: auto, xml or markdown. Default: \"auto\".",
			Flags:     []string{"--input-format"},
			Dest:      "input_format",
			Metavar:   "FORMAT",
			Default:   "auto",
			Validator: settings.ValidateChoice("auto", "xml", "markdown"),
		},
		{
			Help:      "Specify the text encoding for output. Only utf-8 is supported. Default: \"utf-8\".",
			Flags:     []string{"--output-encoding"},
			Dest:      "output_encoding",
			Metavar:   "ENCODING",
			Default:   "utf-8",
			Validator: settings.ValidateChoice("utf-8"),
		},
	},
}

var htmlGroup = settings.Group{
	Title: "HTML Writer Options",
	Options: []settings.Option{
		{
			Help:    "Template file that assembles the rendered parts into a page.",
			Flags:   []string{"--template"},
			Dest:    "template",
			Metavar: "FILE",
		},
		{
			Help:      "Comma separated list of stylesheet URLs. Overrides previous --stylesheet-path settings.",
			Flags:     []string{"--stylesheet"},
			Dest:      "stylesheet",
			Metavar:   "URL[,URL,...]",
			Validator: settings.ValidateCommaList,
			Overrides: "stylesheet_path",
		},
		{
			Help:      stylesheetPathHelp,
			Flags:     []string{"--stylesheet-path"},
			Dest:      "stylesheet_path",
			Metavar:   "FILE[,FILE,...]",
			Default:   []string{"minimal.css", "plain.css"},
			Validator: settings.ValidateCommaList,
			Overrides: "stylesheet",
		},
		{
			Help:    "Embed the stylesheet(s) in the output HTML file. Default: true.",
			Flags:   []string{"--embed-stylesheet"},
			Dest:    "embed_stylesheet",
			Action:  settings.ActionStoreTrue,
			Default: true,
		},
		{
			Help:   "Link to the stylesheet(s) in the output HTML file.",
			Flags:  []string{"--link-stylesheet"},
			Dest:   "embed_stylesheet",
			Action: settings.ActionStoreFalse,
		},
		{
			Help: "Comma-separated list of directories where stylesheets are found. " +
				"Used by --stylesheet-path when expanding relative path arguments. " +
				"Default: the working directory and the source directory.",
			Flags:     []string{"--stylesheet-dirs"},
			Dest:      "stylesheet_dirs",
			Metavar:   "DIR[,DIR,...]",
			Validator: settings.ValidateCommaList,
		},
		{
			Help:      "Specify the initial header level. Default: 2 (<h2>).",
			Flags:     []string{"--initial-header-level"},
			Dest:      "initial_header_level",
			Metavar:   "LEVEL",
			Default:   2,
			Validator: settings.ValidateRange(1, 6),
		},
		{
			Help:      "Table style: space separated list of classes.",
			Flags:     []string{"--table-style"},
			Dest:      "table_style",
			Metavar:   "STYLE",
			Validator: settings.ValidateCommaList,
		},
		{
			Help:   "Prepend an XML declaration.",
			Flags:  []string{"--xml-declaration"},
			Dest:   "xml_declaration",
			Action: settings.ActionStoreTrue,
		},
		{
			Help:   "Omit the XML declaration.",
			Flags:  []string{"--no-xml-declaration"},
			Dest:   "xml_declaration",
			Action: settings.ActionStoreFalse,
		},
		{
			Help:   "Remove extra vertical whitespace between items of simple lists.",
			Flags:  []string{"--compact-lists"},
			Dest:   "compact_lists",
			Action: settings.ActionStoreTrue,
		},
		{
			Help:   "Disable compact simple bullet and enumerated lists.",
			Flags:  []string{"--no-compact-lists"},
			Dest:   "compact_lists",
			Action: settings.ActionStoreFalse,
		},
		{
			Help:   "Remove extra vertical whitespace between items of simple field lists.",
			Flags:  []string{"--compact-field-lists"},
			Dest:   "compact_field_lists",
			Action: settings.ActionStoreTrue,
		},
		{
			Help:   "Disable compact simple field lists.",
			Flags:  []string{"--no-compact-field-lists"},
			Dest:   "compact_field_lists",
			Action: settings.ActionStoreFalse,
		},
		{
			Help:   "Obfuscate email addresses to confuse harvesters.",
			Flags:  []string{"--cloak-email-addresses"},
			Dest:   "cloak_email_addresses",
			Action: settings.ActionStoreTrue,
		},
	},
}

// baseSpec is the option set shared by every HTML writer before kirlent's
// modifications.
func baseSpec() settings.Spec {
	return settings.Spec{Groups: []settings.Group{generalGroup, htmlGroup}}
}

var slidesGroup = settings.Group{
	Title: "Slides Writer Options",
	Options: []settings.Option{
		{
			Help:    "Slide size as WIDTHxHEIGHT in pixels, or a named size (a4). Default: \"" + settings.DefaultSlideSize + "\".",
			Flags:   []string{"--slide-size"},
			Dest:    "slide_size",
			Metavar: "SIZE",
			Default: settings.DefaultSlideSize,
			Validator: func(raw string) (any, error) {
				if _, _, err := settings.ParseSlideSize(raw); err != nil {
					return nil, err
				}
				return raw, nil
			},
		},
		{
			Help:      "Base font size in pixels; 0 computes it from the slide size. Default: 0.",
			Flags:     []string{"--font-size"},
			Dest:      "font_size",
			Metavar:   "PX",
			Default:   0,
			Validator: settings.ValidateNonNegativeInt,
		},
		{
			Help:    "Height multiplier for diagram images: auto (font size / 16) or a number. Default: \"auto\".",
			Flags:   []string{"--image-scale"},
			Dest:    "image_scale",
			Metavar: "SCALE",
			Default: "auto",
			Validator: func(raw string) (any, error) {
				if _, err := settings.ParseImageScale(raw); err != nil {
					return nil, err
				}
				return raw, nil
			},
		},
		{
			Help:    "Turn delimited emphasis such as *[text]* into annotations. Default: true.",
			Flags:   []string{"--emphasis-annotations"},
			Dest:    "emphasis_annotations",
			Action:  settings.ActionStoreTrue,
			Default: true,
		},
		{
			Help:   "Render all emphasis as plain emphasis.",
			Flags:  []string{"--no-emphasis-annotations"},
			Dest:   "emphasis_annotations",
			Action: settings.ActionStoreFalse,
		},
	},
}

func scaleOptions(minimum, maximum string) []settings.Option {
	return []settings.Option{
		{
			Help:      "Minimum scale factor. Default: " + minimum + ".",
			Flags:     []string{"--min-scale"},
			Dest:      "min_scale",
			Metavar:   "FACTOR",
			Default:   mustFloat(minimum),
			Validator: settings.ValidateFloat,
		},
		{
			Help:      "Maximum scale factor. Default: " + maximum + ".",
			Flags:     []string{"--max-scale"},
			Dest:      "max_scale",
			Metavar:   "FACTOR",
			Default:   mustFloat(maximum),
			Validator: settings.ValidateFloat,
		},
	}
}

var impressGroup = settings.Group{
	Title: "impress.js Writer Options",
	Options: append([]settings.Option{
		{
			Help:      "Duration of step transitions in milliseconds. Default: 1000.",
			Flags:     []string{"--transition-duration"},
			Dest:      "transition_duration",
			Metavar:   "MS",
			Default:   1000,
			Validator: settings.ValidateNonNegativeInt,
		},
	}, scaleOptions("0", "3")...),
}

// revealTransitions are the transition names reveal.js understands.
var revealTransitions = []string{"none", "fade", "slide", "convex", "concave", "zoom"}

var revealGroup = settings.Group{
	Title: "reveal.js Writer Options",
	Options: append([]settings.Option{
		{
			Help:      "Slide transition: none, fade, slide, convex, concave or zoom. Default: \"none\".",
			Flags:     []string{"--transition"},
			Dest:      "transition",
			Metavar:   "NAME",
			Default:   "none",
			Validator: settings.ValidateChoice(revealTransitions...),
		},
		{
			Help:      "Center slides vertically. Default: false.",
			Flags:     []string{"--center-vertical"},
			Dest:      "center_vertical",
			Metavar:   "BOOL",
			Default:   false,
			Validator: settings.ValidateBool,
		},
	}, scaleOptions("0.2", "2.0")...),
}

func mustFloat(raw string) float64 {
	v, err := settings.ValidateFloat(raw)
	if err != nil {
		panic(err)
	}
	return v.(float64)
}
