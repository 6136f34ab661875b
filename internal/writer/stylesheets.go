package writer

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/kirlent/internal/assets"
	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/logfields"
	"git.home.luguber.info/inful/kirlent/internal/settings"
	"git.home.luguber.info/inful/kirlent/internal/translator"
)

// stylesheet is one resolved --stylesheet-path entry. Exactly one of file
// and bundled is set.
type stylesheet struct {
	name    string
	file    string
	bundled []byte
}

// asset is a file that must be written next to the output document.
type asset struct {
	name string
	data []byte
}

// stylesheetDirs returns the directories searched for relative stylesheet
// paths: the configured ones, or the working directory and the source
// directory.
func stylesheetDirs(s *settings.Settings) []string {
	if len(s.StylesheetDirs) > 0 {
		return s.StylesheetDirs
	}
	dirs := []string{"."}
	if isFile(s.Source) {
		if dir := filepath.Dir(s.Source); dir != "." {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func resolveStylesheet(name string, dirs []string) (stylesheet, error) {
	if filepath.IsAbs(name) {
		if exists(name) {
			return stylesheet{name: name, file: name}, nil
		}
	} else {
		for _, dir := range dirs {
			candidate := filepath.Join(dir, name)
			if exists(candidate) {
				return stylesheet{name: name, file: candidate}, nil
			}
		}
		if data, ok := assets.Stylesheet(name); ok {
			return stylesheet{name: name, bundled: data}, nil
		}
	}
	return stylesheet{}, errors.NotFoundError(fmt.Sprintf("stylesheet not found: %s", name)).
		WithContext("stylesheet", name).
		WithContext("dirs", strings.Join(dirs, ",")).
		Build()
}

// stylesheetMarkup renders the stylesheet region of the head. Linked bundled
// stylesheets are returned as assets to be copied next to the output; when
// the output has no directory (stdout) they are embedded instead.
func stylesheetMarkup(s *settings.Settings, log *slog.Logger) (string, []asset, error) {
	var (
		b      strings.Builder
		copies []asset
	)
	for _, url := range s.Stylesheets {
		b.WriteString(translator.StylesheetLink(url))
	}

	dirs := stylesheetDirs(s)
	for _, name := range s.StylesheetPaths {
		sheet, err := resolveStylesheet(name, dirs)
		if err != nil {
			return "", nil, err
		}
		log.Debug("Resolved stylesheet", logfields.Stylesheet(name), logfields.Path(sheet.file))

		embed := s.EmbedStylesheet
		if !embed && sheet.bundled != nil && !isFile(s.Destination) {
			log.Warn("Embedding bundled stylesheet, output has no directory to copy it to", logfields.Stylesheet(name))
			embed = true
		}

		if embed {
			data := sheet.bundled
			if data == nil {
				data, err = os.ReadFile(sheet.file)
				if err != nil {
					return "", nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot read stylesheet "+sheet.file).
						WithContext("stylesheet", name).
						Build()
				}
			}
			b.WriteString(translator.StyleBlock(string(data)))
			continue
		}

		if sheet.bundled != nil {
			base := filepath.Base(name)
			copies = append(copies, asset{name: base, data: sheet.bundled})
			b.WriteString(translator.StylesheetLink(base))
			continue
		}
		href, err := relativeTo(s.Destination, sheet.file)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(translator.StylesheetLink(href))
	}
	return b.String(), copies, nil
}

// relativeTo rewrites file relative to the directory of destination.
func relativeTo(destination, file string) (string, error) {
	dir := "."
	if isFile(destination) {
		dir = filepath.Dir(destination)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "cannot resolve output directory").Build()
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "cannot resolve stylesheet path").Build()
	}
	rel, err := filepath.Rel(absDir, absFile)
	if err != nil {
		return filepath.ToSlash(absFile), nil
	}
	return filepath.ToSlash(rel), nil
}

// writeAssets copies bundled stylesheets into dir, leaving identical files
// untouched.
func writeAssets(dir string, copies []asset, log *slog.Logger) error {
	for _, a := range copies {
		target := filepath.Join(dir, a.name)
		if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, a.data) {
			continue
		}
		if err := os.WriteFile(target, a.data, 0o644); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot write stylesheet "+target).
				WithContext("path", target).
				Build()
		}
		log.Debug("Copied bundled stylesheet", logfields.Path(target))
	}
	return nil
}

func isFile(name string) bool {
	return name != "" && name != "-"
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
