// Package report renders an analysis bundle for people and tools. Renderers
// only read the bundle.
package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/site-analyzer/internal/model"
)

// Format names an output format.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat resolves a format name, accepting "md" and "yml" aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", eris.Errorf("report: unknown format %q", s)
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}

// Render writes b to w in format f.
func Render(w io.Writer, b *model.Bundle, f Format) error {
	switch f {
	case FormatText:
		return renderText(w, b)
	case FormatMarkdown:
		return renderMarkdown(w, b)
	case FormatJSON:
		return renderJSON(w, b)
	case FormatYAML:
		return renderYAML(w, b)
	default:
		return eris.Errorf("report: unknown format %q", f)
	}
}

// FilenameFor returns the download name for rawURL in format f.
func FilenameFor(rawURL string, f Format) string {
	name := strings.ReplaceAll(rawURL, "https://", "")
	name = strings.ReplaceAll(name, "http://", "")
	name = strings.ReplaceAll(name, "/", "_")
	return "website_analysis_" + name + f.Extension()
}

func renderJSON(w io.Writer, b *model.Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return eris.Wrap(err, "report: encode json")
	}
	return nil
}

func renderYAML(w io.Writer, b *model.Bundle) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "report: close yaml encoder")
	}
	return nil
}
