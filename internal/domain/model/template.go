package model

import "fmt"

// TemplateKind selects the publishing target a post is rendered for.
type TemplateKind string

const (
	TemplateHugo     TemplateKind = "hugo"      // YAML front matter + markdown.
	TemplateHugoTOML TemplateKind = "hugo-toml" // TOML front matter + markdown.
	TemplateHTML     TemplateKind = "html"      // Standalone sanitized HTML page.
)

// TemplateKinds lists every supported template variant.
var TemplateKinds = []TemplateKind{TemplateHugo, TemplateHugoTOML, TemplateHTML}

// ParseTemplateKind validates s against the supported variants.
func ParseTemplateKind(s string) (TemplateKind, error) {
	for _, k := range TemplateKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown template %q", s)
}

// Extension returns the file extension for exported documents.
func (k TemplateKind) Extension() string {
	if k == TemplateHTML {
		return ".html"
	}
	return ".md"
}

// FileName returns the export file name for a post ID.
func (k TemplateKind) FileName(postID int64) string {
	return fmt.Sprintf("%d%s", postID, k.Extension())
}
