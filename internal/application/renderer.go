package application

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<article>
<h1>{{.Title}}</h1>
{{.Body}}
</article>
</body>
</html>
`

// frontMatter is the page metadata static-site generators read.
type frontMatter struct {
	Title   string `yaml:"title" toml:"title"`
	Date    string `yaml:"date" toml:"date"`
	Lastmod string `yaml:"lastmod,omitempty" toml:"lastmod,omitempty"`
}

// Renderer turns a post into the document text for one publishing target.
// It performs no I/O and renders the same post to the same bytes every time.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	page      *template.Template
}

// NewRenderer creates a Renderer with every template variant ready.
func NewRenderer() *Renderer {
	return &Renderer{
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: bluemonday.UGCPolicy(),
		page:      template.Must(template.New("html").Parse(htmlPage)),
	}
}

// Render renders post with the named template. A failure affects only this
// post; callers log it and carry on with the rest of the batch.
func (r *Renderer) Render(post model.Post, kind model.TemplateKind) (string, error) {
	switch kind {
	case model.TemplateHugo:
		return r.renderYAML(post)
	case model.TemplateHugoTOML:
		return r.renderTOML(post)
	case model.TemplateHTML:
		return r.renderHTML(post)
	default:
		return "", fmt.Errorf("unknown template %q", kind)
	}
}

func newFrontMatter(post model.Post) frontMatter {
	fm := frontMatter{
		Title: post.Title,
		Date:  post.CreatedAt.UTC().Format(time.RFC3339),
	}
	if post.UpdatedAt != nil {
		fm.Lastmod = post.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return fm
}

func (r *Renderer) renderYAML(post model.Post) (string, error) {
	data, err := yaml.Marshal(newFrontMatter(post))
	if err != nil {
		return "", fmt.Errorf("encode front matter for post %d: %w", post.ID, err)
	}
	return joinFrontMatter("---", data, post.MarkdownContent), nil
}

func (r *Renderer) renderTOML(post model.Post) (string, error) {
	data, err := toml.Marshal(newFrontMatter(post))
	if err != nil {
		return "", fmt.Errorf("encode front matter for post %d: %w", post.ID, err)
	}
	return joinFrontMatter("+++", data, post.MarkdownContent), nil
}

func joinFrontMatter(fence string, meta []byte, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fence)
	buf.WriteByte('\n')
	buf.Write(meta)
	if len(meta) > 0 && meta[len(meta)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString(fence)
	buf.WriteString("\n\n")
	buf.WriteString(body)
	if body != "" && body[len(body)-1] != '\n' {
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (r *Renderer) renderHTML(post model.Post) (string, error) {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(post.MarkdownContent), &body); err != nil {
		return "", fmt.Errorf("convert markdown for post %d: %w", post.ID, err)
	}

	var page bytes.Buffer
	err := r.page.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{
		Title: post.Title,
		Body:  template.HTML(r.sanitizer.Sanitize(body.String())), //nolint:gosec // sanitized above
	})
	if err != nil {
		return "", fmt.Errorf("execute html template for post %d: %w", post.ID, err)
	}
	return page.String(), nil
}
