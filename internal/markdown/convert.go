// Package markdown converts pasted HTML into the canonical markdown
// stored in crumb bodies.
package markdown

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	domainerrors "github.com/breadcrumbsapp/breadcrumbs-server/internal/errors"
)

// FromHTML converts an HTML fragment to markdown.
// Returns a validation error when the input is empty or converts to
// nothing renderable.
func FromHTML(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", domainerrors.Validation("body_html must not be empty")
	}

	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeValidation, "body_html could not be converted")
	}

	md = strings.TrimSpace(md)
	if md == "" {
		return "", domainerrors.Validation("body_html converted to empty markdown")
	}

	return md, nil
}
