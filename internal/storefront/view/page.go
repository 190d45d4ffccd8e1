package view

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/go-faster/errors"
)

//go:embed page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

type Page struct {
	Title    string
	Products []Product
	Cart     Cart
	// Notice is shown above the cart, e.g. after a checkout attempt.
	Notice string
}

func RenderPage(w io.Writer, p Page) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return errors.Wrap(err, "render page")
	}
	return nil
}
