// Package render turns the read views into markdown for the terminal.
package render

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/reporting"
	"github.com/Mohan-0108/KSM-ENTERPRIES/pkg/currency"
)

//go:embed templates/*.md
var templates embed.FS

const dateLayout = "2006-01-02 15:04"

// Renderer formats amounts in a single display currency.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates. Amounts are shown in currencyCode.
func New(currencyCode string) (*Renderer, error) {
	funcs := template.FuncMap{
		"money": func(amount decimal.Decimal) string { return currency.Format(amount, currencyCode) },
		"date":  func(t time.Time) string { return t.Local().Format(dateLayout) },
		"cell":  cell,
		"inc":   func(i int) int { return i + 1 },
		"kind":  kind,
	}
	tmpl, err := template.New("render").Funcs(funcs).ParseFS(templates, "templates/*.md")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}

// Dashboard renders the overview figures with the low stock and top seller tables.
func (r *Renderer) Dashboard(d reporting.Dashboard) (string, error) {
	return r.execute("dashboard.md", d)
}

// Products renders the catalogue.
func (r *Renderer) Products(products []models.Product) (string, error) {
	return r.execute("products.md", products)
}

// Contacts renders the address book.
func (r *Renderer) Contacts(contacts []models.Contact) (string, error) {
	return r.execute("contacts.md", contacts)
}

// History renders transactions in the given order.
func (r *Renderer) History(txs []models.Transaction) (string, error) {
	return r.execute("history.md", txs)
}

// Receipt renders one committed transaction.
func (r *Renderer) Receipt(tx models.Transaction) (string, error) {
	return r.execute("receipt.md", tx)
}

// Insights renders the business summary text.
func (r *Renderer) Insights(text string) (string, error) {
	return r.execute("insights.md", text)
}

// cell keeps a value on one table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	if s == "" {
		return "-"
	}
	return s
}

func kind(d models.Direction) string {
	if d == models.Inward {
		return "Purchase"
	}
	return "Sale"
}

// Print writes md to w, styled by glamour unless plain is set. Styling failures fall back
// to the raw markdown.
func Print(w io.Writer, md string, plain bool) error {
	if !plain {
		tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err == nil {
			var styled string
			if styled, err = tr.Render(md); err == nil {
				_, err = io.WriteString(w, styled)
				return err
			}
		}
	}
	_, err := io.WriteString(w, md)
	return err
}
