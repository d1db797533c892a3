// Package renderer formats papertrade reports as markdown.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/papertrade"
	md "github.com/nao1215/markdown"
)

// Unavailable replaces the price and value of a position that could not be priced.
const Unavailable = "n/a"

// PortfolioMarkdown renders a snapshot as a table of positions followed by
// the cash and the grand total.
func PortfolioMarkdown(s papertrade.Snapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Portfolio of %s", s.Username))

	if len(s.Positions) == 0 {
		doc.PlainText("No holdings.")
	} else {
		table := md.TableSet{
			Header: []string{"Symbol", "Name", "Shares", "Price", "Total"},
			Rows:   [][]string{},
		}
		for _, p := range s.Positions {
			price, value := p.Price.String(), p.Value.String()
			if p.Err != nil {
				price, value = Unavailable, Unavailable
			}
			table.Rows = append(table.Rows, []string{
				p.Symbol,
				p.Name,
				fmt.Sprint(p.Shares),
				price,
				value,
			})
		}
		doc.Table(table)
	}

	doc.H2("Balance")
	doc.Table(md.TableSet{
		Header: []string{"Cash", "Total"},
		Rows:   [][]string{{s.Cash.String(), s.Total.String()}},
	})
	if s.Degraded() {
		// under its own heading: a paragraph right after a table would be read as a row
		doc.H2("Warning")
		doc.PlainText("Some positions could not be priced and are not part of the total.")
	}
	return doc.String()
}
