package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/papertrade"
	md "github.com/nao1215/markdown"
)

// TimeFormat is the layout of transaction timestamps.
const TimeFormat = "2006-01-02 15:04:05"

// HistoryMarkdown renders the transactions of 'username', in the given order.
func HistoryMarkdown(username string, txs []papertrade.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("History of %s", username))

	if len(txs) == 0 {
		doc.PlainText("No transactions yet.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Transacted", "Kind", "Symbol", "Shares", "Price", "Total"},
		Rows:   [][]string{},
	}
	for _, t := range txs {
		table.Rows = append(table.Rows, []string{
			t.Timestamp.Format(TimeFormat),
			verb(t.Kind),
			t.Symbol,
			fmt.Sprint(t.Shares),
			t.Price.String(),
			t.Total.String(),
		})
	}
	doc.Table(table)
	return doc.String()
}

func verb(k papertrade.Kind) string {
	if k == papertrade.Purchase {
		return "Bought"
	}
	return "Sold"
}
