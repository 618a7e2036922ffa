package filing

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"finqa/internal/models"
)

var ErrNoContent = errors.New("filing has no paragraphs or tables")

// DART style filings use TU and TE for table cells.
var cellTagReplacer = strings.NewReplacer(
	"<TU", "<TD",
	"</TU>", "</TD>",
	"<TE", "<TD",
	"</TE>", "</TD>",
)

// ParseHTML builds a report from an HTML filing. Paragraphs before the first
// top-level table become the pre-text, that table becomes the grid and the
// paragraphs after it become the post-text. Later tables are ignored.
func ParseHTML(raw []byte) (*models.FinancialReport, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cellTagReplacer.Replace(string(raw))))
	if err != nil {
		return nil, err
	}

	report := &models.FinancialReport{
		PreText:  []string{},
		PostText: []string{},
	}
	seenTable := false

	doc.Find("p, table").Each(func(i int, s *goquery.Selection) {
		if s.ParentsFiltered("table").Length() > 0 {
			return
		}

		switch goquery.NodeName(s) {
		case "table":
			if !seenTable {
				report.Table = tableGrid(s)
				seenTable = true
			}
		case "p":
			text := collapse(s.Text())
			if text == "" {
				return
			}
			if seenTable {
				report.PostText = append(report.PostText, text)
			} else {
				report.PreText = append(report.PreText, text)
			}
		}
	})

	if len(report.PreText) == 0 && len(report.PostText) == 0 && len(report.Table) == 0 {
		return nil, ErrNoContent
	}
	return report, nil
}

func tableGrid(table *goquery.Selection) [][]any {
	var rows [][]any
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if row.ParentsFiltered("table").First().Get(0) != table.Get(0) {
			return
		}

		var cells []any
		row.Children().Each(func(i int, s *goquery.Selection) {
			if isCell(s.Nodes[0]) {
				cells = append(cells, collapse(s.Text()))
			}
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows
}

func isCell(node *html.Node) bool {
	if node.Type != html.ElementNode {
		return false
	}
	switch strings.ToLower(node.Data) {
	case "td", "th", "tu", "te":
		return true
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Title returns the DART DOCUMENT-NAME, the HTML title or the first heading,
// whichever is found first.
func Title(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	for _, selector := range []string{"document-name", "title", "h1, h2"} {
		if title := collapse(doc.Find(selector).First().Text()); title != "" {
			return title
		}
	}
	return ""
}
