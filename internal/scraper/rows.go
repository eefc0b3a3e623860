package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pfrederiksen/sharepoint-versions/internal/build"
	"github.com/pfrederiksen/sharepoint-versions/internal/metrics"
)

const zeroWidthSpace = "\u200b"

// RowShape describes what a data row of a source table looks like
type RowShape struct {
	Cells  int    // exact number of cells
	Header string // caption of the first header cell
}

var (
	DocsShape      = RowShape{Cells: 4, Header: "Package Name"}
	CommunityShape = RowShape{Cells: 6, Header: "Build Number"}
)

// Classify returns "" when cells form a data row of this shape, otherwise the
// reason the row was rejected.
func (rs RowShape) Classify(cells *goquery.Selection) string {
	if cells.Length() != rs.Cells {
		return metrics.ReasonShape
	}
	first := cellText(cells.First())
	if first == "" || first == rs.Header {
		return metrics.ReasonHeader
	}
	return ""
}

// dataRows calls fn with the cells of every <tr> after the first, in document order
func dataRows(doc *goquery.Document, fn func(cells *goquery.Selection)) {
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		// First row is the header of the first table
		if i == 0 {
			return
		}
		fn(row.Children())
	})
}

// cleanText removes zero-width spaces and surrounding whitespace
func cleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, zeroWidthSpace, ""))
}

// cellText is the cell text prepared for comparison and parsing
func cellText(cell *goquery.Selection) string {
	return cleanText(cell.Text())
}

// displayText is the cell text as stored in a record: trimmed, otherwise as rendered
func displayText(cell *goquery.Selection) string {
	return strings.TrimSpace(cell.Text())
}

// dropRevision removes the last dot-separated segment: 16.0.17928.20000 -> 16.0.17928
func dropRevision(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[:i]
	}
	return s
}

// anchorLink builds a KB link from the cell's first child element when it is an anchor
func anchorLink(cell *goquery.Selection) *build.KB {
	first := cell.Children().First()
	if first.Length() == 0 {
		return nil
	}
	node := first.Get(0)
	if node.Type != html.ElementNode || node.DataAtom != atom.A {
		return nil
	}
	href, ok := first.Attr("href")
	if !ok {
		return nil
	}
	return &build.KB{
		KBNumber: strings.TrimSpace(href),
		KBTitle:  strings.TrimSpace(first.Text()),
	}
}
