package scraper

import (
	"context"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/sharepoint-versions/internal/build"
	"github.com/pfrederiksen/sharepoint-versions/internal/logger"
	"github.com/pfrederiksen/sharepoint-versions/internal/metrics"
)

// Any dotted numeric run inside the build cell, e.g. "16.0.17928" in "16.0.17928 (SE)"
var docsBuildPattern = regexp.MustCompile(`(?:\d+\.)+\d+`)

// ScrapeDocs fetches the official updates page and writes its builds into table,
// replacing existing entries. It returns the number of records written.
func (s *Scraper) ScrapeDocs(ctx context.Context, table *build.Table) (int, error) {
	doc, err := s.fetchTimed(ctx, metrics.SourceDocs, s.docsURL)
	if err != nil {
		return 0, fmt.Errorf("docs source: %w", err)
	}

	n := s.parseDocs(doc, table)
	s.log.Info("Parsed official updates page", logger.Fields{
		"url":     s.docsURL,
		"records": n,
	})
	return n, nil
}

// parseDocs extracts builds from the official updates page.
//
// Cells: 0 package name, 1 KB link, 2 build, 3 release date.
func (s *Scraper) parseDocs(doc *goquery.Document, table *build.Table) int {
	written := 0

	dataRows(doc, func(cells *goquery.Selection) {
		if reason := DocsShape.Classify(cells); reason != "" {
			s.metrics.RowSkipped(metrics.SourceDocs, reason)
			return
		}

		kb := anchorLink(cells.Eq(1))
		raw := dropRevision(cellText(cells.Eq(2)))
		name := displayText(cells.Eq(0))
		released := displayText(cells.Eq(3))

		matches := docsBuildPattern.FindAllString(raw, -1)
		if len(matches) == 0 {
			s.metrics.RowSkipped(metrics.SourceDocs, metrics.ReasonBuild)
			return
		}

		// A cell with several numeric runs yields one record per run
		for _, b := range matches {
			table.Put(build.NewRecord(name, released, b, kb))
			s.metrics.RecordAdded(metrics.SourceDocs)
			written++
		}
	})

	return written
}
