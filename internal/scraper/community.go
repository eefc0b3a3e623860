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

// Community builds must be exactly major.minor.build once the revision is dropped
var communityBuildPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// ScrapeCommunity fetches every community source in order and adds builds that
// are not already in table. It returns the number of records added.
func (s *Scraper) ScrapeCommunity(ctx context.Context, table *build.Table) (int, error) {
	added := 0
	for _, src := range s.community {
		doc, err := s.fetchTimed(ctx, metrics.SourceCommunity, src.URL)
		if err != nil {
			return added, fmt.Errorf("community source %q: %w", src.PackageName, err)
		}
		added += s.parseCommunity(doc, src.PackageName, table)
	}
	return added, nil
}

// parseCommunity extracts builds from one community build list.
//
// Cells: 0 build, 1 build name, 2 component, 3 information link, 4 download link, 5 notes.
func (s *Scraper) parseCommunity(doc *goquery.Document, packageName string, table *build.Table) int {
	added := 0
	packageName = cleanText(packageName)

	dataRows(doc, func(cells *goquery.Selection) {
		if reason := CommunityShape.Classify(cells); reason != "" {
			s.metrics.RowSkipped(metrics.SourceCommunity, reason)
			return
		}

		b := dropRevision(cellText(cells.Eq(0)))
		if !communityBuildPattern.MatchString(b) {
			s.metrics.RowSkipped(metrics.SourceCommunity, metrics.ReasonBuild)
			return
		}

		buildName := displayText(cells.Eq(1))
		r := build.NewRecord(packageName+" - "+buildName, buildName, b, anchorLink(cells.Eq(3)))

		if !table.AddIfAbsent(r) {
			return
		}
		added++
		s.metrics.RecordAdded(metrics.SourceCommunity)
		s.log.Info(fmt.Sprintf("Added version: %s - %s (%s)", r.Build, r.Name, r.ReleaseDate), logger.Fields{
			"build":        r.Build,
			"package_name": packageName,
		})
	})

	return added
}
