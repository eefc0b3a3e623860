package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/sharepoint-versions/internal/build"
	"github.com/pfrederiksen/sharepoint-versions/internal/logger"
	"github.com/pfrederiksen/sharepoint-versions/internal/metrics"
)

// Store loads and saves the build table
type Store interface {
	Load() (*build.Table, error)
	Save(table *build.Table) error
	Path() string
}

// Sources are the official and community sources applied by a run. Each
// method writes into the table and returns how many records it wrote.
type Sources interface {
	ScrapeDocs(ctx context.Context, table *build.Table) (int, error)
	ScrapeCommunity(ctx context.Context, table *build.Table) (int, error)
}

// Result summarises one run
type Result struct {
	File           string        `json:"file"`
	CheckedAt      time.Time     `json:"checked_at"`
	Loaded         int           `json:"loaded"`
	Total          int           `json:"total"`
	DocsRecords    int           `json:"docs_records"`
	CommunityAdded int           `json:"community_added"`
	Community      bool          `json:"community"`
	NewBuilds      []string      `json:"new_builds"`
	Latest         *build.Record `json:"latest,omitempty"`
	Duration       time.Duration `json:"duration_ns"`
}

// Updater wires the phases of a run together
type Updater struct {
	store     Store
	sources   Sources
	log       *logger.Logger
	metrics   *metrics.Recorder
	now       func() time.Time
}

// New creates an Updater. log and rec may be nil.
func New(store Store, sources Sources, log *logger.Logger, rec *metrics.Recorder) *Updater {
	if log == nil {
		log = logger.Default()
	}
	return &Updater{
		store:     store,
		sources:   sources,
		log:       log,
		metrics:   rec,
		now:       time.Now,
	}
}

// Run loads the table, applies the official source, applies the community
// source when includeCommunity is set and saves the table. An error from any
// phase aborts the run before the save.
func (u *Updater) Run(ctx context.Context, includeCommunity bool) (*Result, error) {
	start := u.now()

	table, err := u.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading table: %w", err)
	}
	before := make(map[string]bool, table.Len())
	for _, k := range table.Keys() {
		before[k] = true
	}
	result := &Result{
		File:      u.store.Path(),
		CheckedAt: start.UTC(),
		Loaded:    table.Len(),
		Community: includeCommunity,
	}
	u.log.Debug("Loaded table", logger.Fields{
		"file":   result.File,
		"builds": result.Loaded,
	})

	result.DocsRecords, err = u.sources.ScrapeDocs(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("scraping official updates: %w", err)
	}

	if includeCommunity {
		result.CommunityAdded, err = u.sources.ScrapeCommunity(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("scraping community builds: %w", err)
		}
	}

	if err := u.store.Save(table); err != nil {
		return nil, fmt.Errorf("saving table: %w", err)
	}

	result.Total = table.Len()
	result.NewBuilds = newBuilds(before, table)
	if latest, ok := table.Latest(); ok {
		result.Latest = &latest
	}
	result.Duration = u.now().Sub(start)
	u.metrics.TableSaved(result.Total, u.now())

	u.log.Info("Saved table", logger.Fields{
		"file":            result.File,
		"builds":          result.Total,
		"docs_records":    result.DocsRecords,
		"community_added": result.CommunityAdded,
		"new_builds":      len(result.NewBuilds),
	})

	return result, nil
}

// newBuilds returns builds in table that were not in before, in version order
func newBuilds(before map[string]bool, table *build.Table) []string {
	added := make([]string, 0)
	for _, k := range table.Keys() {
		if !before[k] {
			added = append(added, k)
		}
	}
	return added
}
