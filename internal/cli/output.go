package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/sharepoint-versions/internal/updater"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the run summary in the specified format
func WriteOutput(w io.Writer, result *updater.Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, result *updater.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, result *updater.Result) error {
	fmt.Fprintf(w, "Saved %d builds to %s\n", result.Total, result.File)
	fmt.Fprintf(w, "  Previously stored: %d\n", result.Loaded)
	fmt.Fprintf(w, "  From official updates page: %d\n", result.DocsRecords)
	if result.Community {
		fmt.Fprintf(w, "  Added from toddklindt.com: %d\n", result.CommunityAdded)
	}
	for _, b := range result.NewBuilds {
		fmt.Fprintf(w, "  NEW: %s\n", b)
	}
	if result.Latest != nil {
		fmt.Fprintf(w, "Latest build: %s - %s (%s)\n", result.Latest.Build, result.Latest.Name, result.Latest.ReleaseDate)
	}
	return nil
}
