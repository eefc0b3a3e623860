// Package cli implements the command-line interface for sharepoint-versions.
//
// The cli package provides the Cobra command that refreshes a SharePoint Server
// build table file. It loads configuration, wires the scraper, storage and
// updater packages together, and reports a short summary of the run.
package cli
