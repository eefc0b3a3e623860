// Package scraper fetches SharePoint Server build tables and turns their rows into build records.
//
// Two sources are supported. The official Microsoft "SharePoint updates" page is
// authoritative and overwrites existing entries. Todd Klindt's per-edition build
// lists fill gaps only, never replacing a build that is already known. Rows that
// do not look like data rows (wrong cell count, repeated header, malformed build
// number) are skipped without error, since neither page has a guaranteed layout.
package scraper
