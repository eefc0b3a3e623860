// Package storage persists the build table as a JSON file.
//
// The file is a single JSON object keyed by build, indented with four spaces and
// ordered from oldest to newest build. A missing file loads as an empty table so
// the first run can start from nothing. Saves go through a temporary file and a
// rename, so an interrupted save leaves the previous table in place.
package storage
