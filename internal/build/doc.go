// Package build provides the record types and version ordering for SharePoint Server builds.
//
// A Table maps a build string (for example "16.0.17928") to the Record describing it.
// Keys are ordered by comparing their dot-separated segments as integers, so the
// JSON form of a Table always lists builds from oldest to newest.
package build
