// Package updater runs one refresh of the build table: load the saved table,
// apply the official source, optionally fill gaps from the community source,
// and save the result. Nothing is written unless every phase succeeds.
package updater
