// Package cli implements the command-line interface for boxscores.
//
// The cli package provides the Cobra-based CLI: parsing a single box score (text or
// JSON output), importing a file of box score URLs as an in-process batch with progress
// reporting, listing stored games and running the HTTP API. It loads configuration,
// opens the selected storage backend and wires the scraper, ingest pipeline and task
// registry together.
package cli
