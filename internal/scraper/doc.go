// Package scraper retrieves hockey-reference.com box score pages over HTTP.
//
// All requests made through one Scraper share a token bucket limiter, so concurrent
// batches never exceed the configured request rate against the site. Retrieved pages
// are handed to the parser package to build game records.
package scraper
