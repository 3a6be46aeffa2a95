// Package game provides the normalized records produced from a hockey box score page.
//
// A Record holds one game: both team names, the final score, an optional game date,
// the ordered per-skater lines and exactly two team lines (away first, home second).
// Records carry validator tags so callers can reject impossible values before they
// reach storage.
package game
