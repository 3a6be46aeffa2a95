// Package parser turns a hockey-reference.com box score document into a game.Record.
//
// Each fact on the page (team names, scores, skater lines, game outcome) is pulled out
// by its own extractor. An extractor is an ordered chain of strategies; the first one
// that finds something wins and the extractor otherwise falls back to a sentinel value.
// Box score markup is not a stable contract, so extraction never fails: the only error
// Parse callers see comes from reading the document itself.
package parser
