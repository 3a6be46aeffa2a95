// Command boxscores parses hockey box scores, imports batches of games and serves the
// boxscores HTTP API.
//
// Usage:
//
//	boxscores parse https://www.hockey-reference.com/boxscores/202304150BOS.html
//	boxscores import --file urls.txt --user alice
//	boxscores serve
package main

import "github.com/pfrederiksen/boxscores/internal/cli"

func main() {
	cli.Execute()
}
