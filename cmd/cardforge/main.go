// Command cardforge is the match-runner CLI: run plays a single match
// between two decks and prints (or records) its outcome, import-cards
// loads a card CSV export into Postgres, and serve-trace replays a
// recorded trace over HTTP/websocket for a spectator client.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
