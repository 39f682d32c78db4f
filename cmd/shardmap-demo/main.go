// Command shardmap-demo wires a ShardMap against an in-memory topology fake
// and serves its routing decisions and internal state over HTTP, for manual
// exploration of the refresh state machine, the range reconciler, and the
// cache janitor without a real streaming backend.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

// Version is set with ldflags at build time.
//
//nolint:gochecknoglobals
var Version = "dev"

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cmd := New()

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Printf("error running shardmap-demo: %s", err)

		return 1
	}

	return 0
}
