// Cubotino - optimal 2x2x2 solver and program planner for the Cubotino Pocket robot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cli.Execute(ctx)
}
