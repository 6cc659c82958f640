package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/internal/versus/cmd"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	if err := versus(); err != nil {
		logrus.Fatal(err)
	}
}

func versus() error {
	// Interrupts cancel the running game, so that the engine is
	// closed before versus exits.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cmd.Root()
	root.SetArgs(os.Args[1:])
	return root.ExecuteContext(ctx)
}
