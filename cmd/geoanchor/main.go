package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/example/geoanchor/internal/cli"
	"github.com/example/geoanchor/internal/version"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		cli.NewRootCmd(),
		fang.WithVersion(version.String()),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
