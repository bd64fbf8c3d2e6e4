package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/claimcheck/internal/client/cli"
	"github.com/dmitrijs2005/claimcheck/internal/client/config"
)

func main() {

	ctx := context.Background()
	args := os.Args[1:]

	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = app.Run(ctx, args)
	_ = app.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

}
