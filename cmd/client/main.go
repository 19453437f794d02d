// Command client is the interactive dailyquote terminal app.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/dailyquote/internal/client/cli"
	"github.com/dmitrijs2005/dailyquote/internal/client/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dailyquote: %v\n", err)
		return 2
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dailyquote: %v\n", err)
		return 1
	}
	app.Run(ctx)
	return 0
}
