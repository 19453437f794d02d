// Command quoteadmin manages the quote catalogue and server housekeeping.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/dailyquote/internal/server/admin"
)

func main() {
	if err := admin.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
