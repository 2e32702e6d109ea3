// Command dailybugle is a terminal news board with simulated wire fetches.
//
// Usage:
//
//	dailybugle                   Run the news board
//	dailybugle dump [--json]     Print the persisted feed
//	dailybugle reset             Clear persisted state
//	dailybugle seed [--count N]  Merge a synthetic batch into storage
//	dailybugle login <identity>  Set the persisted session user
package main

import (
	"fmt"
	"os"

	"github.com/abelbrown/dailybugle/internal/logging"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(execute(newRootCmd()))
}

// execute runs root and returns the process exit code. The log is closed
// on every path, including failed commands.
func execute(root *cobra.Command) int {
	defer logging.Close()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "dailybugle: %v\n", err)
		return 1
	}
	return 0
}
