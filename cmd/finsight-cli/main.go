package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finsight-cli",
	Short: "Inspect statements and chat with the finance assistant",
	Long: `finsight-cli works against the same banking fixture and SQLite store
as the finsight server: ingest a statement, print summaries and balance
series, or ask the assistant a one-shot question.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("finsight-cli")
		fmt.Println("Use --help for available commands")
	},
}
