package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiftops/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftops",
		Short: "ShiftOps API Server",
		Long:  `ShiftOps is the scheduling and operations backend for multi-location tutoring businesses: staff shifts with manager review, wage calculation, and a live operational task board.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
