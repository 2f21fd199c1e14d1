package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch routines and habits from the server",
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(cmd)

		if err := client.Store.FetchRoutinesAndHabits(cmd.Context()); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		snap := client.Store.Snapshot()
		fmt.Printf("Synced %d routines, %d habits, %d log entries.\n",
			len(snap.Routines), len(snap.Habits), len(snap.HabitLogs))
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
