package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tendhq/tend/pkg/domain"
)

var routineCmd = &cobra.Command{
	Use:   "routine",
	Short: "Manage routines",
}

var routineRmCmd = &cobra.Command{
	Use:   "rm <morning|evening>",
	Short: "Delete a routine, its habits and their history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tod := domain.TimeOfDay(args[0])
		if !tod.Valid() {
			fmt.Printf("Invalid routine %q (want morning or evening)\n", args[0])
			os.Exit(1)
		}

		client := newClient(cmd)
		mustFetch(cmd, client)

		routine, err := client.Store.Snapshot().RoutineByTime(tod)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if err := client.Store.DeleteRoutine(cmd.Context(), routine.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %s and its habits.\n", routine.Name)
	},
}

func init() {
	routineCmd.AddCommand(routineRmCmd)
	rootCmd.AddCommand(routineCmd)
}
