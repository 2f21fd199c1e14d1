package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tend "github.com/tendhq/tend"
	"github.com/tendhq/tend/pkg/domain"
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits inside a routine",
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit to your morning or evening routine",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		routineFlag, _ := cmd.Flags().GetString("routine")
		tod := domain.TimeOfDay(routineFlag)
		if !tod.Valid() {
			fmt.Printf("Invalid --routine %q (want morning or evening)\n", routineFlag)
			os.Exit(1)
		}

		client := newClient(cmd)
		mustFetch(cmd, client)

		routine, err := client.Store.Snapshot().RoutineByTime(tod)
		if err != nil {
			fmt.Printf("No %s routine yet. Try `tend coach plan %s` first.\n", tod, tod)
			os.Exit(1)
		}

		habit, err := client.Store.AddHabit(cmd.Context(), args[0], routine.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added %q to %s (%s)\n", habit.Name, routine.Name, habit.ID)
	},
}

var habitDoneCmd = &cobra.Command{
	Use:   "done <habit-id>",
	Short: "Mark a habit completed for today",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setCompletion(cmd, args[0], true)
	},
}

var habitUndoCmd = &cobra.Command{
	Use:   "undo <habit-id>",
	Short: "Mark a habit not completed for today",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setCompletion(cmd, args[0], false)
	},
}

var habitRmCmd = &cobra.Command{
	Use:   "rm <habit-id>",
	Short: "Delete a habit and its history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(cmd)
		mustFetch(cmd, client)

		if err := client.Store.DeleteHabit(cmd.Context(), args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Habit deleted.")
	},
}

func setCompletion(cmd *cobra.Command, habitID string, completed bool) {
	client := newClient(cmd)
	mustFetch(cmd, client)

	if err := client.Store.ToggleHabit(cmd.Context(), habitID, completed); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	verb := "done"
	if !completed {
		verb = "not done"
	}
	fmt.Printf("Marked %s for %s.\n", verb, domain.Today())
}

// mustFetch loads the remote state before a mutation so lookups run
// against current data.
func mustFetch(cmd *cobra.Command, client *tend.Client) {
	if err := client.Store.FetchRoutinesAndHabits(cmd.Context()); err != nil {
		fmt.Printf("Error loading routines: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	habitAddCmd.Flags().StringP("routine", "r", "morning", "Routine to add to (morning or evening)")

	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitDoneCmd)
	habitCmd.AddCommand(habitUndoCmd)
	habitCmd.AddCommand(habitRmCmd)
	rootCmd.AddCommand(habitCmd)
}
