package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tendhq/tend/pkg/domain"
)

var routinesCmd = &cobra.Command{
	Use:   "routines",
	Short: "Show your morning and evening routines",
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(cmd)
		mustFetch(cmd, client)

		snap := client.Store.Snapshot()
		today := domain.Today()
		blocked := false

		for _, tod := range []domain.TimeOfDay{domain.Morning, domain.Evening} {
			routine, err := snap.RoutineByTime(tod)
			if err != nil {
				var missing *domain.MissingRoutineError
				if errors.As(err, &missing) {
					fmt.Printf("\nNo %s routine yet. Try `tend coach plan %s`.\n", tod, tod)
					blocked = true
					continue
				}
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			fmt.Printf("\n%s (%s)\n", routine.Name, routine.TimeOfDay)
			habits := snap.HabitsOf(routine.ID)
			if len(habits) == 0 {
				fmt.Println("  (no habits)")
				continue
			}
			for _, h := range habits {
				mark := "[ ]"
				if snap.Completed(h.ID, today) {
					mark = "[x]"
				}
				fmt.Printf("  %s %s  (%s)\n", mark, h.Name, h.ID)
			}
		}

		if blocked {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(routinesCmd)
}
