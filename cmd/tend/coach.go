package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	tend "github.com/tendhq/tend"
	"github.com/tendhq/tend/internal/presentation/tui"
	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Talk to the habit coach",
}

var coachAskCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the coach a question about your habits",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		render, _ := cmd.Flags().GetBool("render")

		var extra []tend.Option
		if render {
			// The answer is printed once, rendered, after the call
			// completes, instead of being typed out live.
			extra = append(extra, tend.WithAnimator(silentAnimator{}))
		}
		client := newClient(cmd, extra...)
		mustFetch(cmd, client)

		answer, err := client.Ask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if render {
			out, rerr := tui.NewRenderer()(answer)
			if rerr != nil {
				out = answer
			}
			fmt.Print(out)
		}
		fmt.Println()
	},
}

var coachPlanCmd = &cobra.Command{
	Use:   "plan <morning|evening>",
	Short: "Ask the coach to generate a routine",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tod := domain.TimeOfDay(args[0])
		if !tod.Valid() {
			fmt.Printf("Invalid time of day %q (want morning or evening)\n", args[0])
			os.Exit(1)
		}

		client := newClient(cmd)
		mustFetch(cmd, client)

		if _, err := client.PlanRoutine(cmd.Context(), tod); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
	},
}

// silentAnimator suppresses segment playback so the answer can be
// rendered in one piece.
type silentAnimator struct{}

func (silentAnimator) Play(ports.Segment) {}

func (silentAnimator) Reveal(_ context.Context, _ string, done func()) { done() }

func init() {
	coachAskCmd.Flags().Bool("render", false, "Render the answer as markdown instead of typing it out")

	coachCmd.AddCommand(coachAskCmd)
	coachCmd.AddCommand(coachPlanCmd)
	rootCmd.AddCommand(coachCmd)
}
