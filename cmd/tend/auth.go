package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tendhq/tend/pkg/session"
)

var loginCmd = &cobra.Command{
	Use:   "login <token>",
	Short: "Store an access token for the remote backend",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		gate := session.NewGate("")
		if err := gate.Login(args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Signed in.")
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored access token",
	Run: func(cmd *cobra.Command, args []string) {
		gate := session.NewGate("")
		if err := gate.Logout(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Signed out.")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
