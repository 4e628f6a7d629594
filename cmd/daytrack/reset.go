package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all projects and tasks for today",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm the reset")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to reset without --yes")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.tracker.DeleteAll(); err != nil {
		return err
	}
	fmt.Println("today cleared")
	return nil
}
