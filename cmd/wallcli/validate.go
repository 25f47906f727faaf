package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"breachline/internal/maps"
)

var validateCmd = &cobra.Command{
	Use:   "validate <map.json>",
	Short: "Load a map file and report validation errors",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	m, err := maps.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		os.Exit(1)
		return nil
	}
	fmt.Printf("ok: %q is valid (%dx%d, %d walls, %d spawns)\n", m.Name, int(m.Width), int(m.Height), len(m.Walls), len(m.Spawns))
	return nil
}
