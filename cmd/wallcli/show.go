package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"breachline/internal/config"
	"breachline/internal/game"
	"breachline/internal/maps"
)

var showCmd = &cobra.Command{
	Use:   "show <map.json>",
	Short: "Render a table of a map's walls and their total health",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	m, err := maps.Load(args[0])
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}

	destCfg := config.DefaultDestruction()

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("ID", "MATERIAL", "X", "Y", "WIDTH", "HEIGHT", "TOTAL HEALTH")

	var grandTotal float64
	for _, wd := range m.Walls {
		w := game.NewWall(wd.ID, wd.X, wd.Y, wd.Width, wd.Height, game.LoadMaterial(wd.Material), destCfg)
		var total float64
		for _, h := range w.SliceHealth {
			total += h
		}
		grandTotal += total
		table.Append(
			wd.ID,
			wd.Material,
			humanize.FormatFloat("#,###.##", wd.X),
			humanize.FormatFloat("#,###.##", wd.Y),
			humanize.FormatFloat("#,###.##", wd.Width),
			humanize.FormatFloat("#,###.##", wd.Height),
			humanize.FormatFloat("#,###.##", total),
		)
	}
	table.Render()
	fmt.Printf("\n%d walls, %s total health\n", len(m.Walls), humanize.FormatFloat("#,###.##", grandTotal))

	return nil
}
