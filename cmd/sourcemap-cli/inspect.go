package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	sourcemap "github.com/MadAppGang/sourcemap"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <snapshot-file> <line> <column>",
		Short: "Find the mapping closest to a generated position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			line, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid line %q: %w", args[1], err)
			}
			column, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid column %q: %w", args[2], err)
			}

			e, err := sourcemap.FromBuffer(blob)
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			m, ok, err := e.FindClosestMapping(line, column)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(errStyle.Render("no mapping found"))
				return nil
			}

			fmt.Println(headingStyle.Render(fmt.Sprintf("%d:%d", m.GeneratedLine, m.GeneratedColumn)))
			if m.HasSource() {
				fmt.Printf("  source: %s\n", m.Source)
				fmt.Printf("  original: %d:%d\n", m.OriginalLine, m.OriginalColumn)
				if m.HasName() {
					fmt.Printf("  name: %s\n", m.Name)
				}
			} else {
				fmt.Println(dimStyle.Render("  (no original position)"))
			}
			return nil
		},
	}
	return cmd
}
