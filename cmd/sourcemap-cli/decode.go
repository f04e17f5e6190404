package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sourcemap "github.com/MadAppGang/sourcemap"
)

func newDecodeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "decode <map-file>",
		Short: "Parse a .map JSON envelope into a binary snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			env, err := decodeEnvelope(data)
			if err != nil {
				return fmt.Errorf("parsing envelope: %w", err)
			}

			e := sourcemap.Create()
			if err := e.AddVLQMappings(env.Mappings, env.Sources, env.SourcesContent, env.Names, 0, 0); err != nil {
				return fmt.Errorf("decoding mappings: %w", err)
			}

			blob, err := e.ToBuffer()
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = args[0] + ".smap"
			}
			if err := os.WriteFile(outPath, blob, 0o644); err != nil {
				return err
			}

			logger.Infof("wrote snapshot: %s (%d bytes)", outPath, len(blob))
			fmt.Println(okStyle.Render("ok") + " " + dimStyle.Render(outPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output snapshot path (default: <input>.smap)")
	return cmd
}
