package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sourcemap "github.com/MadAppGang/sourcemap"
)

func newEncodeCmd() *cobra.Command {
	var outPath, file, sourceRoot string

	cmd := &cobra.Command{
		Use:   "encode <snapshot-file>",
		Short: "Re-emit a binary snapshot as a Source Map v3 JSON envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			e, err := sourcemap.FromBuffer(blob)
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			res, err := e.ToVLQ()
			if err != nil {
				return err
			}

			env := envelope{
				Version:        3,
				File:           file,
				SourceRoot:     sourceRoot,
				Sources:        res.Sources,
				SourcesContent: res.SourcesContent,
				Names:          res.Names,
				Mappings:       res.Mappings,
			}
			out, err := env.marshal()
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = args[0] + ".map"
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return err
			}

			logger.Infof("wrote envelope: %s", outPath)
			fmt.Println(okStyle.Render("ok") + " " + dimStyle.Render(outPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output map path (default: <input>.map)")
	cmd.Flags().StringVar(&file, "file", "", "value of the envelope's \"file\" field")
	cmd.Flags().StringVar(&sourceRoot, "source-root", "", "value of the envelope's \"sourceRoot\" field")
	return cmd
}
