package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sourcemap "github.com/MadAppGang/sourcemap"
)

func newExtendsCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "extends <host-snapshot> <donor-snapshot>",
		Short: "Re-anchor a host snapshot's originals through a donor's generated-to-original relation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hostBlob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			donorBlob, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			host, err := sourcemap.FromBuffer(hostBlob)
			if err != nil {
				return fmt.Errorf("loading host: %w", err)
			}

			if err := host.ExtendsBuffer(donorBlob); err != nil {
				return fmt.Errorf("composing: %w", err)
			}

			out, err := host.ToBuffer()
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = args[0]
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return err
			}

			logger.Infof("wrote composed snapshot: %s", outPath)
			fmt.Println(okStyle.Render("ok") + " " + dimStyle.Render(outPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output snapshot path (default: overwrite host)")
	return cmd
}
