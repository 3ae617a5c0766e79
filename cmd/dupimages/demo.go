package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luinbytes/imgdedup/internal/samples"
)

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo <directory>",
		Short: "Write a small set of sample images with known duplicates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := samples.Write(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, path := range paths {
				s := samples.Set[i]
				switch {
				case s.Original == "":
					fmt.Fprintf(out, "Created: %s\n", path)
				case s.Exact:
					fmt.Fprintf(out, "Created: %s (exact copy of %s)\n", path, s.Original)
				default:
					fmt.Fprintf(out, "Created: %s (variant of %s)\n", path, s.Original)
				}
			}
			fmt.Fprintf(out, "\nTry: dupimages %s\n", args[0])
			return nil
		},
	}
}
