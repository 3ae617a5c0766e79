package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luinbytes/imgdedup/finder"
	"github.com/luinbytes/imgdedup/fingerprint"
	"github.com/luinbytes/imgdedup/storage"
)

func newCompareCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <image1> <image2>",
		Short: "Compare two images with every perceptual hash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, err := fingerprint.ParsePerceptualAlgorithm(v.GetString("phash-algo"))
			if err != nil {
				return err
			}
			threshold := v.GetInt("threshold")

			provider := storage.NewLocalProvider()
			defer provider.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Comparing images...")
			fmt.Fprintf(out, "   Image 1: %s\n", args[0])
			fmt.Fprintf(out, "   Image 2: %s\n", args[1])
			fmt.Fprintf(out, "   Algorithm: %s\n", algo)

			comparisons, err := finder.Compare(cmd.Context(), provider, args[0], args[1], threshold)
			if err != nil {
				return err
			}
			finder.PrintComparison(out, comparisons, algo, threshold)
			return nil
		},
	}
}
