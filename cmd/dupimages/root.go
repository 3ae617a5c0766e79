package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/luinbytes/imgdedup/finder"
	"github.com/luinbytes/imgdedup/fingerprint"
	"github.com/luinbytes/imgdedup/storage"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func newRootCommand(v *viper.Viper) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "dupimages [directory...]",
		Short: "Find and remove duplicate and visually similar images",
		Long: titleStyle.Render("dupimages") + subtitleStyle.Render(" - duplicate image eliminator") + `

Scans the given directories for images, finds byte-identical copies and
visually similar images, and lists them. Nothing is removed unless
--execute is given.

` + subtitleStyle.Render("Examples:") + `
  dupimages ~/Pictures                 Dry run over one directory
  dupimages -t 3 ~/Pictures ~/Backup   Stricter similarity over two directories
  dupimages -e --move-to ~/dupes .     Move duplicates instead of deleting them
  dupimages compare a.jpg b.jpg        Compare two images with every algorithm
  dupimages demo ./samples             Write sample images to try it on`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			used, err := loadConfigFile(v, cfgFile)
			if err != nil {
				return err
			}
			if used != "" && v.GetBool("verbose") {
				fmt.Fprintf(cmd.ErrOrStderr(), "Loaded config from: %s\n", used)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := finderConfig(v, args)
			if err != nil {
				return err
			}
			if cfg.Review {
				if !cfg.Execute {
					return errors.New("--tui reviews files for removal and needs --execute")
				}
				if !finder.IsTerminal(cmd.OutOrStdout()) {
					return errors.New("--tui needs an interactive terminal")
				}
			}

			provider := storage.NewLocalProvider()
			defer provider.Close()

			f, err := finder.New(cfg, provider, finder.WithOutput(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			if _, err := f.Run(cmd.Context()); err != nil {
				if errors.Is(err, finder.ErrDirectoryNotFound) {
					return &ExitError{Code: 1, Err: err}
				}
				return err
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./"+localConfigFile+" or <user config dir>/"+appName+"/config.json)")
	pf.IntP("threshold", "t", finder.DefaultThreshold, "maximum Hamming distance for similar images (0-64)")
	pf.String("phash-algo", string(fingerprint.DefaultPerceptualAlgorithm), "perceptual hash: ahash, dhash or phash")
	pf.BoolP("verbose", "v", false, "enable verbose output")
	pf.Bool("no-emoji", false, "disable emoji in output")

	flags := root.Flags()
	flags.BoolP("execute", "e", false, "actually remove duplicates (default is a dry run)")
	flags.String("hash", string(fingerprint.DefaultHashAlgorithm), "content hash: md5, sha1 or sha256")
	flags.String("move-to", "", "move duplicates to this directory instead of deleting them")
	flags.Bool("tui", false, "pick the files to remove interactively")
	flags.String("export", "", "write a report of the duplicates (.json or .csv)")

	for _, fs := range []*pflag.FlagSet{pf, flags} {
		if err := v.BindPFlags(fs); err != nil {
			panic(err)
		}
	}

	root.AddCommand(newCompareCommand(v))
	root.AddCommand(newDemoCommand())
	return root
}
