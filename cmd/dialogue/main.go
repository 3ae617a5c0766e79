// Command dialogue extracts the spoken dialogue of a video into a text file.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/luinbytes/imgdedup/dialogue"
	"github.com/luinbytes/imgdedup/finder"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(),
		fang.WithVersion(finder.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// extractorFactory builds the pipeline; tests replace it.
type extractorFactory func(logger *log.Logger) (*dialogue.Extractor, error)

func whisperExtractor(logger *log.Logger) (*dialogue.Extractor, error) {
	transcriber, err := dialogue.NewWhisperTranscriber(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL"))
	if err != nil {
		return nil, err
	}
	return dialogue.NewExtractor(
		dialogue.FFmpegExtractor{},
		transcriber,
		dialogue.WithLanguageDetector(dialogue.NewLinguaDetector()),
		dialogue.WithLogger(logger),
	), nil
}

func newRootCommand() *cobra.Command {
	return newCommand(whisperExtractor)
}

func newCommand(build extractorFactory) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:          "dialogue [video]",
		Short:        "Extract the spoken dialogue of a video into a text file",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("error loading .env file: %w", err)
			}

			var video string
			if len(args) == 1 {
				video = args[0]
			} else {
				var err error
				video, err = promptVideoPath(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}

			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.TimeOnly,
			})
			extractor, err := build(logger)
			if err != nil {
				return err
			}

			res, err := extractor.Extract(cmd.Context(), video, output)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, "--- EXTRACTED DIALOGUE ---")
			fmt.Fprintln(out, res.Text)
			fmt.Fprintf(out, "\nDialogue saved to '%s'\n", res.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", dialogue.DefaultOutput, "file to write the dialogue to")
	return cmd
}

// promptVideoPath asks for the video on in. Surrounding whitespace and
// double quotes, as left by drag and drop, are stripped.
func promptVideoPath(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter the path to your MP4 video file: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	path := strings.Trim(strings.TrimSpace(line), `"`)
	if path == "" {
		return "", errors.New("no video file given")
	}
	return path, nil
}
