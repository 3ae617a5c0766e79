// Command dupimages finds byte-identical and visually similar images under
// one or more directories and optionally removes the duplicates.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/viper"

	"github.com/luinbytes/imgdedup/finder"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(viper.New()),
		fang.WithVersion(finder.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
