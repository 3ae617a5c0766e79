package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/luinbytes/imgdedup/finder"
	"github.com/luinbytes/imgdedup/fingerprint"
)

const (
	appName         = "imgdedup"
	envPrefix       = "IMGDEDUP"
	localConfigFile = ".deduprc.json"
)

// configCandidates lists the config files tried when --config is not given,
// in order: ./.deduprc.json, then <user config dir>/imgdedup/config.json.
func configCandidates() []string {
	candidates := []string{localConfigFile}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, appName, "config.json"))
	}
	return candidates
}

func findConfigFile() string {
	for _, path := range configCandidates() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// loadConfigFile reads explicit, or the first existing candidate, into v.
// It returns the file used, or "" when there is none. Flags that were set
// explicitly still win over the file.
func loadConfigFile(v *viper.Viper, explicit string) (string, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := explicit
	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return "", nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	return path, nil
}

// finderConfig assembles the scan configuration from v. Positional
// directories replace the "dirs" config key.
func finderConfig(v *viper.Viper, args []string) (finder.Config, error) {
	roots := args
	if len(roots) == 0 {
		roots = v.GetStringSlice("dirs")
	}
	if len(roots) == 0 {
		return finder.Config{}, errors.New("at least one directory is required")
	}

	hashAlgo, err := fingerprint.ParseHashAlgorithm(v.GetString("hash"))
	if err != nil {
		return finder.Config{}, err
	}
	perceptualAlgo, err := fingerprint.ParsePerceptualAlgorithm(v.GetString("phash-algo"))
	if err != nil {
		return finder.Config{}, err
	}

	return finder.Config{
		Roots:               roots,
		Threshold:           v.GetInt("threshold"),
		Execute:             v.GetBool("execute"),
		HashAlgorithm:       hashAlgo,
		PerceptualAlgorithm: perceptualAlgo,
		MoveTo:              v.GetString("move-to"),
		Review:              v.GetBool("tui"),
		ExportPath:          v.GetString("export"),
		NoEmoji:             v.GetBool("no-emoji"),
		Verbose:             v.GetBool("verbose"),
	}, nil
}
