package dialogue

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// FFmpegExtractor extracts audio with the ffmpeg binary.
type FFmpegExtractor struct {
	// Binary defaults to "ffmpeg" looked up in PATH.
	Binary string
}

// ffmpegArgs converts to mono 16 kHz 16-bit PCM, overwriting audioFile.
func ffmpegArgs(videoFile, audioFile string) []string {
	return []string{"-y", "-i", videoFile, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", audioFile}
}

func (x FFmpegExtractor) ExtractAudio(ctx context.Context, videoFile, audioFile string) (bool, error) {
	binary := x.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return false, fmt.Errorf("ffmpeg not found: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, ffmpegArgs(videoFile, audioFile)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := stderr.String()
		if noAudioStream(stderrStr) {
			return false, nil
		}
		return false, fmt.Errorf("ffmpeg error: %w\nStderr: %s", err, stderrStr)
	}
	return true, nil
}

func noAudioStream(stderr string) bool {
	return strings.Contains(stderr, "Output file does not contain any stream") ||
		strings.Contains(stderr, "does not contain any stream")
}
