package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luinbytes/imgdedup/dialogue"
)

type fakeAudio struct{}

func (fakeAudio) ExtractAudio(_ context.Context, _, audioFile string) (bool, error) {
	return true, os.WriteFile(audioFile, []byte("RIFF"), 0644)
}

type fakeTranscriber struct{ text string }

func (f fakeTranscriber) Transcribe(context.Context, string) (string, error) {
	return f.text, nil
}

func fakeFactory(text string) extractorFactory {
	return func(logger *log.Logger) (*dialogue.Extractor, error) {
		return dialogue.NewExtractor(fakeAudio{}, fakeTranscriber{text: text}, dialogue.WithLogger(logger)), nil
	}
}

func run(t *testing.T, build extractorFactory, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := newCommand(build)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeVideo(t *testing.T) string {
	t.Helper()
	video := filepath.Join(t.TempDir(), "my clip.mp4")
	require.NoError(t, os.WriteFile(video, []byte("fake"), 0644))
	return video
}

func TestDialogueFromArgument(t *testing.T) {
	video := writeVideo(t)
	output := filepath.Join(t.TempDir(), "out.txt")

	out, err := run(t, fakeFactory("hello world"), "", video, "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "--- EXTRACTED DIALOGUE ---\nhello world\n")
	assert.Contains(t, out, "Dialogue saved to '"+output+"'")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestDialoguePromptsForVideo(t *testing.T) {
	video := writeVideo(t)

	out, err := run(t, fakeFactory("prompted"), "  \""+video+"\"  \n")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter the path to your MP4 video file: ")
	assert.Contains(t, out, "prompted")
	assert.FileExists(t, dialogue.DefaultOutput)
}

func TestDialogueMissingVideo(t *testing.T) {
	_, err := run(t, fakeFactory("unused"), "", filepath.Join(t.TempDir(), "missing.mp4"))
	assert.ErrorIs(t, err, dialogue.ErrVideoNotFound)
}

func TestDialogueNoSpeech(t *testing.T) {
	_, err := run(t, fakeFactory(""), "", writeVideo(t))
	assert.ErrorIs(t, err, dialogue.ErrNoSpeech)
}

func TestPromptVideoPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"clip.mp4\n", "clip.mp4"},
		{"  \"C:\\Videos\\clip.mp4\"\r\n", "C:\\Videos\\clip.mp4"},
		{"no-newline.mp4", "no-newline.mp4"},
	}
	for _, tt := range tests {
		got, err := promptVideoPath(strings.NewReader(tt.input), &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := promptVideoPath(strings.NewReader("\n"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestWhisperExtractorNeedsKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := whisperExtractor(log.New(&bytes.Buffer{}))
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}
