// Package dialogue pulls the spoken dialogue out of a video: it extracts the
// audio track, transcribes it and saves the text.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultOutput is where the transcript is written unless told otherwise.
const DefaultOutput = "dialogue.txt"

var (
	ErrVideoNotFound      = errors.New("video file not found")
	ErrNoAudio            = errors.New("video has no audio stream")
	ErrNoSpeech           = errors.New("could not understand the audio")
	ErrRecognitionService = errors.New("error with speech recognition service")
)

// AudioExtractor writes the audio track of videoFile to audioFile as WAV.
// It reports false without an error when the video has no audio stream.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoFile, audioFile string) (bool, error)
}

// Transcriber turns speech in an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioFile string) (string, error)
}

// LanguageDetector names the language of a text, if it can tell.
type LanguageDetector interface {
	DetectLanguage(text string) (string, bool)
}

// Result is an extracted transcript.
type Result struct {
	Text       string
	Language   string
	OutputPath string
}

// Extractor runs the extraction pipeline.
type Extractor struct {
	audio       AudioExtractor
	transcriber Transcriber
	detector    LanguageDetector
	logger      *log.Logger
	tempDir     string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLanguageDetector logs the language of every transcript.
func WithLanguageDetector(d LanguageDetector) Option {
	return func(e *Extractor) { e.detector = d }
}

// WithLogger replaces the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithTempDir sets where the intermediate audio file is created.
func WithTempDir(dir string) Option {
	return func(e *Extractor) { e.tempDir = dir }
}

// NewExtractor returns an Extractor using audio and transcriber.
func NewExtractor(audio AudioExtractor, transcriber Transcriber, opts ...Option) *Extractor {
	e := &Extractor{
		audio:       audio,
		transcriber: transcriber,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Extract transcribes videoPath and writes the transcript to outputPath.
// The intermediate audio file is removed whatever the outcome.
func (e *Extractor) Extract(ctx context.Context, videoPath, outputPath string) (*Result, error) {
	e.logger.Infof("Processing video: %s", videoPath)

	info, err := os.Stat(videoPath)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoPath)
	}
	if err != nil {
		return nil, err
	}

	audioFile, err := tempAudioFile(e.tempDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(audioFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("Failed to remove temporary audio", "path", audioFile, "err", err)
		}
	}()

	e.logger.Info("Extracting audio...")
	ok, err := e.audio.ExtractAudio(ctx, videoPath, audioFile)
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAudio, videoPath)
	}
	e.logger.Info("Audio extracted successfully!")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.Info("Converting speech to text...")
	text, err := e.transcriber.Transcribe(ctx, audioFile)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrRecognitionService, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoSpeech
	}

	res := &Result{Text: text, OutputPath: outputPath}
	if e.detector != nil {
		if lang, ok := e.detector.DetectLanguage(text); ok {
			res.Language = lang
			e.logger.Info("Detected transcription language", "language", lang)
		}
	}

	if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
		return res, fmt.Errorf("save dialogue: %w", err)
	}
	return res, nil
}

func tempAudioFile(dir string) (string, error) {
	f, err := os.CreateTemp(dir, "dialogue-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temporary audio file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}
