package dialogue

import (
	"context"
	"errors"

	"github.com/pemistahl/lingua-go"
	openai "github.com/sashabaranov/go-openai"
)

// WhisperTranscriber transcribes through the OpenAI audio API.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

// NewWhisperTranscriber returns a transcriber for apiKey. An empty baseURL
// keeps the public endpoint.
func NewWhisperTranscriber(apiKey, baseURL string) (*WhisperTranscriber, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is not set")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &WhisperTranscriber{
		client: openai.NewClientWithConfig(config),
		model:  openai.Whisper1,
	}, nil
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioFile string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioFile,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// LinguaDetector detects languages with lingua.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a low accuracy detector over all languages.
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build(),
	}
}

func (d *LinguaDetector) DetectLanguage(text string) (string, bool) {
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return language.String(), true
}
