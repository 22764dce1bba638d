package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/inesrocha/temper/internal/domain"
)

// Model checkpoints the analyzer was calibrated against.
const (
	DefaultSentimentModel = "distilbert-base-uncased-finetuned-sst-2-english"
	DefaultEmotionModel   = "j-hartmann/emotion-english-distilroberta-base"
)

// HuggingFace calls the hosted Inference API for sentiment and emotion
// classification. Requests are rate-limited and retried on transient
// failures; the free tier throttles hard.
type HuggingFace struct {
	apiKey         string
	sentimentModel string
	emotionModel   string
	baseURL        string
	client         *http.Client
	limiter        *rate.Limiter
}

func NewHuggingFace(apiKey, sentimentModel, emotionModel string) *HuggingFace {
	if sentimentModel == "" {
		sentimentModel = DefaultSentimentModel
	}
	if emotionModel == "" {
		emotionModel = DefaultEmotionModel
	}
	return &HuggingFace{
		apiKey:         apiKey,
		sentimentModel: sentimentModel,
		emotionModel:   emotionModel,
		baseURL:        "https://api-inference.huggingface.co/models",
		client:         &http.Client{Timeout: 30 * time.Second},
		limiter:        rate.NewLimiter(rate.Every(200*time.Millisecond), 2),
	}
}

type classifyRequest struct {
	Inputs string `json:"inputs"`
}

type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (h *HuggingFace) Sentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	results, err := h.classify(ctx, h.sentimentModel, text)
	if err != nil {
		return domain.Sentiment{}, err
	}
	if len(results) == 0 {
		return domain.Sentiment{}, fmt.Errorf("ml: sentiment model returned no labels")
	}

	// Labels come back sorted by score; the first is the prediction.
	top := results[0]
	polarity := -1.0
	if top.Label == "POSITIVE" {
		polarity = 1.0
	}
	return domain.Sentiment{Label: top.Label, Score: top.Score, Polarity: polarity}, nil
}

func (h *HuggingFace) Emotions(ctx context.Context, text string) (domain.EmotionReading, error) {
	results, err := h.classify(ctx, h.emotionModel, text)
	if err != nil {
		return domain.EmotionReading{}, err
	}
	if len(results) == 0 {
		return domain.EmotionReading{Dominant: "neutral"}, nil
	}

	scores := make(map[string]float64, len(results))
	dominant := results[0]
	for _, r := range results {
		scores[r.Label] = r.Score
		if r.Score > dominant.Score {
			dominant = r
		}
	}

	return domain.EmotionReading{
		Scores:     scores,
		Dominant:   dominant.Label,
		Aggression: scores["anger"],
	}, nil
}

// classify posts text to one model and flattens the API's nested label
// list. Retries up to 3 times on 429/5xx (503 also covers model cold
// starts on the hosted API).
func (h *HuggingFace) classify(ctx context.Context, model, text string) ([]classification, error) {
	body, err := json.Marshal(classifyRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("ml: marshal request: %w", err)
	}

	backoffs := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for attempt := 0; attempt <= len(backoffs); attempt++ {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("ml: rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+model, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("ml: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if h.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+h.apiKey)
		}

		resp, err := h.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("ml: request cancelled: %w", ctx.Err())
			}
			return nil, fmt.Errorf("ml: request failed: %w", err)
		}

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("ml: read response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return parseClassifications(respBody)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("ml: %s returned %d: %s", model, resp.StatusCode, respBody)
			if attempt < len(backoffs) {
				select {
				case <-time.After(backoffs[attempt]):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			continue
		}

		return nil, fmt.Errorf("ml: %s returned %d: %s", model, resp.StatusCode, respBody)
	}

	return nil, fmt.Errorf("ml: retries exhausted: %w", lastErr)
}

// parseClassifications accepts both shapes the API uses:
// [[{label,score},...]] for single inputs and [{label,score},...].
func parseClassifications(body []byte) ([]classification, error) {
	var nested [][]classification
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}

	var flat []classification
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat, nil
	}

	return nil, fmt.Errorf("ml: unexpected response shape: %s", body)
}
