// Package gemini — REST-клиент generativelanguage API.
// Возвращает сырой текст ответа; разбор JSON живёт в internal/analysis,
// чтобы ядро тестировалось без сети.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Sahaji-2003/Food-Tracker/internal/config"
	"github.com/Sahaji-2003/Food-Tracker/internal/models"
)

type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Контекст пользователя для персонализации промпта
type ProfileContext struct {
	Gender         string
	Age            int
	Height         float64
	Weight         float64
	CalorieTarget  int
	TargetGoal     string
	Allergies      []string
	Conditions     []string
	Preferences    []string
	PreferredTasks []string
}

type geminiRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type geminiResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// Анализ фото еды с учётом профиля и уже съеденного за день
func (c *Client) AnalyzeMealImage(ctx context.Context, image []byte, mimeType string, p ProfileContext, caloriesConsumed int) (string, error) {
	prompt := mealImagePrompt(p, caloriesConsumed)
	return c.generate(ctx, []content{{Parts: []part{
		{Text: prompt},
		{InlineData: &inlineData{MimeType: orJPEG(mimeType), Data: base64.StdEncoding.EncodeToString(image)}},
	}}})
}

// Анализ текстового описания приёма пищи
func (c *Client) AnalyzeMealText(ctx context.Context, text string, p ProfileContext, caloriesConsumed int) (string, error) {
	prompt := mealTextPrompt(text, p, caloriesConsumed)
	return c.generate(ctx, []content{{Parts: []part{{Text: prompt}}}})
}

// Подбор блюд по фото меню ресторана
func (c *Client) SuggestFromMenu(ctx context.Context, image []byte, mimeType string, p ProfileContext, caloriesRemaining int) (string, error) {
	prompt := menuPrompt(p, caloriesRemaining)
	return c.generate(ctx, []content{{Parts: []part{
		{Text: prompt},
		{InlineData: &inlineData{MimeType: orJPEG(mimeType), Data: base64.StdEncoding.EncodeToString(image)}},
	}}})
}

// Рецепты по фото холодильника/кладовки
func (c *Client) SuggestRecipes(ctx context.Context, image []byte, mimeType string, p ProfileContext) (string, error) {
	prompt := pantryPrompt(p)
	return c.generate(ctx, []content{{Parts: []part{
		{Text: prompt},
		{InlineData: &inlineData{MimeType: orJPEG(mimeType), Data: base64.StdEncoding.EncodeToString(image)}},
	}}})
}

// Чат с историей: система + история сообщений + новое сообщение
func (c *Client) Chat(ctx context.Context, systemContext string, history []models.ChatMessage, message string) (string, error) {
	contents := []content{{Role: "user", Parts: []part{{Text: systemContext}}}}
	for _, m := range history {
		role := "user"
		if m.Role == models.ChatRoleAssistant {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: message}}})
	return c.generate(ctx, contents)
}

// Чат по картинке (vision)
func (c *Client) ChatVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	return c.generate(ctx, []content{{Parts: []part{
		{Text: prompt},
		{InlineData: &inlineData{MimeType: orJPEG(mimeType), Data: base64.StdEncoding.EncodeToString(image)}},
	}}})
}

func (c *Client) generate(ctx context.Context, contents []content) (string, error) {
	jsonData, err := json.Marshal(geminiRequest{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API status %d: %s", resp.StatusCode, string(body))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func orJPEG(mimeType string) string {
	if mimeType == "" {
		return "image/jpeg"
	}
	return mimeType
}
