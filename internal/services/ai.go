package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ollama/ollama/api"
	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// AIService generates review responses through a configurable model provider.
// Provider rows are tried in order (default first); the config-file provider
// is the final fallback. The model's text is returned verbatim.
type AIService struct {
	db  *gorm.DB
	cfg *config.AIConfig
}

func NewAIService(db *gorm.DB, cfg *config.AIConfig) *AIService {
	return &AIService{db: db, cfg: cfg}
}

// AIGenerateRequest carries the same inputs as the deterministic generator.
type AIGenerateRequest struct {
	ReviewText string
	Rating     int
	GuestName  string
	HotelName  string
	Platform   string
}

// Generate builds the prompt and walks the provider fallback chain.
func (s *AIService) Generate(ctx context.Context, req *AIGenerateRequest) (string, error) {
	prompt := buildResponsePrompt(req)

	providers := s.orderedProviders()
	if len(providers) == 0 {
		return "", fmt.Errorf("no AI provider configuration available")
	}

	var lastErr error
	for i, p := range providers {
		logger.Infof("[AI] Attempting provider %d/%d: %s (model: %s)", i+1, len(providers), p.Name, p.Model)

		text, err := s.callProvider(ctx, &p, prompt)
		if err == nil {
			logger.Infof("[AI] Success with provider: %s", p.Name)
			return text, nil
		}

		lastErr = err
		logger.Infof("[AI] Provider %s failed: %v, trying next...", p.Name, err)
	}

	return "", fmt.Errorf("all AI providers failed, last error: %w", lastErr)
}

func buildResponsePrompt(req *AIGenerateRequest) string {
	var b strings.Builder

	b.WriteString("You are the guest relations manager of a hotel, replying publicly to a guest review.\n\n")
	fmt.Fprintf(&b, "Hotel: %s\n", req.HotelName)
	fmt.Fprintf(&b, "Guest: %s\n", req.GuestName)
	fmt.Fprintf(&b, "Rating: %d/5\n", req.Rating)
	if req.Platform != "" {
		fmt.Fprintf(&b, "Platform: %s\n", req.Platform)
	}
	fmt.Fprintf(&b, "\nReview:\n%s\n\n", req.ReviewText)
	b.WriteString("Write a warm, professional reply. Thank the guest, address the specific points they raised, ")
	b.WriteString("and invite them back. Never promise compensation. Output only the reply text.")

	return b.String()
}

// orderedProviders returns active provider rows, default first, with the
// config-file provider appended as a final fallback.
func (s *AIService) orderedProviders() []models.AIProviderConfig {
	var providers []models.AIProviderConfig

	var def models.AIProviderConfig
	if err := s.db.Where("is_default = ? AND is_active = ?", true, true).First(&def).Error; err == nil {
		providers = append(providers, def)
	}

	var rest []models.AIProviderConfig
	s.db.Where("is_active = ?", true).Order("id ASC").Find(&rest)
	seen := make(map[uint]bool)
	for _, p := range providers {
		seen[p.ID] = true
	}
	for _, p := range rest {
		if !seen[p.ID] {
			providers = append(providers, p)
		}
	}

	if s.cfg.APIKey != "" {
		providers = append(providers, models.AIProviderConfig{
			Name:    "fallback",
			BaseURL: s.cfg.BaseURL,
			APIKey:  s.cfg.APIKey,
			Model:   s.cfg.Model,
		})
	}

	return providers
}

// callProvider dispatches to the provider-specific client.
func (s *AIService) callProvider(ctx context.Context, p *models.AIProviderConfig, prompt string) (string, error) {
	switch p.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, p, prompt)
	case "gemini":
		return s.callGemini(ctx, p, prompt)
	case "ollama":
		return s.callOllama(ctx, p, prompt)
	default:
		// openai and OpenAI-compatible services
		return s.callOpenAI(ctx, p, prompt)
	}
}

func (s *AIService) callOpenAI(ctx context.Context, p *models.AIProviderConfig, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		clientConfig.BaseURL = p.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	temperature := float32(0.7)
	if p.Temperature > 0 {
		temperature = float32(p.Temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

func (s *AIService) callAnthropic(ctx context.Context, p *models.AIProviderConfig, prompt string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(p.APIKey),
	)

	maxTokens := int64(p.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 1024
	}

	model := p.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return content, nil
}

func (s *AIService) callGemini(ctx context.Context, p *models.AIProviderConfig, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: p.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	model := p.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return resp.Text(), nil
}

func (s *AIService) callOllama(ctx context.Context, p *models.AIProviderConfig, prompt string) (string, error) {
	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := p.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": p.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	return content.String(), nil
}
