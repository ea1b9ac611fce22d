package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicService adaptador LLMService sobre la API REST de Anthropic (Messages).
type AnthropicService struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey:   apiKey,
		model:    model,
		endpoint: anthropicMessagesURL,
		httpClient: &http.Client{
			// el use case impone además un context.WithTimeout de 10 s
			Timeout: 25 * time.Second,
		},
	}
}

// WithEndpoint cambia la URL de la API (proxies, pruebas).
func (s *AnthropicService) WithEndpoint(url string) *AnthropicService {
	s.endpoint = url
	return s
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// SummarizeDashboard envía las métricas a Claude y devuelve titular, observaciones y riesgos.
func (s *AnthropicService) SummarizeDashboard(ctx context.Context, metrics dto.DashboardMetricsDTO) (*dto.DashboardAISummaryDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado")
	}
	userContent, err := metricsPrompt(metrics)
	if err != nil {
		return nil, err
	}

	raw, status, err := postJSON(ctx, s.httpClient, s.endpoint,
		map[string]string{"x-api-key": s.apiKey, "anthropic-version": anthropicVersion},
		anthropicRequest{
			Model:     s.model,
			MaxTokens: 1024,
			System:    summarySystemPrompt,
			Messages:  []anthropicMessage{{Role: "user", Content: userContent}},
		})
	if err != nil {
		return nil, err
	}

	var out anthropicResponse
	decodeErr := json.Unmarshal(raw, &out)
	if status != http.StatusOK {
		if decodeErr == nil && out.Error != nil {
			return nil, fmt.Errorf("AI: Anthropic error (%s): %s", out.Error.Type, out.Error.Message)
		}
		return nil, fmt.Errorf("AI: Anthropic HTTP %d: %s", status, string(raw))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta Anthropic: %w", decodeErr)
	}
	for _, block := range out.Content {
		if block.Type == "text" || block.Type == "" {
			return parseSummary(block.Text)
		}
	}
	return nil, fmt.Errorf("AI: Claude devolvió respuesta vacía")
}
