package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

var _ ports.LLMService = (*GeminiService)(nil)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/"

// GeminiService adaptador LLMService sobre la API REST de Google Gemini.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. model suele ser "gemini-1.5-flash".
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// WithBaseURL cambia la raíz de la API (pruebas).
func (s *GeminiService) WithBaseURL(u string) *GeminiService {
	s.baseURL = u
	return s
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"` // "application/json" fuerza JSON puro
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SummarizeDashboard llama a Gemini con las métricas y devuelve el resumen.
func (s *GeminiService) SummarizeDashboard(ctx context.Context, metrics dto.DashboardMetricsDTO) (*dto.DashboardAISummaryDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}
	userText, err := metricsPrompt(metrics)
	if err != nil {
		return nil, err
	}

	endpoint := s.baseURL + url.PathEscape(s.model) + ":generateContent?key=" + url.QueryEscape(s.apiKey)
	raw, status, err := postJSON(ctx, s.httpClient, endpoint, nil, geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: summarySystemPrompt}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: userText}}}},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.2,
			MaxOutputTokens:  512,
		},
	})
	if err != nil {
		return nil, err
	}

	var out geminiResponse
	decodeErr := json.Unmarshal(raw, &out)
	if status != http.StatusOK {
		if decodeErr == nil && out.Error != nil {
			return nil, fmt.Errorf("AI: Gemini error %d: %s", out.Error.Code, out.Error.Message)
		}
		return nil, fmt.Errorf("AI: Gemini HTTP %d", status)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta Gemini: %w", decodeErr)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}
	return parseSummary(out.Candidates[0].Content.Parts[0].Text)
}
