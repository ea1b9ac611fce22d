// Package ai contiene los adaptadores LLM que redactan el resumen del tablero de la farmacia.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

const summarySystemPrompt = `Eres analista de operaciones de una cadena de farmacias con bodega central y varias tiendas.
Recibes métricas del tablero en JSON (ventas del día y del mes, alertas de stock y medicamentos más vendidos).
Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown) con esta estructura exacta:
{
  "headline": "<una frase en español, máximo 120 caracteres>",
  "highlights": ["<hasta 3 observaciones positivas o neutrales>"],
  "risks": ["<hasta 3 riesgos: quiebres de stock, caídas de venta, concentración en pocos productos>"]
}
No inventes cifras que no estén en las métricas. Montos en la moneda de las métricas, sin convertir.`

// summaryPayload es el JSON que esperamos del modelo.
type summaryPayload struct {
	Headline   string   `json:"headline"`
	Highlights []string `json:"highlights"`
	Risks      []string `json:"risks"`
}

// maxResponseBytes tope de lectura del cuerpo de respuesta del proveedor.
const maxResponseBytes = 64 * 1024

// postJSON envía body como JSON y devuelve el cuerpo (acotado) y el status.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body any) ([]byte, int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("AI: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, 0, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("AI: leer respuesta: %w", err)
	}
	return out, resp.StatusCode, nil
}

// metricsPrompt serializa las métricas como mensaje de usuario.
func metricsPrompt(metrics dto.DashboardMetricsDTO) (string, error) {
	raw, err := json.Marshal(metrics)
	if err != nil {
		return "", fmt.Errorf("AI: serializar métricas: %w", err)
	}
	return "Métricas del tablero:\n" + string(raw), nil
}

// parseSummary extrae y valida el JSON del texto del modelo.
func parseSummary(text string) (*dto.DashboardAISummaryDTO, error) {
	clean := extractJSON(text)
	if clean == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", text)
	}
	var p summaryPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON del resumen: %w (JSON extraído: %s)", err, clean)
	}
	if strings.TrimSpace(p.Headline) == "" {
		return nil, fmt.Errorf("AI: el resumen no trae headline")
	}
	return &dto.DashboardAISummaryDTO{
		Headline:   strings.TrimSpace(p.Headline),
		Highlights: capList(p.Highlights, 3),
		Risks:      capList(p.Risks, 3),
	}, nil
}

func capList(items []string, n int) []string {
	out := make([]string, 0, n)
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" && len(out) < n {
			out = append(out, s)
		}
	}
	return out
}

// jsonBlockRe captura desde el primer '{' hasta el último '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el objeto JSON de un texto libre:
//  1. quita bloques de código markdown (```json … ```);
//  2. si no empieza con '{', toma el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
