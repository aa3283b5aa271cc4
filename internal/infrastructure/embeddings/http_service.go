// Package embeddings implementa el puerto de embeddings de texto contra un
// servicio HTTP compatible con la API /v1/embeddings de OpenAI (sirve tanto
// OpenAI como un modelo sentence-transformers servido localmente).
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/recommendation"
)

// Verificar en tiempo de compilación que HTTPService implementa EmbeddingService.
var _ recommendation.EmbeddingService = (*HTTPService)(nil)

// batchSize máximo de textos por llamada; catálogos grandes se trocean.
const batchSize = 100

// HTTPService adaptador del servicio de embeddings sobre HTTP.
// Usa net/http de la librería estándar de Go; no requiere SDK.
type HTTPService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewHTTPService construye el adaptador.
// baseURL apunta a la raíz del servicio (ej. "https://api.openai.com/v1").
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewHTTPService(baseURL, apiKey, model string) *HTTPService {
	return &HTTPService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			// Regenerar todo el catálogo puede tardar; timeout generoso por batch.
			Timeout: 60 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo /v1/embeddings ────────────────────────

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// EmbedTexts genera un vector por texto, en el mismo orden de entrada.
// Trocea la entrada en batches para respetar los límites del servicio.
func (s *HTTPService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("embeddings: EMBEDDINGS_BASE_URL no configurado")
	}
	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		result = append(result, batch...)
	}
	return result, nil
}

func (s *HTTPService) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	payload := embeddingsRequest{Model: s.model, Input: texts}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("embeddings: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embeddings: crear HTTP request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("embeddings: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("embeddings: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 32*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("embeddings: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp embeddingsResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("embeddings: error del servicio (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("embeddings: HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var parsed embeddingsResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return nil, fmt.Errorf("embeddings: parsear respuesta: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: el servicio devolvió %d vectores para %d textos", len(parsed.Data), len(texts))
	}

	// El protocolo no garantiza orden: reconstruir por índice.
	vectors := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embeddings: índice fuera de rango: %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
