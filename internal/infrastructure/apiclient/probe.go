package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProbeEndpoint es un endpoint a sondear.
type ProbeEndpoint struct {
	Method string
	Path   string
	Body   any
}

// ProbeResult resultado de sondear un endpoint.
type ProbeResult struct {
	Method      string
	Path        string
	Status      int
	ContentType string
	IsJSON      bool
	Err         error
}

// DefaultProbeEndpoints son los endpoints que consume el shell. El login usa credenciales de
// prueba: se espera un 401 en JSON.
func DefaultProbeEndpoints() []ProbeEndpoint {
	return []ProbeEndpoint{
		{Method: http.MethodPost, Path: "/login", Body: map[string]string{"correo": "probe@example.com", "contraseña": "probe"}},
		{Method: http.MethodPost, Path: "/logout"},
		{Method: http.MethodGet, Path: "/me"},
		{Method: http.MethodGet, Path: "/aulas"},
		{Method: http.MethodGet, Path: "/materias"},
		{Method: http.MethodGet, Path: "/grupos"},
		{Method: http.MethodGet, Path: "/horarios"},
		{Method: http.MethodGet, Path: "/docentes"},
		{Method: http.MethodGet, Path: "/gestiones"},
	}
}

// Prober sondea el backend sin sesión, para saber qué endpoints responden JSON y cuáles
// devuelven HTML u otra cosa.
type Prober struct {
	baseURL    string
	httpClient *http.Client
	// Delay entre peticiones para no saturar backends de desarrollo.
	Delay time.Duration
}

// NewProber construye el sondeador. hc puede ser nil.
func NewProber(baseURL string, hc *http.Client) *Prober {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Prober{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: hc, Delay: 120 * time.Millisecond}
}

// Probe sondea los endpoints en orden. onResult, si no es nil, se llama tras cada uno.
func (p *Prober) Probe(ctx context.Context, endpoints []ProbeEndpoint, onResult func(ProbeResult)) []ProbeResult {
	out := make([]ProbeResult, 0, len(endpoints))
	for i, ep := range endpoints {
		if i > 0 && p.Delay > 0 {
			select {
			case <-ctx.Done():
				return out
			case <-time.After(p.Delay):
			}
		}
		r := p.probeOne(ctx, ep)
		out = append(out, r)
		if onResult != nil {
			onResult(r)
		}
	}
	return out
}

func (p *Prober) probeOne(ctx context.Context, ep ProbeEndpoint) ProbeResult {
	res := ProbeResult{Method: ep.Method, Path: ep.Path}

	var reader io.Reader
	if ep.Body != nil {
		b, err := json.Marshal(ep.Body)
		if err != nil {
			res.Err = err
			return res
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, ep.Method, p.baseURL+ep.Path, reader)
	if err != nil {
		res.Err = err
		return res
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if ep.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	res.Status = resp.StatusCode
	res.ContentType = resp.Header.Get("Content-Type")
	text := strings.TrimSpace(string(raw))
	res.IsJSON = strings.Contains(res.ContentType, "application/json") ||
		strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[")
	return res
}

// MediaType devuelve el tipo de contenido sin parámetros ("text/html; charset=..." → "text/html").
func (r ProbeResult) MediaType() string {
	mt, _, _ := strings.Cut(r.ContentType, ";")
	return strings.TrimSpace(mt)
}
