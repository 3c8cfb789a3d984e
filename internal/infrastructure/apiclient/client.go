// Package apiclient es el adaptador HTTP hacia el backend REST de horarios.
// Usa net/http de la librería estándar; el backend es JSON plano sin SDK propio.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/pkg/logger"
)

// maxBodyBytes limita lo que se lee de una respuesta.
const maxBodyBytes = 4 << 20

// TokenSource entrega el token bearer vigente. *session.Store lo implementa.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Observer recibe una observación por cada llamada al backend (métricas).
type Observer interface {
	ObserveBackendRequest(method, resource string, status int, elapsed time.Duration)
}

// Options configura el cliente.
type Options struct {
	BaseURL string
	// Timeout por petición; 0 deja el comportamiento por defecto del transporte.
	Timeout time.Duration
	Tokens  TokenSource
	// OnRejected se invoca ante cualquier 401, venga del endpoint que venga.
	OnRejected func(ctx context.Context)
	Observer   Observer
	Log        *logger.Logger
	// HTTPClient opcional (tests).
	HTTPClient *http.Client
}

// Client realiza las peticiones JSON: agrega Accept/Content-Type, el bearer cuando hay token y
// un X-Request-ID por petición, y traduce las respuestas no 2xx a errores de dominio.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	onRejected func(ctx context.Context)
	observer   Observer
	log        *logger.Logger
}

// New construye el cliente.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient: hc,
		tokens:     opts.Tokens,
		onRejected: opts.OnRejected,
		observer:   opts.Observer,
		log:        log.Component("apiclient"),
	}
}

// BaseURL devuelve la URL base configurada.
func (c *Client) BaseURL() string { return c.baseURL }

// request describe una llamada.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// anonymous omite el bearer (login).
	anonymous bool
}

// errorBody es la forma de error que devuelve el backend.
type errorBody struct {
	Message string                     `json:"message"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

// do ejecuta la petición y devuelve el cuerpo crudo de una respuesta 2xx.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	var reader io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("apiclient: serializar request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("apiclient: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))
	if !r.anonymous && c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r, 0, start)
		if ctx.Err() != nil {
			return nil, fmt.Errorf("apiclient: %s %s: timeout o cancelación: %w", r.method, r.path, ctx.Err())
		}
		return nil, fmt.Errorf("apiclient: %s %s: llamada HTTP fallida: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()
	c.observe(r, resp.StatusCode, start)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("apiclient: leer respuesta: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	var eb errorBody
	_ = json.Unmarshal(raw, &eb)

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Ctx(ctx).Info().Str("method", r.method).Str("path", r.path).Msg("backend rechazó la credencial")
		if c.onRejected != nil {
			c.onRejected(ctx)
		}
	}

	if len(eb.Errors) > 0 && resp.StatusCode != http.StatusUnauthorized {
		return nil, &domain.ValidationError{Message: eb.Message, Fields: fieldErrors(eb.Errors)}
	}
	return nil, &domain.HTTPError{Method: r.method, Path: r.path, Status: resp.StatusCode, Message: eb.Message}
}

// requestID reutiliza el id de correlación de la petición del shell; si no hay, genera uno.
func requestID(ctx context.Context) string {
	if id := logger.RequestID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func (c *Client) observe(r request, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveBackendRequest(r.method, resourceOf(r.path), status, time.Since(start))
}

// resourceOf devuelve el primer segmento de la ruta ("/aulas/3" → "aulas").
func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}

// fieldErrors acepta {"campo": ["m1","m2"]} o {"campo": "m1"}.
func fieldErrors(in map[string]json.RawMessage) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, raw := range in {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			out[k] = list
			continue
		}
		var one string
		if err := json.Unmarshal(raw, &one); err == nil {
			out[k] = []string{one}
			continue
		}
		out[k] = []string{string(raw)}
	}
	return out
}

// decodeObject decodifica un objeto JSON conservando los números como json.Number.
// Un cuerpo vacío equivale a un objeto vacío.
func decodeObject(raw []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// nullData indica si raw es un objeto con la clave "data" presente y en null.
func nullData(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return false
	}
	d, ok := env["data"]
	if !ok {
		return false
	}
	d = bytes.TrimSpace(d)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}

// unwrapData devuelve body.data si existe y no es null; si no, el cuerpo completo.
func unwrapData(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return trimmed
	}
	if d := bytes.TrimSpace(env.Data); len(d) > 0 && !bytes.Equal(d, []byte("null")) {
		return d
	}
	return trimmed
}
