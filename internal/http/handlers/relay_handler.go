// Relay HTTP handlers.
//
// This file exposes the LLM relay surface consumed directly by the public
// site's browser client:
//   - POST    /relay            (chat completion proxy, streaming or buffered)
//   - GET     /relay?endpoint=  (secondary read-only provider passthrough)
//   - OPTIONS /relay            (preflight, 200 empty)
//
// The relay is a byte-preserving proxy: the client's request body reaches the
// upstream verbatim (unless server-side context injection rewrites it, see
// injectContext) and streamed response chunks are forwarded in arrival order
// without re-framing. Credentials never leave the server; the handler only
// adds them on the upstream leg.
//
// Error responses here deliberately keep the legacy `{error, details?}` shape
// instead of the ErrorResponse envelope: the deployed site client branches on
// that shape.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/techiral/go-content-backend/internal/http/middleware"
	"github.com/techiral/go-content-backend/internal/prompt"
	"github.com/techiral/go-content-backend/internal/relay"
	"github.com/techiral/go-content-backend/internal/store"
)

// RelayHandlers groups the proxy endpoints. They bypass the service layer:
// the proxy's contract is transport-level.
type RelayHandlers struct {
	upstream  *relay.Client
	secondary *relay.Secondary
	store     store.Store
}

// NewRelay constructs the relay handlers. store may be nil when context
// injection is not wanted (tests).
func NewRelay(upstream *relay.Client, secondary *relay.Secondary, st store.Store) *RelayHandlers {
	return &RelayHandlers{upstream: upstream, secondary: secondary, store: st}
}

// relayError writes the legacy relay error shape.
func relayError(c *gin.Context, status int, msg, details string) {
	payload := gin.H{"error": msg}
	if details != "" {
		payload["details"] = details
	}
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("error", msg).
			Str("details", details).
			Msg("relay error")
	}
	c.AbortWithStatusJSON(status, payload)
}

// Preflight answers CORS preflight for the relay routes. The CORS middleware
// has already attached the headers by the time this runs.
func (h *RelayHandlers) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

// MethodNotAllowed rejects verbs the relay does not serve.
func (h *RelayHandlers) MethodNotAllowed(c *gin.Context) {
	relayError(c, http.StatusMethodNotAllowed, "Method Not Allowed", "")
}

// Proxy forwards a chat completion request to the configured LLM provider.
//
// The `stream` flag inside the payload selects the response mode: true
// relays the upstream SSE chunks as they arrive; false (or absent) buffers
// the upstream reply and passes its status code through. A missing server
// key fails with 500 before any upstream traffic; failures reaching the
// provider answer 500 too. Upstream HTTP error statuses pass through as-is.
func (h *RelayHandlers) Proxy(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		relayError(c, http.StatusBadRequest, "Unable to read request body", err.Error())
		return
	}

	var flags struct {
		Stream bool `json:"stream"`
	}
	// Malformed JSON is still forwarded; the upstream owns payload validation.
	_ = json.Unmarshal(body, &flags)

	ctx := c.Request.Context()
	body = h.injectContext(c, body)

	resp, err := h.upstream.ChatCompletions(ctx, bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, relay.ErrMissingCredential) {
			middleware.ObserveRelayUpstream("llm", "no_credential")
			relayError(c, http.StatusInternalServerError, "LLM API key is not configured", "")
			return
		}
		// Transport failures answer 500, not 502: the site client only
		// branches on 500 for server-side configuration and network faults.
		middleware.ObserveRelayUpstream("llm", "transport_error")
		var te *relay.TransportError
		if errors.As(err, &te) {
			relayError(c, http.StatusInternalServerError, "Failed to connect to LLM service", te.Error())
			return
		}
		relayError(c, http.StatusInternalServerError, "LLM request failed", err.Error())
		return
	}
	defer resp.Body.Close()
	middleware.ObserveRelayUpstream("llm", strconv.Itoa(resp.StatusCode))

	if flags.Stream && resp.StatusCode == http.StatusOK {
		streamSSE(c, resp.Body)
		return
	}

	passthrough(c, resp)
}

// SecondaryProxy forwards a read-only request to the secondary provider,
// attaching the server-held query credential.
func (h *RelayHandlers) SecondaryProxy(c *gin.Context) {
	endpoint := strings.TrimSpace(c.Query("endpoint"))
	if endpoint == "" {
		relayError(c, http.StatusBadRequest, "endpoint query parameter is required", "")
		return
	}

	query := c.Request.URL.Query()
	query.Del("endpoint")

	resp, err := h.secondary.Get(c.Request.Context(), endpoint, query)
	if err != nil {
		if errors.Is(err, relay.ErrMissingCredential) {
			middleware.ObserveRelayUpstream("secondary", "no_credential")
			relayError(c, http.StatusInternalServerError, "Secondary API key is not configured", "")
			return
		}
		middleware.ObserveRelayUpstream("secondary", "transport_error")
		relayError(c, http.StatusInternalServerError, "Failed to reach secondary provider", err.Error())
		return
	}
	defer resp.Body.Close()
	middleware.ObserveRelayUpstream("secondary", strconv.Itoa(resp.StatusCode))

	passthrough(c, resp)
}

// injectContext implements server-side grounding: when the payload names a
// stored subject, its transcript/content becomes a system instruction
// prepended to the message list. A client-supplied inlineContext string is
// the fallback when no stored subject resolves; the stored material always
// wins over it. The private fields are stripped before the body goes
// upstream. Any shape surprise leaves the body untouched.
func (h *RelayHandlers) injectContext(c *gin.Context, body []byte) []byte {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return body
	}
	subjectID, _ := payload["subjectId"].(string)
	subjectKind, _ := payload["subjectKind"].(string)
	inline, _ := payload["inlineContext"].(string)

	if subjectID == "" || subjectKind == "" || h.store == nil {
		if inline == "" {
			return body
		}
		return prependSystem(payload, body, inline)
	}

	ctx := c.Request.Context()
	var title, material string
	switch subjectKind {
	case "video":
		v, err := h.store.LoadVideo(ctx, subjectID)
		if err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("video_id", subjectID).Msg("relay context subject not found")
			return stripSubject(payload, body)
		}
		title, material = v.Title, v.Transcript
	case "blog":
		b, err := h.store.LoadBlog(ctx, subjectID)
		if err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("blog_id", subjectID).Msg("relay context subject not found")
			return stripSubject(payload, body)
		}
		title, material = b.Title, b.Content
	default:
		return stripSubject(payload, body)
	}

	return prependSystem(payload, body, prompt.ChatSystem(subjectKind, title, material))
}

// prependSystem puts a system instruction at the head of the message list and
// re-encodes the stripped payload.
func prependSystem(payload map[string]any, original []byte, content string) []byte {
	system := map[string]any{
		"role":    "system",
		"content": content,
	}
	if msgs, ok := payload["messages"].([]any); ok {
		payload["messages"] = append([]any{system}, msgs...)
	} else {
		payload["messages"] = []any{system}
	}
	return stripSubject(payload, original)
}

// stripSubject removes the server-private fields and re-encodes the payload.
func stripSubject(payload map[string]any, original []byte) []byte {
	delete(payload, "subjectId")
	delete(payload, "subjectKind")
	delete(payload, "inlineContext")
	out, err := json.Marshal(payload)
	if err != nil {
		return original
	}
	return out
}

// streamSSE relays the upstream event stream chunk by chunk. Each read is
// written and flushed immediately so tokens reach the browser as the model
// produces them. An upstream failure mid-stream just ends the response; the
// status line is already on the wire.
func streamSSE(c *gin.Context, upstream io.Reader) {
	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	buf := make([]byte, 4096)
	for {
		n, err := upstream.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				return
			}
			c.Writer.Flush()
		}
		if err != nil {
			return
		}
	}
}

// passthrough buffers the upstream reply and mirrors its status code.
func passthrough(c *gin.Context, resp *http.Response) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		relayError(c, http.StatusInternalServerError, "Failed to read upstream response", err.Error())
		return
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, body)
}
