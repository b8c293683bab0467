package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chatgridhq/chatgrid/internal/webhook"
	"github.com/chatgridhq/chatgrid/internal/whatsapp"
)

const signatureHeader = "X-Hub-Signature-256"

// WebhookHandler terminates the WhatsApp webhook: the GET verification
// handshake and POST event deliveries.
type WebhookHandler struct {
	processor   *webhook.Processor
	verifyToken string
	appSecret   string
	logger      *slog.Logger
}

func NewWebhookHandler(log *slog.Logger, processor *webhook.Processor, verifyToken, appSecret string) *WebhookHandler {
	return &WebhookHandler{
		processor:   processor,
		verifyToken: verifyToken,
		appSecret:   appSecret,
		logger:      log.With(slog.String("handler", "webhook")),
	}
}

func (h *WebhookHandler) Register(e *echo.Echo) {
	e.GET("/webhooks/whatsapp", h.Verify)
	e.POST("/webhooks/whatsapp", h.Receive)
}

// Verify answers the provider's subscription handshake by echoing the
// challenge back when the verify token matches.
func (h *WebhookHandler) Verify(c echo.Context) error {
	mode := c.QueryParam("hub.mode")
	token := c.QueryParam("hub.verify_token")
	challenge := c.QueryParam("hub.challenge")

	if mode != "subscribe" || token != h.verifyToken {
		h.logger.Warn("webhook verification rejected", slog.String("mode", mode))
		return echo.NewHTTPError(http.StatusForbidden, "verification failed")
	}
	return c.String(http.StatusOK, challenge)
}

// Receive accepts one webhook delivery. Parseable payloads are always
// acknowledged with 200 so the provider does not redeliver events we
// chose to drop; only malformed JSON or a bad signature is refused.
func (h *WebhookHandler) Receive(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	if h.appSecret != "" {
		if !h.validSignature(c.Request().Header.Get(signatureHeader), body) {
			h.logger.Warn("webhook signature mismatch")
			return echo.NewHTTPError(http.StatusForbidden, "invalid signature")
		}
	}

	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Warn("malformed webhook payload", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusBadRequest, "malformed payload")
	}

	h.processor.Process(c.Request().Context(), payload)
	return c.JSON(http.StatusOK, map[string]string{"status": "received"})
}

func (h *WebhookHandler) validSignature(signature string, body []byte) bool {
	signature = strings.TrimPrefix(signature, "sha256=")
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
