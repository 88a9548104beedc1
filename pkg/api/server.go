// Package api exposes the HTTP surface: the Meta webhook endpoints, the
// signed file links and a health probe.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"subastabot/config"
	"subastabot/pkg/filestore"
	"subastabot/pkg/logger"
	"subastabot/pkg/whatsapp"
)

// InboundHandler is the slice of the bot the webhook needs.
type InboundHandler interface {
	HandleInbound(ctx context.Context, m *whatsapp.InboundMessage) error
}

type Server struct {
	cfg   *config.Config
	log   logger.ILogger
	bot   InboundHandler
	files filestore.IFileStore
}

func NewServer(cfg *config.Config, bot InboundHandler, files filestore.IFileStore, log logger.ILogger) *Server {
	return &Server{
		cfg:   cfg,
		log:   log,
		bot:   bot,
		files: files,
	}
}

// Router wires the routes on a fresh engine. gin.Default middleware is
// replaced so request logging goes through the shared logger.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/webhook", s.verifyWebhook)
	router.POST("/webhook", s.receiveWebhook)
	router.GET("/files", s.serveFile)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// verifyWebhook answers Meta's subscription handshake: echo hub.challenge
// when the verify token matches.
func (s *Server) verifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == s.cfg.WhatsAppVerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}

	s.log.Warning("webhook verification rejected", logger.String("mode", mode))
	c.Status(http.StatusForbidden)
}

// receiveWebhook always acknowledges with 200: Meta retries non-2xx
// deliveries, and a retried message would re-run the same state transition.
func (s *Server) receiveWebhook(c *gin.Context) {
	var payload whatsapp.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.log.Error("malformed webhook payload", logger.Error(err))
		c.Status(http.StatusOK)
		return
	}

	for _, status := range payload.Statuses() {
		s.log.Info("delivery receipt",
			logger.String("message_id", status.ID),
			logger.String("status", status.Status),
			logger.String("recipient", status.RecipientID))
	}

	for _, m := range payload.Messages() {
		msg := m
		if err := s.bot.HandleInbound(c.Request.Context(), &msg); err != nil {
			s.log.Error("failed to handle inbound message",
				logger.Error(err), logger.String("from", msg.From))
		}
	}

	c.Status(http.StatusOK)
}

func (s *Server) serveFile(c *gin.Context) {
	path := c.Query("path")
	sig := c.Query("sig")
	exp, err := strconv.ParseInt(c.Query("exp"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiry"})
		return
	}

	if err := s.files.Verify(path, exp, sig); err != nil {
		s.log.Warning("rejected file link", logger.Error(err), logger.String("path", path))
		c.JSON(http.StatusForbidden, gin.H{"error": "link is not valid"})
		return
	}

	data, err := s.files.Read(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.Data(http.StatusOK, "application/pdf", data)
}
