package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/Darkweeb21/Friday/internal/display"
	"github.com/Darkweeb21/Friday/internal/speech"
	"github.com/gin-gonic/gin"
)

// Handler exposes the assistant's runtime state over HTTP. The display
// files stay the source of truth; the handlers only read and flip them.
type Handler struct {
	display    *display.Store
	recognizer *speech.ChannelRecognizer
	feed       *speech.Feed
}

// NewHandler creates the HTTP surface around the shared display store
// and the utterance queue.
func NewHandler(store *display.Store, recognizer *speech.ChannelRecognizer) *Handler {
	return &Handler{
		display:    store,
		recognizer: recognizer,
		feed:       speech.NewFeed(recognizer),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// GetStatus returns the assistant's current cycle status.
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": h.display.Status(),
	})
}

// GetResponse returns the text currently shown on the chat screen.
func (h *Handler) GetResponse(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"response": h.display.Response(),
		"backlog":  h.display.Backlog(),
	})
}

// GetMicrophone reports the microphone flag.
func (h *Handler) GetMicrophone(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"enabled": h.display.Microphone(),
	})
}

// SetMicrophone flips the microphone flag; the orchestrator's idle loop
// picks the change up on its next poll.
func (h *Handler) SetMicrophone(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "enabled flag is required",
		})
		return
	}

	if err := h.display.SetMicrophone(*req.Enabled); err != nil {
		log.Printf("Failed to set microphone flag: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to persist microphone flag",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"enabled": *req.Enabled,
	})
}

// TextInteraction queues a typed utterance for the next cycle.
func (h *Handler) TextInteraction(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "text is required",
		})
		return
	}

	if !h.recognizer.Submit(req.Text) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   "utterance queue is full",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// SpeechSocket upgrades to the websocket utterance stream used by the
// browser capture page.
func (h *Handler) SpeechSocket(c *gin.Context) {
	h.feed.Serve(c.Writer, c.Request)
}

// Register wires every route onto the engine.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/status", h.GetStatus)
		api.GET("/response", h.GetResponse)
		api.GET("/microphone", h.GetMicrophone)
		api.POST("/microphone", h.SetMicrophone)
		api.POST("/text", h.TextInteraction)
	}
	r.GET("/ws/speech", h.SpeechSocket)
}
