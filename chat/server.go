package chat

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// Route is where the persona answers.
const Route = "/api/chat-ethan"

// FailureReply is sent, in character, when the model call fails.
const FailureReply = "Something went wrong in my workshop. Give me a sec to rewire this thing! 🔧"

type Server struct {
	persona   string
	completer Completer
	logger    *log.Logger
}

// NewServer answers as persona through completer. A nil completer means no
// API key was configured; every chat request then fails with a 500.
func NewServer(persona string, completer Completer, logger *log.Logger) *Server {
	return &Server{persona: persona, completer: completer, logger: logger}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), cors)
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.OPTIONS(Route, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST(Route, s.Chat)
	return r
}

// cors lets the chat be embedded in pages served from any origin.
func cors(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	c.Next()
}

type ChatRequest struct {
	Message string `json:"message"`
}

func (s *Server) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if s.completer == nil {
		s.logger.Error("OpenAI API key not found")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API configuration error"})
		return
	}

	reply, err := s.completer.Complete(c.Request.Context(), s.persona, req.Message)
	if err != nil {
		s.logger.Error("chat completion failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": FailureReply})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
