package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// chatModel and chatMaxTokens pin the upstream completion request; the
// caller supplies only the conversation and their own API key.
const (
	chatModel     = "gpt-4o-mini"
	chatMaxTokens = 1000
)

// ChatHandler relays a conversation to the OpenAI chat completions API
// and hands back just the assistant's reply. The server holds no API
// key; each request carries the caller's own.
type ChatHandler struct {
	client  *http.Client
	baseURL string
}

func NewChatHandler(baseURL string) *ChatHandler {
	return &ChatHandler{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1"`
	APIKey   string        `json:"apiKey" binding:"required"`
}

type completionRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat proxies the conversation upstream. Upstream errors keep their
// status code; an unreachable or garbled upstream is a 502.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Messages and API key are required"})
		return
	}

	body, err := json.Marshal(completionRequest{
		Model:     chatModel,
		Messages:  req.Messages,
		MaxTokens: chatMaxTokens,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build upstream request"})
		return
	}

	upstreamReq, err := http.NewRequestWithContext(
		c.Request.Context(),
		http.MethodPost,
		h.baseURL+"/v1/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build upstream request"})
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	upstreamReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := h.client.Do(upstreamReq)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to connect to OpenAI API"})
		return
	}
	defer resp.Body.Close()

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Invalid response from OpenAI API"})
		return
	}

	if resp.StatusCode != http.StatusOK {
		message := "OpenAI API error"
		if completion.Error != nil && completion.Error.Message != "" {
			message = completion.Error.Message
		}
		c.JSON(resp.StatusCode, gin.H{"error": message})
		return
	}

	var message string
	if len(completion.Choices) > 0 {
		message = completion.Choices[0].Message.Content
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
