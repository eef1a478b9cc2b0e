// Package notifier talks to the Telegram Bot API: sending and deleting
// messages, uploading documents, membership queries, and receiving updates
// via webhook or long polling.
package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client calls the Telegram Bot API.
type Client struct {
	BotToken string
	HTTP     *http.Client
	baseURL  string
}

// NewClient creates a client with optional proxy support.
func NewClient(botToken, proxyURL string) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		BotToken: botToken,
		HTTP: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		baseURL: "https://api.telegram.org",
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) call(method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	apiURL := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.BotToken, method)
	resp, err := c.HTTP.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}
	var r apiResponse
	if err := json.Unmarshal(respBody, &r); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if !r.OK {
		return fmt.Errorf("telegram API error: %s: status %d, %s", method, resp.StatusCode, r.Description)
	}
	if out != nil {
		if err := json.Unmarshal(r.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
	}
	return nil
}

// SendMessage sends a Markdown message with an optional inline keyboard and
// returns the sent message's id.
func (c *Client) SendMessage(chatID int64, text string, markup *InlineKeyboardMarkup) (int, error) {
	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	var msg Message
	if err := c.call("sendMessage", payload, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// DeleteMessage removes a previously sent bot message.
func (c *Client) DeleteMessage(chatID int64, messageID int) error {
	return c.call("deleteMessage", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	}, nil)
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing a progress indicator.
func (c *Client) AnswerCallbackQuery(callbackID string) error {
	return c.call("answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	}, nil)
}

// SetWebhook points Telegram at the bot's update endpoint.
func (c *Client) SetWebhook(url string) error {
	return c.call("setWebhook", map[string]any{"url": url}, nil)
}

// DeleteWebhook removes a previously registered webhook. Required before
// long polling, as Telegram rejects getUpdates while a webhook is active.
func (c *Client) DeleteWebhook() error {
	return c.call("deleteWebhook", map[string]any{}, nil)
}

// GetChatMember returns the member's status in the chat ("administrator",
// "creator", "member", ...).
func (c *Client) GetChatMember(chatID, userID int64) (string, error) {
	var member struct {
		Status string `json:"status"`
	}
	err := c.call("getChatMember", map[string]any{
		"chat_id": chatID,
		"user_id": userID,
	}, &member)
	if err != nil {
		return "", err
	}
	return member.Status, nil
}

// SendDocument uploads a file as a document message.
func (c *Client) SendDocument(chatID int64, filename string, data []byte, caption string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("sendDocument: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("sendDocument: %w", err)
		}
	}
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("sendDocument: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("sendDocument: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("sendDocument: %w", err)
	}

	apiURL := fmt.Sprintf("%s/bot%s/sendDocument", c.baseURL, c.BotToken)
	resp, err := c.HTTP.Post(apiURL, w.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("sendDocument: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: sendDocument: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
