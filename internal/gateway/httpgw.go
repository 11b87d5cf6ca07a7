package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/apperr"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/chat"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

// HTTPClient is the remote edge of a chat session: it implements
// chat.Gateway over the REST and websocket surface served by
// internal/server, so terminal clients reuse the same session core as
// the backend.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.SugaredLogger
}

var _ chat.Gateway = (*HTTPClient)(nil)

func NewHTTPClient(baseURL, bearerToken string, log *zap.SugaredLogger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   bearerToken,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

func (g *HTTPClient) Conversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := g.do(ctx, http.MethodGet, "/v1/conversations/"+id, nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindConversation maps to the server's find-or-create endpoint, so it
// never reports a missing conversation.
func (g *HTTPClient) FindConversation(ctx context.Context, a, b, itemID string) (*models.Conversation, error) {
	body := map[string]string{"participant_id": b, "item_id": itemID}
	var conv models.Conversation
	if err := g.do(ctx, http.MethodPost, "/v1/conversations", body, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (g *HTTPClient) CreateConversation(ctx context.Context, buyerID, sellerID, itemID string) (*models.Conversation, error) {
	return g.FindConversation(ctx, buyerID, sellerID, itemID)
}

func (g *HTTPClient) InsertMessage(ctx context.Context, convID, senderID, content string) (*models.Message, error) {
	var msg models.Message
	body := map[string]string{"content": content}
	if err := g.do(ctx, http.MethodPost, "/v1/conversations/"+convID+"/messages", body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (g *HTTPClient) ListMessages(ctx context.Context, convID string) ([]*models.Message, error) {
	var out struct {
		Messages []*models.Message `json:"messages"`
	}
	if err := g.do(ctx, http.MethodGet, "/v1/conversations/"+convID+"/messages", nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (g *HTTPClient) MarkRead(ctx context.Context, convID, readerID string) error {
	return g.do(ctx, http.MethodPost, "/v1/conversations/"+convID+"/read", nil, nil)
}

func (g *HTTPClient) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	if err := g.do(ctx, http.MethodGet, "/v1/profiles/"+userID, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *HTTPClient) PushToken(ctx context.Context, userID string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := g.do(ctx, http.MethodGet, "/v1/profiles/"+userID+"/push-token", nil, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (g *HTTPClient) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	req := map[string]any{"token": token, "title": title, "body": body, "data": data}
	return g.do(ctx, http.MethodPost, "/v1/push", req, nil)
}

func (g *HTTPClient) ActiveConversation(ctx context.Context, userID string) (string, error) {
	var out struct {
		ConversationID string `json:"conversation_id"`
	}
	if err := g.do(ctx, http.MethodGet, "/v1/presence/"+userID, nil, &out); err != nil {
		return "", err
	}
	return out.ConversationID, nil
}

func (g *HTTPClient) SetActiveConversation(ctx context.Context, userID, convID string) error {
	body := map[string]any{"conversation_id": convID, "active": true}
	return g.do(ctx, http.MethodPut, "/v1/presence", body, nil)
}

func (g *HTTPClient) ClearActiveConversation(ctx context.Context, userID string) error {
	body := map[string]any{"active": false}
	return g.do(ctx, http.MethodPut, "/v1/presence", body, nil)
}

// Subscribe dials the conversation's websocket feed and pumps message
// frames into fn until Unsubscribe or a read error.
func (g *HTTPClient) Subscribe(convID string, fn func(models.Message)) (chat.Subscription, error) {
	ctx, cancel := context.WithCancel(context.Background())

	wsURL := strings.Replace(g.baseURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL += "/v1/ws?conversation_id=" + convID

	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dialCancel()
	conn, _, err := websocket.Dial(dialCtx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + g.token}},
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	sub := &wsSubscription{conn: conn, cancel: cancel}
	go g.readLoop(ctx, conn, fn)
	return sub, nil
}

func (g *HTTPClient) readLoop(ctx context.Context, conn *websocket.Conn, fn func(models.Message)) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				g.log.Warnw("realtime read", "err", err)
			}
			return
		}
		var env struct {
			Type string         `json:"type"`
			Data models.Message `json:"data"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			g.log.Warnw("realtime frame decode", "err", err)
			continue
		}
		if env.Type == "message" {
			fn(env.Data)
		}
	}
}

type wsSubscription struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	once   sync.Once
}

func (s *wsSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		_ = s.conn.Close(websocket.StatusNormalClosure, "unsubscribe")
	})
}

func (g *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	detail := payload.Error
	if detail == "" {
		detail = resp.Status
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", apperr.ErrNotAuthenticated, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, detail)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", apperr.ErrPermissionDenied, detail)
	default:
		return fmt.Errorf("server: %s (%d)", detail, resp.StatusCode)
	}
}
