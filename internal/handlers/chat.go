package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/apperr"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/chat"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/middleware"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/repository"
)

type ChatHandler struct {
	gw            chat.Gateway
	gate          *chat.Gate
	conversations *repository.ConversationRepo
	profiles      *repository.ProfileRepo
	log           *zap.SugaredLogger
}

func NewChatHandler(gw chat.Gateway, gate *chat.Gate, conversations *repository.ConversationRepo, profiles *repository.ProfileRepo, log *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{gw: gw, gate: gate, conversations: conversations, profiles: profiles, log: log}
}

type openConversationReq struct {
	ParticipantID string `json:"participant_id"`
	ItemID        string `json:"item_id"`
}

// OpenConversation finds or creates the conversation between the caller
// and the counterparty.
func (h *ChatHandler) OpenConversation(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	var req openConversationReq
	if err := c.BodyParser(&req); err != nil || req.ParticipantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "participant_id required"})
	}
	if req.ParticipantID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot chat with yourself"})
	}
	conv, err := h.gw.FindConversation(c.Context(), userID, req.ParticipantID, req.ItemID)
	if err != nil {
		conv, err = h.gw.CreateConversation(c.Context(), userID, req.ParticipantID, req.ItemID)
		if err != nil {
			return fail(c, err)
		}
	}
	return c.JSON(conv)
}

func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	convs, err := h.conversations.ListForUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"conversations": convs})
}

func (h *ChatHandler) GetConversation(c *fiber.Ctx) error {
	conv, err := h.loadAuthorized(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(conv)
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	conv, err := h.loadAuthorized(c)
	if err != nil {
		return fail(c, err)
	}
	msgs, err := h.gw.ListMessages(c.Context(), conv.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

type sendMessageReq struct {
	Content string `json:"content"`
}

// SendMessage inserts the message and runs the push decision for the
// recipient. Notification outcomes never affect the response.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	conv, err := h.loadAuthorized(c)
	if err != nil {
		return fail(c, err)
	}
	var req sendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	content := strings.TrimSpace(req.Content)
	if content == "" || len(content) > models.MaxMessageLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content empty or too long"})
	}

	msg, err := h.gw.InsertMessage(c.Context(), conv.ID, userID, content)
	if err != nil {
		return fail(c, err)
	}

	senderName := "Someone"
	if p, perr := h.profiles.Get(c.Context(), userID); perr == nil {
		senderName = p.DisplayName()
	}
	decision := h.gate.Notify(c.Context(), conv, userID, senderName, content)
	h.log.Debugw("send notify", "conversation", conv.ID, "decision", decision.String())

	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	conv, err := h.loadAuthorized(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.gw.MarkRead(c.Context(), conv.ID, middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type presenceReq struct {
	ConversationID string `json:"conversation_id"`
	Active         bool   `json:"active"`
}

// SetPresence writes or clears the caller's active-conversation marker.
func (h *ChatHandler) SetPresence(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	var req presenceReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	var err error
	if req.Active {
		if req.ConversationID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "conversation_id required"})
		}
		err = h.gw.SetActiveConversation(c.Context(), userID, req.ConversationID)
	} else {
		err = h.gw.ClearActiveConversation(c.Context(), userID)
	}
	if err != nil {
		// advisory only
		h.log.Warnw("presence write", "user", userID, "err", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type pushTokenReq struct {
	Token string `json:"token"`
}

func (h *ChatHandler) SavePushToken(c *fiber.Ctx) error {
	var req pushTokenReq
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token required"})
	}
	if err := h.profiles.SavePushToken(c.Context(), middleware.UserID(c), req.Token); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ChatHandler) GetProfile(c *fiber.Ctx) error {
	p, err := h.gw.Profile(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *ChatHandler) GetPushToken(c *fiber.Ctx) error {
	token, err := h.gw.PushToken(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

func (h *ChatHandler) GetPresence(c *fiber.Ctx) error {
	convID, err := h.gw.ActiveConversation(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"conversation_id": convID})
}

type sendPushReq struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// SendPush relays a push request to the provider on behalf of a client
// that cannot talk to it directly.
func (h *ChatHandler) SendPush(c *fiber.Ctx) error {
	var req sendPushReq
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token required"})
	}
	if err := h.gw.SendPush(c.Context(), req.Token, req.Title, req.Body, req.Data); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ChatHandler) loadAuthorized(c *fiber.Ctx) (*models.Conversation, error) {
	conv, err := h.gw.Conversation(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(middleware.UserID(c)) {
		return nil, apperr.ErrPermissionDenied
	}
	return conv, nil
}
