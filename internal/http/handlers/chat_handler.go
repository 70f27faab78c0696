// Chat HTTP handlers.
//
// This file exposes REST endpoints for chat sessions:
//   - POST   /chat/sessions                 (open a session for a video/blog)
//   - GET    /chat/sessions/{id}/messages   (turn history)
//   - POST   /chat/sessions/{id}/messages   (send a message)
//   - DELETE /chat/sessions/{id}            (end the session)
//
// Sessions live in process memory; a restart loses them and clients are
// expected to open a new one.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techiral/go-content-backend/internal/domain"
	"github.com/techiral/go-content-backend/internal/services"
	"github.com/techiral/go-content-backend/internal/store"
)

// CreateSessionRequest is the JSON payload for opening a chat session.
type CreateSessionRequest struct {
	// SubjectKind selects the entity type: "video" or "blog".
	SubjectKind string `json:"subjectKind" binding:"required"`
	// SubjectID identifies the video or blog the conversation is about.
	SubjectID string `json:"subjectId" binding:"required"`
}

// SendMessageRequest is the JSON payload for one chat message.
type SendMessageRequest struct {
	// Text is the user's message.
	Text string `json:"text" binding:"required"`
}

// SessionMessagesResponse wraps a session's turn history.
type SessionMessagesResponse struct {
	SessionID string            `json:"session_id"`
	Title     string            `json:"title,omitempty"`
	Turns     []domain.ChatTurn `json:"turns"`
}

// CreateSession godoc
// @ID          createChatSession
// @Summary     Open a chat session
// @Description Opens a conversation grounded in one video's transcript or one
// @Description blog's content. The subject must already exist.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateSessionRequest  true  "Session subject"
//
// @Success     201  {object}  domain.ChatSession
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Subject not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /chat/sessions [post]
func (h *Handlers) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "subjectKind and subjectId are required")
		return
	}

	sess, err := h.chatSvc.Create(c.Request.Context(), req.SubjectKind, req.SubjectID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownSubject):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "subject not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeChatFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, sess)
}

// ListSessionMessages godoc
// @ID          listChatSessionMessages
// @Summary     Fetch a session's turn history
// @Tags        Chat
// @Produce     json
//
// @Param       id  path  string  true  "Session ID (UUID)"
//
// @Success     200  {object}  handlers.SessionMessagesResponse
// @Failure     404  {object}  handlers.ErrorResponse "Session not found"
// @Router      /chat/sessions/{id}/messages [get]
func (h *Handlers) ListSessionMessages(c *gin.Context) {
	sess, err := h.chatSvc.Get(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "chat session not found")
		return
	}
	ok(c, http.StatusOK, SessionMessagesResponse{SessionID: sess.ID, Title: sess.Title, Turns: sess.Turns})
}

// SendMessage godoc
// @ID          sendChatMessage
// @Summary     Send a chat message
// @Description Appends the user's turn and returns the assistant's reply
// @Description turn. While a reply is pending, further sends on the same
// @Description session are rejected with 409.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Session ID (UUID)"
// @Param       body  body  handlers.SendMessageRequest  true  "Message"
//
// @Success     200  {object}  domain.ChatTurn
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Session not found"
// @Failure     409  {object}  handlers.ErrorResponse "Reply already in flight"
// @Router      /chat/sessions/{id}/messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text is required")
		return
	}

	turn, err := h.chatSvc.Send(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat session not found")
		case errors.Is(err, services.ErrBusy):
			fail(c, http.StatusConflict, ErrCodeConflict, "a reply is already in flight for this session")
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text is required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeChatFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, turn)
}

// EndSession godoc
// @ID          endChatSession
// @Summary     End a chat session
// @Tags        Chat
//
// @Param       id  path  string  true  "Session ID (UUID)"
//
// @Success     204  {string}  string "No Content"
// @Failure     404  {object}  handlers.ErrorResponse "Session not found"
// @Router      /chat/sessions/{id} [delete]
func (h *Handlers) EndSession(c *gin.Context) {
	if err := h.chatSvc.End(c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "chat session not found")
		return
	}
	noContent(c)
}
