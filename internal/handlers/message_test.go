package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-api/internal/middleware"
	"chat-api/internal/mocks"
	"chat-api/internal/models"
	"chat-api/internal/repositories"
)

func setupMessageRouter(handler *MessageHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, "u1")
		c.Next()
	})
	r.POST("/chats/:chat_id/messages", handler.Create)
	r.GET("/chats/:chat_id/messages", handler.List)
	r.GET("/chats/:chat_id/messages/:message_id", handler.Get)
	r.PUT("/chats/:chat_id/messages/:message_id", handler.Update)
	r.DELETE("/chats/:chat_id/messages/:message_id", handler.Delete)
	r.PUT("/chats/:chat_id/messages/:message_id/status", handler.UpdateStatus)
	return r
}

func TestCreateMessageFansOutStatuses(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("IsMember", mock.Anything, "c1", "u1").Return(true, nil).Once()
	messageRepo.On("CreateMessage", mock.Anything, "c1", "u1", "hello", (*string)(nil)).
		Return(models.Message{ID: "m1", ChatID: "c1", SenderID: "u1", Content: "hello"}, nil).Once()
	messageRepo.On("ListStatusViews", mock.Anything, "m1").Return([]models.MessageStatusView{
		{UserID: "u1", Status: models.StatusSeen},
		{UserID: "u2", Status: models.StatusSent},
		{UserID: "u3", Status: models.StatusSent},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/c1/messages", bytes.NewBufferString(`{"content":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var view models.MessageView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	require.Equal(t, "m1", view.ID)
	require.Len(t, view.Statuses, 3)
	require.Equal(t, models.StatusSeen, view.Statuses[0].Status)
	require.Equal(t, models.StatusSent, view.Statuses[1].Status)

	chatRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestCreateMessageHiddenFromNonMember(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("IsMember", mock.Anything, "c1", "u1").Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/c1/messages", bytes.NewBufferString(`{"content":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	messageRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	chatRepo.AssertExpectations(t)
}

func TestCreateMessageMissingAttachment(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil)
	router := setupMessageRouter(handler)

	fileID := "f404"
	chatRepo.On("IsMember", mock.Anything, "c1", "u1").Return(true, nil).Once()
	messageRepo.On("CreateMessage", mock.Anything, "c1", "u1", "see attached", &fileID).
		Return(models.Message{}, repositories.ErrFileNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/c1/messages", bytes.NewBufferString(`{"content":"see attached","file_id":"f404"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestGetMessageFromAnotherChatHidden(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("IsMember", mock.Anything, "c1", "u1").Return(true, nil).Once()
	messageRepo.On("GetMessage", mock.Anything, "m1").
		Return(models.Message{ID: "m1", ChatID: "other", SenderID: "u2"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/c1/messages/m1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestUpdateMessageSenderOnly(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("IsMember", mock.Anything, "c1", "u1").Return(true, nil).Once()
	messageRepo.On("GetMessage", mock.Anything, "m1").
		Return(models.Message{ID: "m1", ChatID: "c1", SenderID: "u2"}, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/chats/c1/messages/m1", bytes.NewBufferString(`{"content":"edited"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	messageRepo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteMessageAdminMayDeleteOthers(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("IsMember", mock.Anything, "c1", "u1").Return(true, nil).Once()
	messageRepo.On("GetMessage", mock.Anything, "m1").
		Return(models.Message{ID: "m1", ChatID: "c1", SenderID: "u2"}, nil).Once()
	chatRepo.On("IsAdmin", mock.Anything, "c1", "u1").Return(true, nil).Once()
	messageRepo.On("DeleteMessage", mock.Anything, "m1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/chats/c1/messages/m1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	chatRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestDeleteMessageNonSenderNonAdminForbidden(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("IsMember", mock.Anything, "c1", "u1").Return(true, nil).Once()
	messageRepo.On("GetMessage", mock.Anything, "m1").
		Return(models.Message{ID: "m1", ChatID: "c1", SenderID: "u2"}, nil).Once()
	chatRepo.On("IsAdmin", mock.Anything, "c1", "u1").Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/chats/c1/messages/m1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	messageRepo.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("IsMember", mock.Anything, "c1", "u1").Return(true, nil).Once()
	messageRepo.On("GetMessage", mock.Anything, "m1").
		Return(models.Message{ID: "m1", ChatID: "c1", SenderID: "u2"}, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/chats/c1/messages/m1/status", bytes.NewBufferString(`{"status":"read"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	messageRepo.AssertNotCalled(t, "UpsertStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatusUpsertsCallerRow(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("IsMember", mock.Anything, "c1", "u1").Return(true, nil).Once()
	messageRepo.On("GetMessage", mock.Anything, "m1").
		Return(models.Message{ID: "m1", ChatID: "c1", SenderID: "u2", Content: "hi"}, nil).Once()
	messageRepo.On("UpsertStatus", mock.Anything, "m1", "u1", models.StatusSeen).
		Return(models.MessageStatus{MessageID: "m1", UserID: "u1", Status: models.StatusSeen}, nil).Once()
	messageRepo.On("ListStatusViews", mock.Anything, "m1").Return([]models.MessageStatusView{
		{UserID: "u1", Status: models.StatusSeen},
		{UserID: "u2", Status: models.StatusSeen},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/chats/c1/messages/m1/status", bytes.NewBufferString(`{"status":"seen"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view models.MessageView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	require.Len(t, view.Statuses, 2)

	messageRepo.AssertExpectations(t)
}

func TestListMessagesPaginationWindow(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("IsMember", mock.Anything, "c1", "u1").Return(true, nil).Once()
	messageRepo.On("ListMessages", mock.Anything, "c1", 5, 2).
		Return([]models.Message{{ID: "m2", ChatID: "c1"}, {ID: "m1", ChatID: "c1"}}, nil).Once()
	messageRepo.On("ListStatusViews", mock.Anything, "m2").Return([]models.MessageStatusView{}, nil).Once()
	messageRepo.On("ListStatusViews", mock.Anything, "m1").Return([]models.MessageStatusView{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/c1/messages?skip=5&limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var views []models.MessageView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
	require.Len(t, views, 2)

	messageRepo.AssertExpectations(t)
}
