package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chat-api/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, username, email, fullName, hashedPassword string) (models.User, error) {
	args := m.Called(ctx, username, email, fullName, hashedPassword)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	args := m.Called(ctx, skip, limit)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, id string, fullName, email, profilePicture *string) (models.User, error) {
	args := m.Called(ctx, id, fullName, email, profilePicture)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type APIKeyRepositoryMock struct {
	mock.Mock
}

func (m *APIKeyRepositoryMock) CreateKey(ctx context.Context, userID, name string) (models.APIKey, error) {
	args := m.Called(ctx, userID, name)
	var key models.APIKey
	if val := args.Get(0); val != nil {
		key = val.(models.APIKey)
	}
	return key, args.Error(1)
}

func (m *APIKeyRepositoryMock) ListKeys(ctx context.Context, userID string) ([]models.APIKey, error) {
	args := m.Called(ctx, userID)
	var keys []models.APIKey
	if val := args.Get(0); val != nil {
		keys = val.([]models.APIKey)
	}
	return keys, args.Error(1)
}

func (m *APIKeyRepositoryMock) DeleteKey(ctx context.Context, keyID, userID string) error {
	args := m.Called(ctx, keyID, userID)
	return args.Error(0)
}

func (m *APIKeyRepositoryMock) GetActiveByKey(ctx context.Context, key string) (models.APIKey, error) {
	args := m.Called(ctx, key)
	var apiKey models.APIKey
	if val := args.Get(0); val != nil {
		apiKey = val.(models.APIKey)
	}
	return apiKey, args.Error(1)
}

func (m *APIKeyRepositoryMock) TouchLastUsed(ctx context.Context, keyID string) error {
	args := m.Called(ctx, keyID)
	return args.Error(0)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) CreateChat(ctx context.Context, requesterID string, name *string, isGroup bool, memberIDs []string) (models.Chat, error) {
	args := m.Called(ctx, requesterID, name, isGroup, memberIDs)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID string) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	args := m.Called(ctx, userID)
	var chats []models.Chat
	if val := args.Get(0); val != nil {
		chats = val.([]models.Chat)
	}
	return chats, args.Error(1)
}

func (m *ChatRepositoryMock) UpdateChatName(ctx context.Context, chatID, name string) (models.Chat, error) {
	args := m.Called(ctx, chatID, name)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) DeleteChat(ctx context.Context, chatID string) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) AddMember(ctx context.Context, chatID, userID string) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) RemoveMember(ctx context.Context, chatID, userID string) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) IsAdmin(ctx context.Context, chatID, userID string) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) ListMemberViews(ctx context.Context, chatID string) ([]models.ChatMemberView, error) {
	args := m.Called(ctx, chatID)
	var members []models.ChatMemberView
	if val := args.Get(0); val != nil {
		members = val.([]models.ChatMemberView)
	}
	return members, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, chatID, senderID, content string, fileID *string) (models.Message, error) {
	args := m.Called(ctx, chatID, senderID, content, fileID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, chatID string, skip, limit int) ([]models.Message, error) {
	args := m.Called(ctx, chatID, skip, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID string) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetLastMessage(ctx context.Context, chatID string) (*models.Message, error) {
	args := m.Called(ctx, chatID)
	var msg *models.Message
	if val := args.Get(0); val != nil {
		msg = val.(*models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) UpdateContent(ctx context.Context, messageID, content string) (models.Message, error) {
	args := m.Called(ctx, messageID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) DeleteMessage(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) UpsertStatus(ctx context.Context, messageID, userID, status string) (models.MessageStatus, error) {
	args := m.Called(ctx, messageID, userID, status)
	var row models.MessageStatus
	if val := args.Get(0); val != nil {
		row = val.(models.MessageStatus)
	}
	return row, args.Error(1)
}

func (m *MessageRepositoryMock) ListStatusViews(ctx context.Context, messageID string) ([]models.MessageStatusView, error) {
	args := m.Called(ctx, messageID)
	var statuses []models.MessageStatusView
	if val := args.Get(0); val != nil {
		statuses = val.([]models.MessageStatusView)
	}
	return statuses, args.Error(1)
}

type FileRepositoryMock struct {
	mock.Mock
}

func (m *FileRepositoryMock) CreateFile(ctx context.Context, filename, contentType string, data []byte, uploadedBy string) (models.File, error) {
	args := m.Called(ctx, filename, contentType, data, uploadedBy)
	var file models.File
	if val := args.Get(0); val != nil {
		file = val.(models.File)
	}
	return file, args.Error(1)
}

func (m *FileRepositoryMock) GetFile(ctx context.Context, fileID string) (models.File, error) {
	args := m.Called(ctx, fileID)
	var file models.File
	if val := args.Get(0); val != nil {
		file = val.(models.File)
	}
	return file, args.Error(1)
}

func (m *FileRepositoryMock) ListFiles(ctx context.Context, skip, limit int) ([]models.File, error) {
	args := m.Called(ctx, skip, limit)
	var files []models.File
	if val := args.Get(0); val != nil {
		files = val.([]models.File)
	}
	return files, args.Error(1)
}

func (m *FileRepositoryMock) DeleteFile(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}
