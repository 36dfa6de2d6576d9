package handlers

import (
	"context"

	"chat-api/internal/models"
	"chat-api/internal/repositories"
)

// buildMessageView assembles a message with every status row.
func buildMessageView(ctx context.Context, messageRepo repositories.MessageRepository, msg models.Message) (models.MessageView, error) {
	statuses, err := messageRepo.ListStatusViews(ctx, msg.ID)
	if err != nil {
		return models.MessageView{}, err
	}
	return models.MessageView{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		FileID:    msg.FileID,
		CreatedAt: msg.CreatedAt,
		UpdatedAt: msg.UpdatedAt,
		Statuses:  statuses,
	}, nil
}

// buildChatView assembles a chat with its roster and most recent message.
// Each call re-reads the underlying rows, so list responses reflect the
// state at assembly time per item rather than a cross-item snapshot.
func buildChatView(ctx context.Context, chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, chat models.Chat) (models.ChatView, error) {
	members, err := chatRepo.ListMemberViews(ctx, chat.ID)
	if err != nil {
		return models.ChatView{}, err
	}

	view := models.ChatView{
		ID:        chat.ID,
		Name:      chat.Name,
		IsGroup:   chat.IsGroup,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
		Members:   members,
	}

	last, err := messageRepo.GetLastMessage(ctx, chat.ID)
	if err != nil {
		return models.ChatView{}, err
	}
	if last != nil {
		lastView, err := buildMessageView(ctx, messageRepo, *last)
		if err != nil {
			return models.ChatView{}, err
		}
		view.LastMessage = &lastView
	}

	return view, nil
}
