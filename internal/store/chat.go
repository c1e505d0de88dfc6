package store

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
	apperrors "github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/pkg/errors"
)

// canonicalPair orders two user ids so a conversation pair has exactly one
// representation in the table.
func canonicalPair(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// EnsureConversation returns the thread between the two users, creating it if
// missing. Idempotent per unordered pair: the unique index on the canonical
// pair means a concurrent ensure loses the insert race and re-reads the
// winner's row.
func (s *Store) EnsureConversation(ctx context.Context, userA, userB uint) (*models.Conversation, error) {
	if userA == 0 || userB == 0 || userA == userB {
		return nil, apperrors.ErrInvalidParticipants
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN ?", []uint{userA, userB}).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "store.EnsureConversation.checkUsers")
	}
	if count != 2 {
		return nil, apperrors.ErrUserNotFound
	}

	low, high := canonicalPair(userA, userB)

	var conv models.Conversation
	err := s.db.WithContext(ctx).
		Where("user_one_id = ? AND user_two_id = ?", low, high).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "store.EnsureConversation.find")
	}

	conv = models.Conversation{UserOneID: low, UserTwoID: high}
	if err := s.db.WithContext(ctx).Create(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race; the winner's row is the one we want.
			ferr := s.db.WithContext(ctx).
				Where("user_one_id = ? AND user_two_id = ?", low, high).
				First(&conv).Error
			if ferr == nil {
				return &conv, nil
			}
			return nil, errors.Wrap(ferr, "store.EnsureConversation.refind")
		}
		return nil, errors.Wrap(err, "store.EnsureConversation.create")
	}
	return &conv, nil
}

// ConversationsFor lists the user's threads, most recently active first, each
// annotated with the counterpart's public profile.
func (s *Store) ConversationsFor(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	var convs []models.Conversation
	err := s.db.WithContext(ctx).
		Where("user_one_id = ? OR user_two_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, errors.Wrap(err, "store.ConversationsFor.find")
	}

	ids := make([]uint, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.Counterpart(userID))
	}

	profiles := map[uint]models.PublicUser{}
	if len(ids) > 0 {
		var users []models.PublicUser
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Select("id, username, email").
			Where("id IN ?", ids).
			Scan(&users).Error
		if err != nil {
			return nil, errors.Wrap(err, "store.ConversationsFor.profiles")
		}
		for _, u := range users {
			profiles[u.ID] = u
		}
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, c := range convs {
		summaries = append(summaries, models.ConversationSummary{
			Conversation: c,
			Counterpart:  profiles[c.Counterpart(userID)],
		})
	}
	return summaries, nil
}

// conversationOf loads a conversation and checks that the user is one of its
// two participants.
func (s *Store) conversationOf(ctx context.Context, convID, userID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).First(&conv, convID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, errors.Wrap(err, "store.conversationOf.find")
	}
	if !conv.HasParticipant(userID) {
		return nil, apperrors.ErrNotParticipant
	}
	return &conv, nil
}

// AppendMessage adds a message to the thread and explicitly bumps the
// conversation's updated_at so the list endpoint sorts it first.
func (s *Store) AppendMessage(ctx context.Context, convID, senderID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ErrEmptyContent
	}

	conv, err := s.conversationOf(ctx, convID, senderID)
	if err != nil {
		return nil, err
	}

	msg := models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return errors.Wrap(err, "store.AppendMessage.insert")
		}
		return errors.Wrap(
			tx.Model(&models.Conversation{}).
				Where("id = ?", conv.ID).
				UpdateColumn("updated_at", time.Now()).Error,
			"store.AppendMessage.touch")
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MessagesFor returns a thread's messages in creation order with the sender's
// username joined in, after checking the requester is a participant.
func (s *Store) MessagesFor(ctx context.Context, convID, requesterID uint) ([]models.MessageView, error) {
	if _, err := s.conversationOf(ctx, convID, requesterID); err != nil {
		return nil, err
	}

	var views []models.MessageView
	err := s.db.WithContext(ctx).
		Table("messages").
		Select("messages.id, messages.conversation_id, messages.sender_id, messages.content, messages.created_at, users.username AS sender_username").
		Joins("JOIN users ON users.id = messages.sender_id").
		Where("messages.conversation_id = ?", convID).
		Order("messages.created_at ASC, messages.id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, errors.Wrap(err, "store.MessagesFor.scan")
	}
	return views, nil
}

// Participants returns the two user ids of a conversation, for notification
// fan-out.
func (s *Store) Participants(ctx context.Context, convID uint) ([]uint, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).First(&conv, convID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, errors.Wrap(err, "store.Participants.find")
	}
	return []uint{conv.UserOneID, conv.UserTwoID}, nil
}
