package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/Wikid82/phishwatch/internal/logger"
	"github.com/Wikid82/phishwatch/internal/metrics"
	"github.com/Wikid82/phishwatch/internal/models"
)

const (
	ContentMinLength = 5
	ContentMaxLength = 200
)

// BroadcastInput is the admin payload for a new notification.
type BroadcastInput struct {
	Title   string                  `json:"title"`
	Content string                  `json:"content"`
	Type    models.NotificationType `json:"type"`
}

// NotificationService stores broadcasts and derives per-user read state from
// the notification_reads table. Nothing is written per user at broadcast time;
// unread lists are computed with an anti-join on every request.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Broadcast creates a notification that is immediately unread for every user.
func (s *NotificationService) Broadcast(ctx context.Context, in BroadcastInput) (*models.Notification, error) {
	if err := validateBroadcast(in); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		Type:    in.Type,
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
	}
	if err := s.DB.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	metrics.IncNotificationBroadcast()
	logger.Log().WithField("notification_id", notification.ID).
		WithField("type", notification.Type).
		Info("notification broadcast")
	return notification, nil
}

// ListUnread returns the notifications userID has not acknowledged, newest first.
func (s *NotificationService) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	read := s.DB.Model(&models.NotificationRead{}).
		Select("1").
		Where("notification_reads.notification_id = notifications.id AND notification_reads.user_id = ?", userID)

	notifications := []models.Notification{}
	if err := s.DB.WithContext(ctx).
		Where("NOT EXISTS (?)", read).
		Order("created_at desc").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead records the first acknowledgement of notificationID by userID.
// The insert only happens if the notification exists and the pair is new, in
// a single statement, so concurrent calls for the same pair cannot both
// succeed. A redundant call returns ErrAlreadyAcknowledged.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	if strings.TrimSpace(notificationID) == "" || strings.TrimSpace(userID) == "" {
		return validationErrorf("notification id and user id are required")
	}

	query, args, err := markReadStatement(notificationID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("build mark read statement: %w", err)
	}

	result := s.DB.WithContext(ctx).Exec(query, args...)
	if result.Error != nil {
		return fmt.Errorf("mark notification read: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		metrics.IncNotificationAck(metrics.AckFirst)
		logger.Log().WithField("notification_id", notificationID).
			WithField("user_id", userID).
			Debug("notification acknowledged")
		return nil
	}

	// Nothing was inserted; work out why for the caller.
	exists, err := s.exists(ctx, notificationID)
	if err != nil {
		return err
	}
	if !exists {
		metrics.IncNotificationAck(metrics.AckNotFound)
		return ErrNotificationNotFound
	}
	metrics.IncNotificationAck(metrics.AckDuplicate)
	return ErrAlreadyAcknowledged
}

// ListWithReadCounts returns every notification with its acknowledgement count, newest first.
func (s *NotificationService) ListWithReadCounts(ctx context.Context) ([]models.NotificationWithReadCount, error) {
	type readCount struct {
		NotificationID string
		Count          int64
	}

	var notifications []models.Notification
	var counts []readCount
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("created_at desc").Find(&notifications).Error; err != nil {
			return err
		}
		return tx.Model(&models.NotificationRead{}).
			Select("notification_id, count(*) AS count").
			Group("notification_id").
			Scan(&counts).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	byID := make(map[string]int64, len(counts))
	for _, c := range counts {
		byID[c.NotificationID] = c.Count
	}

	out := make([]models.NotificationWithReadCount, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, models.NotificationWithReadCount{Notification: n, ReadByCount: byID[n.ID]})
	}
	return out, nil
}

// Delete removes a notification together with its read state.
func (s *NotificationService) Delete(ctx context.Context, notificationID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Notification{}, "id = ?", notificationID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotificationNotFound
		}
		return tx.Where("notification_id = ?", notificationID).Delete(&models.NotificationRead{}).Error
	})
	if errors.Is(err, ErrNotificationNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}

	metrics.IncNotificationDeleted()
	logger.Log().WithField("notification_id", notificationID).Info("notification deleted")
	return nil
}

func (s *NotificationService) exists(ctx context.Context, notificationID string) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("look up notification: %w", err)
	}
	return n > 0, nil
}

// markReadStatement builds the conditional insert behind MarkRead. The SELECT
// yields a row only when the notification exists; ON CONFLICT drops the
// insert when the (notification, user) pair is already recorded.
func markReadStatement(notificationID, userID string, readAt time.Time) (string, []interface{}, error) {
	source := sq.Select("id").
		Column(sq.Expr("?", userID)).
		Column(sq.Expr("?", readAt)).
		From("notifications").
		Where(sq.Eq{"id": notificationID})

	return sq.Insert("notification_reads").
		Columns("notification_id", "user_id", "read_at").
		Select(source).
		Suffix("ON CONFLICT (notification_id, user_id) DO NOTHING").
		ToSql()
}

func validateBroadcast(in BroadcastInput) error {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" || in.Type == "" {
		return validationErrorf("All fields are required!")
	}
	if n := utf8.RuneCountInString(content); n < ContentMinLength || n > ContentMaxLength {
		return validationErrorf("content must be between %d and %d characters", ContentMinLength, ContentMaxLength)
	}
	if !in.Type.Valid() {
		return validationErrorf("invalid notification type %q", in.Type)
	}
	return nil
}
