package services

import (
	"fmt"
	"log"

	"github.com/alkhazraji96/yelp-camp/models"

	"gorm.io/gorm"
)

// NotificationService fans notifications out to followers when a followed
// user creates a campground.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// FanOutNewCampground creates one unread Notification per follower of the
// owner, in stored follower order, and attaches it to that follower's inbox.
//
// The loop is not transactional. The first failure aborts the remaining
// followers and is returned to the caller; notifications already written
// stay written, and the campground itself is untouched. At-most-partial
// delivery, not exactly-once.
func (ns *NotificationService) FanOutNewCampground(owner *models.User, campground *models.Campground) (int, error) {
	followerIDs := owner.FollowerIDs()
	if len(followerIDs) == 0 {
		return 0, nil
	}

	delivered := 0
	for _, followerID := range followerIDs {
		var follower models.User
		if err := ns.DB.First(&follower, followerID).Error; err != nil {
			log.Printf("fan-out for campground %s stopped at follower %d: %v", campground.Slug, followerID, err)
			return delivered, fmt.Errorf("loading follower %d: %w", followerID, err)
		}

		notification := models.Notification{
			UserID:         follower.ID,
			Username:       owner.Username,
			CampgroundSlug: campground.Slug,
		}
		if err := ns.DB.Create(&notification).Error; err != nil {
			log.Printf("fan-out for campground %s stopped at follower %d: %v", campground.Slug, followerID, err)
			return delivered, fmt.Errorf("notifying follower %d: %w", followerID, err)
		}

		delivered++
	}

	return delivered, nil
}

// Inbox returns the user's notifications newest first, optionally unread only.
func (ns *NotificationService) Inbox(userID uint, unreadOnly bool) ([]models.Notification, error) {
	query := ns.DB.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("id DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips a notification to read and returns it, so the caller can
// send the reader on to the campground it points at. Only the inbox owner
// may mark it.
func (ns *NotificationService) MarkRead(notificationID, userID uint) (*models.Notification, error) {
	var notification models.Notification
	if err := ns.DB.First(&notification, notificationID).Error; err != nil {
		return nil, err
	}
	if notification.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}

	notification.IsRead = true
	if err := ns.DB.Save(&notification).Error; err != nil {
		return nil, err
	}

	return &notification, nil
}
