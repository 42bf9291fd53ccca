package utils

import (
	"log"

	"github.com/arogyam/health-portal/db"
	"github.com/arogyam/health-portal/models"
)

// Notify appends an unread notification for the user. Callers invoke this
// after their own change has committed; persistence failures here are logged,
// never returned, so a lost notification can't undo a committed transition.
func Notify(userID uint, notifType, message string) {
	n := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
	}
	if err := db.DB.Create(&n).Error; err != nil {
		log.Printf("Failed to persist notification for user %d: %v", userID, err)
	}
}

// NotifyWithEmail persists the notification and additionally sends it to the
// user's email address. Both channels are best effort.
func NotifyWithEmail(userID uint, notifType, subject, message string) {
	Notify(userID, notifType, message)

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		log.Printf("Failed to load user %d for email notification: %v", userID, err)
		return
	}
	body := "<p>Dear " + user.Name + ",</p><p>" + message + "</p><p>Best regards,</p><p>Your Health Portal Team</p>"
	if err := SendEmail(user.Email, subject, body); err != nil {
		log.Printf("Failed to send email to %s: %v", user.Email, err)
	}
}
