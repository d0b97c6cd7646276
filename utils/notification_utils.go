package utils

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/thanhtike404/hotel-booking/models"
	ws "github.com/thanhtike404/hotel-booking/websocket"
)

// BuildPushMessage assembles the wire-shape push for a stored notification.
func BuildPushMessage(notification *models.Notification, msgType string, data interface{}) ws.PushMessage {
	return ws.PushMessage{
		Action:    ws.ActionSendNotification,
		UserID:    notification.UserID.Hex(),
		Message:   notification.Message,
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
		ID:        notification.ID.Hex(),
		IsRead:    false,
		CreatedAt: notification.CreatedAt,
	}
}

// BuildAdHocPushMessage assembles a push for the fire-and-forget notify
// endpoint, which has no stored notification behind it.
func BuildAdHocPushMessage(message, msgType string, data interface{}) ws.PushMessage {
	return ws.PushMessage{
		Action:    ws.ActionSendNotification,
		Message:   message,
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
		ID:        uuid.NewString(),
		IsRead:    false,
		CreatedAt: time.Now(),
	}
}

// SendBookingDecisionEmail emails the guest about a booking decision. This is
// a side channel next to the in-app notification; failures are the caller's
// to log, never to surface.
func SendBookingDecisionEmail(guest *models.User, booking *models.Booking, decision string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	if smtpHost == "" {
		log.Println("SMTP not configured; skipping booking decision email")
		return nil
	}

	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	subject := "Your booking has been " + decision
	body := fmt.Sprintf("Dear %s,\n\nYour booking from %s to %s has been %s.\n\nBest regards,\nThe Hotel Booking Team",
		guest.FullName,
		booking.CheckIn.Format("2006-01-02"),
		booking.CheckOut.Format("2006-01-02"),
		decision,
	)

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", guest.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
