package enums

import "fmt"

// NotificationType names the audience a notification was written for.
type NotificationType string

const (
	NotificationTypeUser   NotificationType = "user"
	NotificationTypeVendor NotificationType = "vendor"
	NotificationTypeAdmin  NotificationType = "admin"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeUser,
	NotificationTypeVendor,
	NotificationTypeAdmin,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
