package worker

import (
	"github.com/spec-kit/incident-portal/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
// Delivery runs on the dispatcher's consumer goroutine; stopping it is the
// dispatcher's Close.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
