// internal/app/system/apiclient/notifications.go
package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

// Notifications returns the backend's current notification list.
func (c *Client) Notifications(ctx context.Context) (models.NotificationList, error) {
	var out models.NotificationList
	err := c.get(ctx, "notifications.list", "/api/notifications", nil, &out)
	return out, err
}

// MarkNotificationRead marks one notification read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.send(ctx, "notifications.read", http.MethodPost, "/api/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

// MarkAllNotificationsRead marks every notification read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.send(ctx, "notifications.read_all", http.MethodPost, "/api/notifications/read-all", nil, nil)
}

// DeleteNotification removes one notification.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.send(ctx, "notifications.delete", http.MethodDelete, "/api/notifications/"+url.PathEscape(id), nil, nil)
}
