package services_test

import (
	"context"
	"testing"
	"time"

	"paneteria_admin/internal/models"
	"paneteria_admin/internal/redis"
	"paneteria_admin/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_ListIsNewestFirst(t *testing.T) {
	svc := services.NewNotificationService(newFakeFeed(), nil)

	svc.Notify("first", "a", models.SeverityInfo, "")
	svc.Notify("second", "b", models.SeverityWarning, "")
	svc.Notify("third", "c", models.SeveritySuccess, "")

	alerts := svc.List()
	require.Len(t, alerts, 3)
	assert.Equal(t, "third", alerts[0].Title)
	assert.Equal(t, "first", alerts[2].Title)
	assert.NotEmpty(t, alerts[0].ID)
	assert.NotEqual(t, alerts[0].ID, alerts[1].ID)
}

func TestNotificationService_ReadTracking(t *testing.T) {
	svc := services.NewNotificationService(newFakeFeed(), nil)

	svc.Notify("one", "a", models.SeverityInfo, "")
	svc.Notify("two", "b", models.SeverityInfo, "")
	assert.Equal(t, 2, svc.UnreadCount())

	id := svc.List()[0].ID
	assert.True(t, svc.MarkRead(id))
	assert.False(t, svc.MarkRead("no-such-id"))
	assert.Equal(t, 1, svc.UnreadCount())

	svc.MarkAllRead()
	assert.Zero(t, svc.UnreadCount())

	assert.True(t, svc.Remove(id))
	assert.Len(t, svc.List(), 1)

	svc.Clear()
	assert.Empty(t, svc.List())
}

func TestNotificationService_ListenRaisesAlertsFromFeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := newFakeFeed()
	svc := services.NewNotificationService(feed, nil)
	go svc.Listen(ctx)

	feed.ch <- redis.ChangeEvent{Collection: services.CollectionOrders, EventType: redis.EventInsert, EntityID: 7, Summary: "order #7 Ana 45.00"}
	feed.ch <- redis.ChangeEvent{Collection: services.CollectionOrders, EventType: redis.EventUpdate, EntityID: 7}
	feed.ch <- redis.ChangeEvent{Collection: services.CollectionCustomers, EventType: redis.EventInsert, EntityID: 3, Summary: "Ana"}
	// Deletes do not raise alerts.
	feed.ch <- redis.ChangeEvent{Collection: services.CollectionOrders, EventType: redis.EventDelete, EntityID: 7}

	require.Eventually(t, func() bool {
		return len(svc.List()) == 3
	}, time.Second, 5*time.Millisecond)

	alerts := svc.List()
	assert.Equal(t, "New customer", alerts[0].Title)
	assert.Equal(t, "Order updated", alerts[1].Title)
	assert.Equal(t, "New order", alerts[2].Title)
	assert.Equal(t, "order #7 Ana 45.00", alerts[2].Message)
	assert.Equal(t, models.SeveritySuccess, alerts[2].Severity)
	assert.Equal(t, "/orders/7", alerts[2].Action)
}
