package subscription

import "context"

// SubscriptionRepository - interface for the subscriptions table.
type SubscriptionRepository interface {
	// SubscribersOf returns the ids of users subscribed to userID.
	SubscribersOf(ctx context.Context, userID string) ([]string, error)
}
