package subscription

// Subscription is a directed edge: Subscriber receives team-level
// absence notifications about UserID.
type Subscription struct {
	UserID       string
	SubscriberID string
}
