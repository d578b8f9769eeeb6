package eventbus

// Stream and subject names for outbound domain events.
const (
	NotificationStream  = "notification"
	NotificationSubject = "notification.send"

	RewardStream       = "reward"
	RewardGrantSubject = "reward.granted"
	ChestOpenedSubject = "reward.chest_opened"
)
