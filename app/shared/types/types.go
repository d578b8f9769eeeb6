package sharedtypes

// UserID identifies a player account. It is opaque to the reward core;
// only the repository boundary knows how it maps onto the user store.
type UserID string

func (u UserID) String() string { return string(u) }

// ItemID identifies a reward item in the item catalog.
type ItemID string

func (i ItemID) String() string { return string(i) }
