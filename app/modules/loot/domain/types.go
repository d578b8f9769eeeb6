// Package loottypes defines the reward-roll domain model: rarity tiers,
// reward pools, chest definitions, and the results of rolls and chest opens.
package loottypes

import (
	"time"

	"github.com/google/uuid"

	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// RarityTier is an ordered reward-quality category. The order matters only
// for the streak-breaker upgrade rule.
type RarityTier string

const (
	TierCommon    RarityTier = "common"
	TierUncommon  RarityTier = "uncommon"
	TierRare      RarityTier = "rare"
	TierEpic      RarityTier = "epic"
	TierLegendary RarityTier = "legendary"
)

// RarityOrder lists tiers from lowest to highest. This is the fixed walk
// order for weighted rolls and the upgrade ladder for the smart-drop guard.
var RarityOrder = []RarityTier{TierCommon, TierUncommon, TierRare, TierEpic, TierLegendary}

// Valid reports whether t is a member of the closed tier set.
func (t RarityTier) Valid() bool {
	for _, r := range RarityOrder {
		if r == t {
			return true
		}
	}
	return false
}

// Next returns the tier one step above t. The top tier has no next.
func (t RarityTier) Next() (RarityTier, bool) {
	for i, r := range RarityOrder {
		if r == t && i+1 < len(RarityOrder) {
			return RarityOrder[i+1], true
		}
	}
	return t, false
}

// DefaultRarityWeights is the global weight table applied when a pool
// carries no weight map of its own.
var DefaultRarityWeights = map[RarityTier]float64{
	TierCommon:    70,
	TierUncommon:  20,
	TierRare:      7,
	TierEpic:      2,
	TierLegendary: 1,
}

// RewardPool is a named loot table: per-tier item lists plus a tier weight
// map. Authored externally; read-only to the reward core.
type RewardPool struct {
	Name    string
	Items   map[RarityTier][]sharedtypes.ItemID
	Weights map[RarityTier]float64
}

// TierOrder returns the canonical rarity order filtered to the tiers that
// appear in the pool's weight map, giving weighted rolls a fixed walk order.
func (p *RewardPool) TierOrder() []RarityTier {
	order := make([]RarityTier, 0, len(p.Weights))
	for _, t := range RarityOrder {
		if _, ok := p.Weights[t]; ok {
			order = append(order, t)
		}
	}
	return order
}

// Validate checks the pool against the authoring invariants: at least one
// positive weight, no negative weights, and no weight-only tier without
// items unless the common fallback list exists.
func (p *RewardPool) Validate() error {
	if len(p.Weights) == 0 {
		return &ConfigError{Pool: p.Name, Reason: "weight map is empty"}
	}
	positive := false
	for tier, w := range p.Weights {
		if !tier.Valid() {
			return &ConfigError{Pool: p.Name, Reason: "unknown rarity tier " + string(tier)}
		}
		if w < 0 {
			return &ConfigError{Pool: p.Name, Reason: "negative weight for tier " + string(tier)}
		}
		if w > 0 {
			positive = true
		}
	}
	if !positive {
		return &ConfigError{Pool: p.Name, Reason: "no tier has a positive weight"}
	}
	return nil
}

// RewardResult is one concrete rolled reward.
type RewardResult struct {
	Item sharedtypes.ItemID `json:"item_id"`
	Name string             `json:"item_name"`
	Tier RarityTier         `json:"rarity"`
	// Upgraded marks a roll lifted one tier by the smart-drop guard.
	Upgraded bool `json:"upgraded,omitempty"`
}

// GrantRecord is an immutable record of one reward granted to one
// recipient at one time. It doubles as smart-drop history and audit trail.
type GrantRecord struct {
	ID        uuid.UUID
	UserID    sharedtypes.UserID
	Item      sharedtypes.ItemID
	Tier      RarityTier
	GrantedAt time.Time
}

// ChestTier identifies a chest quality level.
type ChestTier string

const (
	ChestWooden ChestTier = "wooden"
	ChestSilver ChestTier = "silver"
	ChestGold   ChestTier = "gold"
	ChestEvent  ChestTier = "event"
)

// ChestDefinition describes what a chest tier yields: how many rolls and
// which flat bonuses.
type ChestDefinition struct {
	Tier          ChestTier
	PoolName      string
	ItemCount     int
	BonusCurrency int
	BonusXP       int
}

// Validate rejects negative counts or bonuses. Authoring is expected to
// keep values non-decreasing with tier quality; that is checked across
// definitions, not per row.
func (d *ChestDefinition) Validate() error {
	if d.ItemCount < 0 {
		return &ConfigError{Pool: d.PoolName, Reason: "chest item count is negative"}
	}
	if d.BonusCurrency < 0 || d.BonusXP < 0 {
		return &ConfigError{Pool: d.PoolName, Reason: "chest bonus is negative"}
	}
	return nil
}

// ChestOpenResult is the outcome of opening one chest instance. Zero items
// is a legitimate outcome; bonuses are never negative.
type ChestOpenResult struct {
	ChestID       uuid.UUID      `json:"chest_id"`
	Tier          ChestTier      `json:"chest_type"`
	Items         []RewardResult `json:"items"`
	BonusCurrency int            `json:"bonus_currency"`
	BonusXP       int            `json:"bonus_xp"`
}

// UserChest is one chest instance owned by a recipient.
type UserChest struct {
	ID        uuid.UUID
	UserID    sharedtypes.UserID
	Tier      ChestTier
	Opened    bool
	CreatedAt time.Time
}
