// Package effecttypes defines the campaign effect model and the resolved
// modifier set that rolls, payouts, and scoring consume.
package effecttypes

import (
	"math"
	"time"

	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// EffectKind names one modifier behavior. The set is closed; records with
// a kind outside it are skipped at resolve time, never dropped at parse
// time, so an old binary survives rows written by a newer one.
type EffectKind string

const (
	KindXPMultiplier       EffectKind = "xp_multiplier"
	KindCurrencyMultiplier EffectKind = "currency_multiplier"
	KindDropRateBoost      EffectKind = "drop_rate_boost"
	KindDamageBuff         EffectKind = "damage_buff"
	KindDamageDebuff       EffectKind = "damage_debuff"
	KindBonusScore         EffectKind = "bonus_score"
)

// Known reports whether k is part of the closed kind set.
func (k EffectKind) Known() bool {
	switch k {
	case KindXPMultiplier, KindCurrencyMultiplier, KindDropRateBoost,
		KindDamageBuff, KindDamageDebuff, KindBonusScore:
		return true
	}
	return false
}

// EffectScope says who an effect applies to.
type EffectScope string

const (
	ScopeGlobal EffectScope = "global"
	ScopeUser   EffectScope = "user"
)

// EffectRecord is one live effect row, already filtered to the asking
// recipient and instant. Kind stays a raw string-backed value on purpose;
// validation happens during aggregation.
type EffectRecord struct {
	ID         int64
	CampaignID int64
	Kind       EffectKind
	Magnitude  float64
	Scope      EffectScope
	UserID     sharedtypes.UserID
	StartsAt   time.Time
	EndsAt     time.Time
}

// Campaign is an authored event window that carries effects. Active is an
// operator kill switch independent of the window dates, so a misbehaving
// campaign can be shut off without rewriting its schedule.
type Campaign struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

// LiveAt reports whether the campaign is switched on and t falls inside
// its window. Both bounds are inclusive.
func (c Campaign) LiveAt(t time.Time) bool {
	return c.Active && !t.Before(c.StartsAt) && !t.After(c.EndsAt)
}

// ResolvedModifierSet is the order-independent aggregate of all live
// effects for one recipient at one instant. Zero active effects resolves
// to the identity set below, which consumers can apply unconditionally.
type ResolvedModifierSet struct {
	XPMultiplier       float64 `json:"xp_multiplier"`
	CurrencyMultiplier float64 `json:"currency_multiplier"`
	DropRateBonus      float64 `json:"drop_rate_bonus"`
	DamageBuff         float64 `json:"damage_buff"`
	DamageDebuff       float64 `json:"damage_debuff"`
	BonusScore         float64 `json:"bonus_score"`
}

// IdentityModifierSet is the no-effects aggregate: multipliers at 1,
// additive terms at 0. Applying it changes nothing.
func IdentityModifierSet() ResolvedModifierSet {
	return ResolvedModifierSet{
		XPMultiplier:       1,
		CurrencyMultiplier: 1,
		DropRateBonus:      0,
		DamageBuff:         1,
		DamageDebuff:       1,
		BonusScore:         0,
	}
}

// ApplyXP scales an experience amount. XP is granted in whole points, so
// the scaled value floors.
func (m ResolvedModifierSet) ApplyXP(base float64) float64 {
	return math.Floor(base * m.XPMultiplier)
}

// ApplyCurrency scales a currency amount, floored to whole units.
func (m ResolvedModifierSet) ApplyCurrency(base float64) float64 {
	return math.Floor(base * m.CurrencyMultiplier)
}

// ApplyDropRate adds the boost to a base probability and caps the result
// at 1. The cap lives here, not in aggregation, so stacked boosts keep
// their full magnitude until the moment of use.
func (m ResolvedModifierSet) ApplyDropRate(baseProbability float64) float64 {
	p := baseProbability + m.DropRateBonus
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// ApplyDamage scales a damage amount by both buff and debuff factors,
// floored to whole points.
func (m ResolvedModifierSet) ApplyDamage(base float64) float64 {
	return math.Floor(base * m.DamageBuff * m.DamageDebuff)
}

// ApplyBonusScore adds the flat score bonus, floored to whole points
// before the addition so a fractional bonus never leaks into the total.
func (m ResolvedModifierSet) ApplyBonusScore(base float64) float64 {
	return base + math.Floor(m.BonusScore)
}
