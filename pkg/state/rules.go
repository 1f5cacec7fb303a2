package state

import "encoding/json"

// SkillWeights are the rarity weights for unique skill generation.
type SkillWeights struct {
	Comum    float64 `json:"comum"`
	Rara     float64 `json:"rara"`
	Epica    float64 `json:"epica"`
	Lendaria float64 `json:"lendaria"`
}

// SuggestionRules tunes how the game master generates suggestions.
type SuggestionRules struct {
	MinHerePct           int      `json:"min_here_pct"`
	MaxTravelOpts        int      `json:"max_travel_opts"`
	DefaultTTLTurns      int      `json:"default_ttl_turns"`
	CooldownRejectedTurns int     `json:"cooldown_rejected_turns"`
	AutoConvert          bool     `json:"auto_convert"`
	PinTypes             []string `json:"pin_types"`
}

// GameRules is the ruleset block echoed back and forth with the game
// master. The super-ability override tables are opaque to the client and
// carried through untouched.
type GameRules struct {
	AttrCap           int                        `json:"attr_cap"`
	PlayerStartPoints int                        `json:"player_start_points"`
	NPCAvgPoints      int                        `json:"npc_avg_points"`
	UniqueSkillWeights SkillWeights              `json:"unique_skill_weights"`
	XPCurveAttr       string                     `json:"xp_curve_attr"`
	XPCurveSkill      string                     `json:"xp_curve_skill"`
	TKPrimordial      json.RawMessage            `json:"tk_primordial,omitempty"`
	Suggestions       *SuggestionRules           `json:"suggestions,omitempty"`
	SuperOverrides    map[string]json.RawMessage `json:"super_overrides,omitempty"`
}
