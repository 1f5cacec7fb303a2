package state

// SuggestionLocationReq restricts a suggestion to a zone and biome.
type SuggestionLocationReq struct {
	ZoneID string `json:"zone_id"`
	Biome  string `json:"biome"`
}

// SuggestionPreconditions lists what the action needs before it can run.
type SuggestionPreconditions struct {
	HaveItems  []any    `json:"have_items"`
	NeedItems  []string `json:"need_items"`
	Companions []any    `json:"companions"`
}

// SuggestionTravel marks actions that require moving first.
type SuggestionTravel struct {
	Required bool    `json:"required"`
	EtaH     float64 `json:"eta_h"`
	Risk     string  `json:"risk"`
}

// SuggestionCosts is the resource price of the action.
type SuggestionCosts struct {
	TempoMin int `json:"tempo_min"`
	Stamina  int `json:"stamina"`
	Mana     int `json:"mana"`
}

// SuggestionRewardHint previews likely rewards.
type SuggestionRewardHint struct {
	Ouro       string `json:"ouro,omitempty"`
	Reputacao  string `json:"reputacao,omitempty"`
	Craft      string `json:"craft,omitempty"`
}

// SuggestionOriginContext records where and when the suggestion was made.
type SuggestionOriginContext struct {
	ZoneID string `json:"zone_id"`
	Turn   int    `json:"turn"`
}

// Suggestion is one contextual action the game master offers. The game
// master regenerates the whole list every turn.
type Suggestion struct {
	ID            string                  `json:"id"`
	Label         string                  `json:"label"`
	Act           string                  `json:"act"`
	LocationReq   SuggestionLocationReq   `json:"location_req"`
	Preconditions SuggestionPreconditions `json:"preconditions"`
	Travel        SuggestionTravel        `json:"travel"`
	Costs         SuggestionCosts         `json:"costs"`
	RewardHint    SuggestionRewardHint    `json:"reward_hint"`
	Pin           bool                    `json:"pin"`
	TTLTurns      int                     `json:"ttl_turns"`
	OriginContext SuggestionOriginContext `json:"origin_context"`
	ValidNow      bool                    `json:"valid_now"`
	Score         float64                 `json:"score"`
}

// UIContext is the scene header: where and when the player is.
type UIContext struct {
	ZoneID    string `json:"zone_id"`
	AreaTag   string `json:"area_tag"`
	Timeblock string `json:"timeblock"`
	Weather   string `json:"weather"`
}

// UIButton is one action button. The set of buttons is data supplied by
// the game master each turn; the client dispatches on the stable ID and
// renders the label verbatim.
type UIButton struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked *bool  `json:"checked,omitempty"`
}

// UISettings carries player-controlled toggles the game master echoes back.
type UISettings struct {
	Autosave bool `json:"autosave"`
}

// UIIntents are per-turn signals from the game master to the client.
// EmitStateChanged marks the turn as worth persisting; an absent flag
// reads as false, so no autosave fires.
type UIIntents struct {
	EmitStateChanged bool `json:"emit_state_changed"`
}

// UIState is the ephemeral presentation sub-aggregate. The game master
// repopulates it every turn.
type UIState struct {
	Suggestions []Suggestion `json:"suggestions"`
	Context     UIContext    `json:"context"`
	Buttons     []UIButton   `json:"buttons"`
	Settings    UISettings   `json:"settings"`
	Toast       *string      `json:"toast"`
	SaveHint    *string      `json:"save_hint"`
	Intents     UIIntents    `json:"intents"`

	// Scene illustration request. When ImagePrompt is set and ImageURL
	// is empty, the turn pipeline attempts a supplementary image
	// generation and attaches the result as a data URI.
	ImagePrompt string `json:"image_prompt,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}
