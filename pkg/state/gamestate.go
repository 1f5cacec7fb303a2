package state

import "encoding/json"

// CurrentVersion is the save-document schema version produced by this build.
// Upgrade brings every older or incomplete document up to this version.
const CurrentVersion = 3

// TimeState is the in-world clock.
type TimeState struct {
	Dia     int    `json:"dia"`
	Hora    int    `json:"hora"`
	Minuto  int    `json:"minuto,omitempty"`
	Estacao string `json:"estacao"`
}

// Market describes price tendencies for one city.
type Market struct {
	Cidade     string            `json:"cidade"`
	Tendencias map[string]string `json:"tendencias"`
}

// WorldState is the world-level context the game master maintains.
type WorldState struct {
	Regiao          string   `json:"regiao"`
	PerigoGlobal    float64  `json:"perigoGlobal"`
	EventosRecentes []string `json:"eventosRecentes"`
	Mercados        []Market `json:"mercados"`
}

// KingdomState tracks player-held territory, if any.
type KingdomState struct {
	Posse      bool              `json:"posse"`
	Titulo     *string           `json:"titulo"`
	Recursos   map[string]int    `json:"recursos"`
	Politicas  []string          `json:"politicas"`
	Diplomacia map[string]string `json:"diplomacia"`
	Defesas    []string          `json:"defesas"`
}

// Enemy is one combatant on the opposing side of a battle.
type Enemy struct {
	ID         string   `json:"id"`
	Nome       string   `json:"nome"`
	Nivel      int      `json:"nivel"`
	HP         int      `json:"hp"`
	HPMax      int      `json:"hp_max"`
	Stamina    int      `json:"stamina,omitempty"`
	StaminaMax int      `json:"stamina_max,omitempty"`
	Mana       int      `json:"mana,omitempty"`
	ManaMax    int      `json:"mana_max,omitempty"`
	Condicoes  []string `json:"condicoes"`
}

// CombatState exists only while a battle is running. The game master
// sets it to null when combat ends.
type CombatState struct {
	Enemies []Enemy `json:"enemies"`
}

// GameState is the complete versioned snapshot of a running game. It is
// produced wholesale by the game master every turn and replaced, never
// patched field by field on the client.
type GameState struct {
	Version        int               `json:"version"`
	Seed           string            `json:"seed"`
	Time           TimeState         `json:"time"`
	World          WorldState        `json:"world"`
	Player         PlayerState       `json:"player"`
	Companheiros   []Companion       `json:"companheiros"`
	Construcoes    []json.RawMessage `json:"construcoes"`
	Caravanas      []json.RawMessage `json:"caravanas"`
	Reino          KingdomState      `json:"reino"`
	Quests         []map[string]any  `json:"quests"`
	BestiarioVisto []string          `json:"bestiarioVisto"`
	Flags          map[string]bool   `json:"flags"`
	UI             UIState           `json:"ui"`
	Rules          GameRules         `json:"rules"`
	Combat         *CombatState      `json:"combat"`
}

// Turn pairs one rendered narrative with the exact state snapshot that
// resulted from it.
type Turn struct {
	Narrative string     `json:"narrative"`
	State     *GameState `json:"state"`
}

// Decode converts a migrated document into the typed GameState. It is
// meant to run after Upgrade; on an arbitrary document it can still fail
// when a field holds a structurally wrong value.
func Decode(doc map[string]any) (*GameState, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var gs GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

// Document converts the typed GameState back into the generic document
// form used by the migration layer and the outbound prompt.
func (gs *GameState) Document() (map[string]any, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeepCopy returns an independent copy of the game state.
func (gs *GameState) DeepCopy() *GameState {
	data, err := json.Marshal(gs)
	if err != nil {
		// The typed state always serializes; failure here is a
		// programming error.
		panic(err)
	}
	var out GameState
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}
