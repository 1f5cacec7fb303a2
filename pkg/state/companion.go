package state

// ActivePartySize is how many companions, counted from the front of the
// list, form the active group. Everyone past it is reserve.
const ActivePartySize = 5

// MaxCompanions caps the total roster, active plus reserve.
const MaxCompanions = 30

// ClassProgress is one class a companion has levels in. Older saves
// carried a single "classe" string; migration turns it into this list.
type ClassProgress struct {
	Nome  string `json:"nome"`
	Nivel int    `json:"nivel"`
}

// CompanionSkill is a named ability reference on a companion sheet.
type CompanionSkill struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

// Companion is one party member, active or in reserve.
type Companion struct {
	ID                   string           `json:"id"`
	Nome                 string           `json:"nome"`
	Classes              []ClassProgress  `json:"classes"`
	Nivel                int              `json:"nivel"`
	HP                   int              `json:"hp"`
	HPMax                int              `json:"hp_max"`
	RecursoNome          string           `json:"recurso_nome,omitempty"` // "Mana", "Stamina" or "Energia"
	RecursoValor         int              `json:"recurso_valor,omitempty"`
	RecursoMax           int              `json:"recurso_max,omitempty"`
	StatusRelacionamento string           `json:"statusRelacionamento"`
	AvatarURL            string           `json:"avatarUrl,omitempty"`
	Biografia            string           `json:"biografia"`
	Atributos            Attributes       `json:"atributos"`
	HabilidadesCombate   []CompanionSkill `json:"habilidadesCombate"`
	HabilidadesApoio     []CompanionSkill `json:"habilidadesApoio"`
	Equipamento          map[string]any   `json:"equipamento"` // sparse: only worn slots
	EmMissao             bool             `json:"emMissao"`
}
