package state

// Attributes is the fixed set of primary stats. JSON names are the
// save-format names and carry accents; they are part of the external
// contract with the game master and must not be changed.
type Attributes struct {
	Forca        int `json:"Força"`
	Agilidade    int `json:"Agilidade"`
	Vigor        int `json:"Vigor"`
	Inteligencia int `json:"Inteligência"`
	Vontade      int `json:"Vontade"`
	Percepcao    int `json:"Percepção"`
	Carisma      int `json:"Carisma"`
	Sorte        int `json:"Sorte"`
	Tecnica      int `json:"Técnica"`
	Afinidade    int `json:"Afinidade"`
}

// AttributeNames lists the attribute keys in sheet order.
var AttributeNames = []string{
	"Força", "Agilidade", "Vigor", "Inteligência", "Vontade",
	"Percepção", "Carisma", "Sorte", "Técnica", "Afinidade",
}

// Progress is an XP counter paired with the threshold for the next step.
// Used for attribute XP, skill XP and reputation.
type Progress struct {
	XP   int `json:"xp"`
	Next int `json:"next"`
}

// Derivatives are the resource pools computed from attributes.
type Derivatives struct {
	HP          int `json:"HP"`
	HPMax       int `json:"HP_max"`
	Stamina     int `json:"Stamina"`
	StaminaMax  int `json:"Stamina_max"`
	Mana        int `json:"Mana"`
	ManaMax     int `json:"Mana_max"`
	Foco        int `json:"Foco"`
	FocoMax     int `json:"Foco_max"`
	Sanidade    int `json:"Sanidade"`
	SanidadeMax int `json:"Sanidade_max"`
	Carga       int `json:"Carga"`
	CargaMax    int `json:"Carga_max"`
}

// Skill is a leveled ability with its own XP track.
type Skill struct {
	ID     string `json:"id"`
	Nome   string `json:"nome"`
	Tipo   string `json:"tipo"` // "ativa" or "passiva"
	Nivel  int    `json:"nível"`
	XP     int    `json:"xp"`
	XPNext int    `json:"xp_next"`
}

// Item is a stackable inventory entry. The ID must stay stable across
// save/load cycles; list rendering and re-selection key off it.
type Item struct {
	ID         string `json:"id"`
	Nome       string `json:"nome"`
	Quantidade int    `json:"quantidade"`
	Descricao  string `json:"descrição"`
	Tipo       string `json:"tipo,omitempty"`
}

// SpaceItem is an entry in the dimensional inventory.
type SpaceItem struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Qtd   int    `json:"qtd"`
	Tipo  string `json:"tipo"`
	Slots int    `json:"slots"`
}

// SpaceInventory is the weightless dimensional storage.
type SpaceInventory struct {
	SlotsMax   int         `json:"slots_max"`
	SlotsUsed  int         `json:"slots_used"`
	Weightless bool        `json:"weightless"`
	Items      []SpaceItem `json:"items"`
}

// NPC is one relationship record.
type NPC struct {
	ID                   string `json:"id"`
	Nome                 string `json:"nome"`
	NivelRelacionamento  int    `json:"nivelRelacionamento"` // 0-100
	StatusRelacionamento string `json:"statusRelacionamento"`
	UltimaInteracao      string `json:"ultimaInteracao"`
	Ocupacao             string `json:"ocupacao,omitempty"`
	Localizacao          string `json:"localizacao,omitempty"`
	Afeto                int    `json:"afeto,omitempty"`
	Lealdade             int    `json:"lealdade,omitempty"`
}

// InnerCircleBonus is the passive synergy bonus scaling with circle size.
type InnerCircleBonus struct {
	RegeneracaoHPManaPct int            `json:"regeneracao_hp_mana_pct,omitempty"`
	ChanceAtaqueExtraPct int            `json:"chance_ataque_extra_pct,omitempty"`
	BonusAtributos       map[string]int `json:"bonus_atributos,omitempty"`
}

// InnerCircle tracks the reciprocal-bonus relationship group.
type InnerCircle struct {
	Membros       []string         `json:"membros"` // NPC IDs
	SinergiaAtiva bool             `json:"sinergiaAtiva"`
	Bonus         InnerCircleBonus `json:"bonus"`
}

// Attunements tracks mystic item attunement slots.
type Attunements struct {
	Usadas int `json:"usadas"`
	Max    int `json:"max"`
}

// Coins is the three-denomination purse.
type Coins struct {
	Cobre int `json:"cobre"`
	Prata int `json:"prata"`
	Ouro  int `json:"ouro"`
}

// PlayerState is the full character sheet.
type PlayerState struct {
	Nome             string              `json:"nome"`
	Idade            int                 `json:"idade"`
	Origem           string              `json:"origem"`
	Atributos        Attributes          `json:"atributos"`
	AtributosXP      map[string]Progress `json:"atributos_xp"`
	Derivados        Derivatives         `json:"derivados"`
	Habilidades      []Skill             `json:"habilidades"`
	Inventario       []Item              `json:"inventario"`
	InventarioEspaco SpaceInventory      `json:"inventario_espaco"`
	Equipamento      Equipment           `json:"equipamento"`
	Sintonias        Attunements         `json:"sintonias"`
	Moedas           Coins               `json:"moedas"`
	Pericias         map[string]int      `json:"pericias"`
	Condicoes        []string            `json:"condicoes"`
	Fama             map[string]Progress `json:"fama"`
	Patente          string              `json:"patente"`
	Titulos          []string            `json:"títulos"`
	Relacionamentos  []NPC               `json:"relacionamentos"`
	CirculoIntimo    InnerCircle         `json:"circuloIntimo"`
}

// ApplyDerived recomputes the resource pools from attributes using the
// fixed creation formulas and fills each pool to its maximum.
func (p *PlayerState) ApplyDerived() {
	p.Derivados.HPMax = p.Atributos.Vigor * 7
	p.Derivados.HP = p.Derivados.HPMax
	p.Derivados.StaminaMax = p.Atributos.Vigor * 7
	p.Derivados.Stamina = p.Derivados.StaminaMax
	p.Derivados.ManaMax = p.Atributos.Afinidade * 10
	p.Derivados.Mana = p.Derivados.ManaMax
	p.Derivados.FocoMax = p.Atributos.Vontade * 5
	p.Derivados.Foco = p.Derivados.FocoMax
	p.Derivados.SanidadeMax = p.Atributos.Vontade * 5
	p.Derivados.Sanidade = p.Derivados.SanidadeMax
	p.Derivados.CargaMax = p.Atributos.Forca * 5
	p.Derivados.Carga = 0
}
