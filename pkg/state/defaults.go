package state

import (
	"math/rand"
	"strconv"
)

// Creation constants for the point-buy character sheet.
const (
	AttributePoints = 1000
	MinAttribute    = 1
	MaxAttribute    = 1000
)

// SocialOrigin is one selectable starting background.
type SocialOrigin struct {
	ID          string
	Name        string
	Description string
}

// SocialOrigins is the creation catalog, grouped by social stratum.
var SocialOrigins = map[string][]SocialOrigin{
	"Nobres e Elite": {
		{ID: "origem_real", Name: "Herdeiro Real", Description: "Nascido da família governante. Destino marcado por política e intrigas."},
		{ID: "origem_clero", Name: "Clero Nobre", Description: "Família ligada à igreja ou ordem sagrada. Criado entre dogmas e poder religioso."},
		{ID: "origem_mercador", Name: "Comerciante Rico", Description: "Nascido em uma família mercante de sucesso. Cresceu cercado de moedas e contatos."},
	},
	"Classe Média / Povo": {
		{ID: "origem_artesao", Name: "Artesão Aprendiz", Description: "Filho de ferreiro, alfaiate ou carpinteiro. Cresceu em oficinas."},
		{ID: "origem_batedor", Name: "Batedor de Estradas", Description: "Família de guardas de caravanas ou caçadores. Viveu viajando."},
		{ID: "origem_porto", Name: "Criança do Porto", Description: "Cresceu em cidade costeira. Acostumado a navios, contrabando e histórias de marinheiros."},
	},
	"Marginais e Alternativos": {
		{ID: "origem_mendigo", Name: "Mendigo das Ruas", Description: "Criado na miséria. Sobreviveu apenas com astúcia."},
		{ID: "origem_criminoso", Name: "Filho de Criminosos", Description: "Seus pais faziam parte de guildas ou bandos fora da lei."},
		{ID: "origem_gladiador", Name: "Gladiador Nascente", Description: "Desde pequeno exposto a arenas e combates forçados."},
	},
	"Exóticos": {
		{ID: "origem_adotado", Name: "Adotado por Outra Raça", Description: "Humanos criados entre elfos, anões, orcs ou bestiais."},
		{ID: "origem_marcado", Name: "Marcado pelo Sobrenatural", Description: "Nascido com ligação a espíritos, magia caótica ou uma maldição antiga."},
		{ID: "origem_reencarnado", Name: "Reencarnado Anônimo", Description: "Caiu nesse mundo em uma família qualquer, mas guarda memórias fragmentadas da vida passada."},
	},
}

func defaultAttributes() Attributes {
	return Attributes{
		Forca: 1, Agilidade: 1, Vigor: 1, Inteligencia: 1, Vontade: 1,
		Percepcao: 1, Carisma: 1, Sorte: 1, Tecnica: 1, Afinidade: 1,
	}
}

func defaultAttributeXP() map[string]Progress {
	xp := make(map[string]Progress, len(AttributeNames))
	for _, name := range AttributeNames {
		xp[name] = Progress{XP: 0, Next: 100}
	}
	return xp
}

// DefaultButtons is the baseline button set. The game master replaces it
// every turn, but a fresh or repaired document starts from here.
func DefaultButtons() []UIButton {
	checked := true
	return []UIButton{
		{ID: "new", Label: "Novo Jogo"},
		{ID: "save", Label: "Salvar Jogo"},
		{ID: "load", Label: "Carregar Jogo"},
		{ID: "export", Label: "Exportar"},
		{ID: "import", Label: "Importar"},
		{ID: "json", Label: "Ver JSON"},
		{ID: "sheet", Label: "Ficha"},
		{ID: "equipment", Label: "Equipamento"},
		{ID: "implants", Label: "Implantes"},
		{ID: "companions", Label: "Companheiros"},
		{ID: "relations", Label: "Relações"},
		{ID: "invspace", Label: "Inventário do Espaço"},
		{ID: "autosave", Label: "Autosave", Checked: &checked},
	}
}

func defaultUI() UIState {
	return UIState{
		Suggestions: []Suggestion{},
		Context: UIContext{
			ZoneID:    "inicio",
			AreaTag:   "desconhecido",
			Timeblock: "manhã",
			Weather:   "ameno",
		},
		Buttons:  DefaultButtons(),
		Settings: UISettings{Autosave: true},
		Intents:  UIIntents{EmitStateChanged: false},
	}
}

func defaultRules() GameRules {
	return GameRules{
		AttrCap:           MaxAttribute,
		PlayerStartPoints: AttributePoints,
		NPCAvgPoints:      50,
		UniqueSkillWeights: SkillWeights{
			Comum: 0.7, Rara: 0.2, Epica: 0.09, Lendaria: 0.01,
		},
		XPCurveAttr:  "10*(valor+1)^2",
		XPCurveSkill: "50*(nível+1)^2",
	}
}

// Default returns the initial game state for a brand-new character,
// before creation choices are applied.
func Default() *GameState {
	return &GameState{
		Version: CurrentVersion,
		Seed:    "0",
		Time:    TimeState{Dia: 1, Hora: 8, Estacao: "Primavera"},
		World: WorldState{
			Regiao:          "Vale de Aetria",
			PerigoGlobal:    0.6,
			EventosRecentes: []string{},
			Mercados: []Market{
				{Cidade: "Lúmen", Tendencias: map[string]string{"grão": "escasso", "ferro": "abundante"}},
			},
		},
		Player: PlayerState{
			Nome:        "",
			Idade:       18,
			Origem:      "origem_reencarnado",
			Atributos:   defaultAttributes(),
			AtributosXP: defaultAttributeXP(),
			Derivados: Derivatives{
				HP: 10, HPMax: 10, Stamina: 10, StaminaMax: 10,
				Mana: 10, ManaMax: 10, Foco: 10, FocoMax: 10,
				Sanidade: 10, SanidadeMax: 10, Carga: 0, CargaMax: 5,
			},
			Habilidades: []Skill{},
			Inventario:  []Item{},
			InventarioEspaco: SpaceInventory{
				Weightless: true,
				Items:      []SpaceItem{},
			},
			Equipamento: DefaultEquipment(),
			Sintonias:   Attunements{Usadas: 0, Max: 999},
			Pericias: map[string]int{
				"Combate": 1, "Magia": 1, "Ofício": 1,
				"Sobrevivência": 1, "Liderança": 1, "Comércio": 1,
			},
			Condicoes:       []string{},
			Fama:            map[string]Progress{},
			Patente:         "Plebeu",
			Titulos:         []string{},
			Relacionamentos: []NPC{},
			CirculoIntimo: InnerCircle{
				Membros: []string{},
			},
		},
		Companheiros: []Companion{},
		Reino: KingdomState{
			Recursos:   map[string]int{"comida": 0, "madeira": 0, "pedra": 0, "ferro": 0},
			Politicas:  []string{},
			Diplomacia: map[string]string{},
			Defesas:    []string{},
		},
		Quests:         []map[string]any{},
		BestiarioVisto: []string{},
		Flags:          map[string]bool{"tutorial": true},
		UI:             defaultUI(),
		Rules:          defaultRules(),
		Combat:         nil,
	}
}

// NewSeed returns a fresh random world seed in the save format.
func NewSeed() string {
	return strconv.Itoa(rand.Intn(1000000))
}
