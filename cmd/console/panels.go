package main

import (
	"fmt"
	"strings"

	"github.com/valmeida/aetria/pkg/state"
)

// writeMetadata builds the side panel: character vitals, scene context,
// suggestions and the action buttons carried in the state.
func writeMetadata(gs *state.GameState) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("AETRIA") + "\n\n")

	p := gs.Player
	content.WriteString(headingStyle.Render(p.Nome) + "\n")
	content.WriteString(fmt.Sprintf("%s, %d anos\n", p.Patente, p.Idade))
	content.WriteString(fmt.Sprintf("Dia %d, %02d:%02d (%s)\n", gs.Time.Dia, gs.Time.Hora, gs.Time.Minuto, gs.Time.Estacao))
	content.WriteString(fmt.Sprintf("%s — %s, %s\n\n", gs.World.Regiao, gs.UI.Context.Timeblock, gs.UI.Context.Weather))

	d := p.Derivados
	content.WriteString(fmt.Sprintf("HP      %d/%d\n", d.HP, d.HPMax))
	content.WriteString(fmt.Sprintf("Stamina %d/%d\n", d.Stamina, d.StaminaMax))
	content.WriteString(fmt.Sprintf("Mana    %d/%d\n", d.Mana, d.ManaMax))
	content.WriteString(fmt.Sprintf("Foco    %d/%d\n", d.Foco, d.FocoMax))
	content.WriteString(fmt.Sprintf("Sanid.  %d/%d\n", d.Sanidade, d.SanidadeMax))
	content.WriteString(fmt.Sprintf("Carga   %d/%d\n\n", d.Carga, d.CargaMax))

	content.WriteString(fmt.Sprintf("Moedas: %do %dp %dc\n\n", p.Moedas.Ouro, p.Moedas.Prata, p.Moedas.Cobre))

	if gs.Combat != nil && len(gs.Combat.Enemies) > 0 {
		content.WriteString(headingStyle.Render("EM COMBATE") + "\n")
		for _, e := range gs.Combat.Enemies {
			content.WriteString(fmt.Sprintf("• %s (HP %d/%d)\n", e.Nome, e.HP, e.HPMax))
		}
		content.WriteString("\n")
	}

	if len(gs.UI.Suggestions) > 0 {
		content.WriteString(headingStyle.Render("Sugestões") + "\n")
		for _, s := range gs.UI.Suggestions {
			marker := "•"
			if !s.ValidNow {
				marker = "◦"
			}
			content.WriteString(fmt.Sprintf("%s %s\n", marker, s.Label))
		}
		content.WriteString("\n")
	}

	if len(gs.UI.Buttons) > 0 {
		content.WriteString(headingStyle.Render("Ações") + "\n")
		for _, b := range gs.UI.Buttons {
			label := b.Label
			if b.Checked != nil {
				if *b.Checked {
					label += " [x]"
				} else {
					label += " [ ]"
				}
			}
			content.WriteString(fmt.Sprintf("• /%s — %s\n", b.ID, label))
		}
		content.WriteString("\n")
	}

	content.WriteString(promptStyle.Render("/ajuda para comandos"))
	return content.String()
}

func renderSheet(gs *state.GameState) string {
	if gs == nil {
		return ""
	}
	p := gs.Player

	var b strings.Builder
	b.WriteString(headingStyle.Render("Ficha — "+p.Nome) + "\n")
	b.WriteString(fmt.Sprintf("Origem: %s  Patente: %s\n", p.Origem, p.Patente))
	if len(p.Titulos) > 0 {
		b.WriteString("Títulos: " + strings.Join(p.Titulos, ", ") + "\n")
	}
	b.WriteString("\n")

	a := p.Atributos
	values := []int{
		a.Forca, a.Agilidade, a.Vigor, a.Inteligencia, a.Vontade,
		a.Percepcao, a.Carisma, a.Sorte, a.Tecnica, a.Afinidade,
	}
	for i, name := range state.AttributeNames {
		line := fmt.Sprintf("%-13s %4d", name, values[i])
		if prog, ok := p.AtributosXP[name]; ok {
			line += fmt.Sprintf("  (xp %d/%d)", prog.XP, prog.Next)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if len(p.Habilidades) > 0 {
		b.WriteString("Habilidades:\n")
		for _, s := range p.Habilidades {
			b.WriteString(fmt.Sprintf("• %s (%s, nível %d)\n", s.Nome, s.Tipo, s.Nivel))
		}
		b.WriteString("\n")
	}

	if len(p.Pericias) > 0 {
		b.WriteString("Perícias:\n")
		for name, level := range p.Pericias {
			b.WriteString(fmt.Sprintf("• %s: %d\n", name, level))
		}
		b.WriteString("\n")
	}

	if len(p.Inventario) > 0 {
		b.WriteString("Inventário:\n")
		for _, item := range p.Inventario {
			b.WriteString(fmt.Sprintf("• %s x%d\n", item.Nome, item.Quantidade))
		}
	}
	return b.String()
}

// equipmentSlots flattens the worn gear into display lines, skipping
// empty slots.
func equipmentSlots(eq state.Equipment) []string {
	var lines []string
	add := func(slot string, item *state.Item) {
		if item != nil {
			lines = append(lines, fmt.Sprintf("• %-13s %s", slot+":", item.Nome))
		}
	}
	addList := func(slot string, items []*state.Item) {
		for i, item := range items {
			if item != nil {
				lines = append(lines, fmt.Sprintf("• %-13s %s", fmt.Sprintf("%s %d:", slot, i+1), item.Nome))
			}
		}
	}

	add("arma", eq.WeaponMain)
	add("arma sec.", eq.WeaponOff)
	add("escudo", eq.Shield)
	add("arma 2m", eq.Weapon2H)
	add("distância", eq.Ranged)
	add("elmo", eq.Helmet)
	add("peitoral", eq.Chest)
	add("capa", eq.Cloak)
	add("luvas", eq.Glove)
	add("calças", eq.Pants)
	add("botas", eq.Boots)
	add("cinto", eq.Belt)
	add("foco", eq.Focus)
	addList("anel", eq.Ring)
	addList("colar", eq.Necklace)
	addList("bracelete", eq.Bracelet)
	addList("brinco", eq.Earring)
	addList("relíquia", eq.Relic)
	addList("totem", eq.Totem)
	add("aura", eq.Aura)
	return lines
}

func renderEquipment(gs *state.GameState) string {
	if gs == nil {
		return ""
	}
	lines := equipmentSlots(gs.Player.Equipamento)

	var b strings.Builder
	b.WriteString(headingStyle.Render("Equipamento") + "\n")
	if len(lines) == 0 {
		b.WriteString("Nenhum item equipado.\n")
	} else {
		b.WriteString(strings.Join(lines, "\n") + "\n")
	}
	b.WriteString(fmt.Sprintf("Sintonias: %d/%d\n", gs.Player.Sintonias.Usadas, gs.Player.Sintonias.Max))
	return b.String()
}

func renderImplants(gs *state.GameState) string {
	if gs == nil {
		return ""
	}
	eq := gs.Player.Equipamento

	var lines []string
	for i, item := range eq.ImplantEye {
		if item != nil {
			lines = append(lines, fmt.Sprintf("• olho %d: %s", i+1, item.Nome))
		}
	}
	if eq.ImplantSpine != nil {
		lines = append(lines, "• coluna: "+eq.ImplantSpine.Nome)
	}
	if eq.ImplantHeart != nil {
		lines = append(lines, "• coração: "+eq.ImplantHeart.Nome)
	}
	for i, item := range eq.ImplantHand {
		if item != nil {
			lines = append(lines, fmt.Sprintf("• mão %d: %s", i+1, item.Nome))
		}
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render("Implantes") + "\n")
	if len(lines) == 0 {
		b.WriteString("Nenhum implante instalado.\n")
	} else {
		b.WriteString(strings.Join(lines, "\n") + "\n")
	}
	return b.String()
}

func renderCompanions(gs *state.GameState) string {
	if gs == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render("Companheiros") + "\n")
	if len(gs.Companheiros) == 0 {
		b.WriteString("Você viaja sozinho.\n")
		return b.String()
	}

	for i, c := range gs.Companheiros {
		group := "ativo"
		if i >= state.ActivePartySize {
			group = "reserva"
		}
		var classes []string
		for _, cl := range c.Classes {
			classes = append(classes, fmt.Sprintf("%s %d", cl.Nome, cl.Nivel))
		}
		b.WriteString(fmt.Sprintf("• %s (%s) — nível %d, HP %d/%d", c.Nome, group, c.Nivel, c.HP, c.HPMax))
		if len(classes) > 0 {
			b.WriteString(" — " + strings.Join(classes, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderRelations(gs *state.GameState) string {
	if gs == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render("Relações") + "\n")
	if len(gs.Player.Relacionamentos) == 0 {
		b.WriteString("Nenhuma relação registrada.\n")
		return b.String()
	}

	for _, npc := range gs.Player.Relacionamentos {
		b.WriteString(fmt.Sprintf("• %s — %s (%d/100)\n", npc.Nome, npc.StatusRelacionamento, npc.NivelRelacionamento))
	}

	circle := gs.Player.CirculoIntimo
	if len(circle.Membros) > 0 {
		b.WriteString(fmt.Sprintf("\nCírculo íntimo: %d membro(s)", len(circle.Membros)))
		if circle.SinergiaAtiva {
			b.WriteString(" — sinergia ativa")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderSpaceInventory(gs *state.GameState) string {
	if gs == nil {
		return ""
	}
	inv := gs.Player.InventarioEspaco

	var b strings.Builder
	b.WriteString(headingStyle.Render("Inventário do Espaço") + "\n")
	b.WriteString(fmt.Sprintf("Slots: %d/%d\n", inv.SlotsUsed, inv.SlotsMax))
	if len(inv.Items) == 0 {
		b.WriteString("Vazio.\n")
		return b.String()
	}
	for _, item := range inv.Items {
		b.WriteString(fmt.Sprintf("• %s x%d (%d slot(s))\n", item.Nome, item.Qtd, item.Slots))
	}
	return b.String()
}
