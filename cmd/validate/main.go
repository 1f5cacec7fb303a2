// Command validate inspects a save or export file: it runs the document
// through schema migration and the typed decode, then checks the
// invariants the game relies on. Exit code signals validity.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/valmeida/aetria/internal/persist"
	"github.com/valmeida/aetria/pkg/state"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <save.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &SaveValidator{}

	snap, err := validator.validateFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	printSummary(snap)
	fmt.Println("Save file is valid!")
}

type SaveValidator struct {
	errors []string
}

func (v *SaveValidator) validateFile(filename string) (*persist.Snapshot, error) {
	fmt.Printf("Validating %s...\n", filename)

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer func() {
		_ = f.Close()
	}()

	snap, err := persist.Import(f)
	if err != nil {
		return nil, err
	}

	v.errors = nil
	v.validateSnapshot(snap)

	if len(v.errors) > 0 {
		return nil, fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return snap, nil
}

func (v *SaveValidator) validateSnapshot(snap *persist.Snapshot) {
	gs := snap.GameState

	if gs.Version != state.CurrentVersion {
		v.addError(fmt.Sprintf("migrated document reports version %d, want %d", gs.Version, state.CurrentVersion))
	}

	v.validateIDs("inventário", itemIDs(gs.Player.Inventario))
	v.validateIDs("habilidades", skillIDs(gs.Player.Habilidades))
	v.validateIDs("relacionamentos", npcIDs(gs.Player.Relacionamentos))
	v.validateIDs("companheiros", companionIDs(gs.Companheiros))
	v.validateIDs("ui.buttons", buttonIDs(gs.UI.Buttons))
	v.validateIDs("ui.suggestions", suggestionIDs(gs.UI.Suggestions))

	if len(gs.Companheiros) > state.MaxCompanions {
		v.addError(fmt.Sprintf("companion roster holds %d entries, cap is %d", len(gs.Companheiros), state.MaxCompanions))
	}

	v.validateEquipment(gs.Player.Equipamento)
	v.validateDerived(gs.Player.Derivados)

	for i, turn := range snap.TurnHistory {
		if turn.State == nil {
			v.addError(fmt.Sprintf("turn %d carries no state snapshot", i))
		}
	}
}

func (v *SaveValidator) validateIDs(field string, ids []string) {
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if id == "" {
			v.addError(fmt.Sprintf("%s entry %d has an empty id", field, i))
			continue
		}
		if seen[id] {
			v.addError(fmt.Sprintf("%s has duplicate id %q", field, id))
		}
		seen[id] = true
	}
}

func (v *SaveValidator) validateEquipment(eq state.Equipment) {
	check := func(slot string, got, want int) {
		if got != want {
			v.addError(fmt.Sprintf("equipment slot array %q has %d positions, want %d", slot, got, want))
		}
	}
	check("ring", len(eq.Ring), state.RingSlots)
	check("necklace", len(eq.Necklace), state.NecklaceSlots)
	check("bracelet", len(eq.Bracelet), state.BraceletSlots)
	check("earring", len(eq.Earring), state.EarringSlots)
	check("anklet", len(eq.Anklet), state.AnkletSlots)
	check("belt_charm", len(eq.BeltCharm), state.BeltCharmSlots)
	check("pauldron", len(eq.Pauldron), state.PauldronSlots)
	check("bracer", len(eq.Bracer), state.BracerSlots)
	check("greave", len(eq.Greave), state.GreaveSlots)
	check("tool_quick", len(eq.ToolQuick), state.ToolQuickSlots)
	check("relic", len(eq.Relic), state.RelicSlots)
	check("soul_core", len(eq.SoulCore), state.SoulCoreSlots)
	check("totem", len(eq.Totem), state.TotemSlots)
	check("oath_seal", len(eq.OathSeal), state.OathSealSlots)
	check("rune_matrix", len(eq.RuneMatrix), state.RuneMatrixSlots)
	check("implant_eye", len(eq.ImplantEye), state.ImplantEyeSlots)
	check("implant_hand", len(eq.ImplantHand), state.ImplantHandSlot)
	check("familiar", len(eq.Familiar), state.FamiliarSlots)
	check("pet_harness", len(eq.PetHarness), state.PetHarnessSlots)
}

func (v *SaveValidator) validateDerived(d state.Derivatives) {
	check := func(name string, value, maximum int) {
		if value < 0 {
			v.addError(fmt.Sprintf("derived pool %s is negative (%d)", name, value))
		}
		if value > maximum {
			v.addError(fmt.Sprintf("derived pool %s exceeds its max (%d > %d)", name, value, maximum))
		}
	}
	check("HP", d.HP, d.HPMax)
	check("Stamina", d.Stamina, d.StaminaMax)
	check("Mana", d.Mana, d.ManaMax)
	check("Foco", d.Foco, d.FocoMax)
	check("Sanidade", d.Sanidade, d.SanidadeMax)
	check("Carga", d.Carga, d.CargaMax)
}

func (v *SaveValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func printSummary(snap *persist.Snapshot) {
	gs := snap.GameState
	fmt.Printf("Player:      %s (%s, %d anos)\n", gs.Player.Nome, gs.Player.Origem, gs.Player.Idade)
	fmt.Printf("World:       %s, dia %d\n", gs.World.Regiao, gs.Time.Dia)
	fmt.Printf("Companions:  %d\n", len(gs.Companheiros))
	fmt.Printf("Quests:      %d\n", len(gs.Quests))
	fmt.Printf("Turns:       %d\n", len(snap.TurnHistory))
	fmt.Printf("Chat log:    %d messages\n", len(snap.ChatHistory))
	if gs.Combat != nil {
		fmt.Printf("Combat:      active, %d enemies\n", len(gs.Combat.Enemies))
	}
}

func itemIDs(items []state.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func skillIDs(skills []state.Skill) []string {
	ids := make([]string, len(skills))
	for i, s := range skills {
		ids[i] = s.ID
	}
	return ids
}

func npcIDs(npcs []state.NPC) []string {
	ids := make([]string, len(npcs))
	for i, n := range npcs {
		ids[i] = n.ID
	}
	return ids
}

func companionIDs(companions []state.Companion) []string {
	ids := make([]string, len(companions))
	for i, c := range companions {
		ids[i] = c.ID
	}
	return ids
}

func buttonIDs(buttons []state.UIButton) []string {
	ids := make([]string, len(buttons))
	for i, b := range buttons {
		ids[i] = b.ID
	}
	return ids
}

func suggestionIDs(suggestions []state.Suggestion) []string {
	ids := make([]string, len(suggestions))
	for i, s := range suggestions {
		ids[i] = s.ID
	}
	return ids
}
