package state

import (
	"encoding/json"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Upgrade normalizes any JSON-like object claiming to be a save document
// into the current schema shape. It is total (never panics, accepts {}),
// idempotent, and does not mutate its input.
//
// It runs on every load, import and turn, not just on version bumps: the
// document's producer is a text model, which can omit newer fields on
// any given turn even within the current version.
func Upgrade(doc map[string]any) map[string]any {
	out, _ := deepCopyValue(doc).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	normalizeKeys(out)

	player := ensureChildMap(out, "player")

	// Legacy rename: "harem" became the inner circle. Populate the new
	// field first, then drop the old one.
	if legacy, ok := player["harem"]; ok {
		if _, has := player["circuloIntimo"]; !has {
			player["circuloIntimo"] = legacy
		}
		delete(player, "harem")
	}

	// Legacy flat reputation counters become XP/threshold pairs.
	if fama, ok := player["fama"].(map[string]any); ok {
		for k, v := range fama {
			if n, isNum := v.(float64); isNum {
				fama[k] = map[string]any{"xp": n, "next": float64(100)}
			}
		}
	}

	// Legacy singular companion class string becomes a class list.
	if comps, ok := out["companheiros"].([]any); ok {
		for _, c := range comps {
			comp, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if classe, ok := comp["classe"].(string); ok {
				if _, has := comp["classes"]; !has {
					nivel, _ := comp["nivel"].(float64)
					if nivel < 1 {
						nivel = 1
					}
					comp["classes"] = []any{
						map[string]any{"nome": classe, "nivel": nivel},
					}
				}
				delete(comp, "classe")
			}
		}
	}

	// Repair structurally wrong leaves the fill pass would not touch.
	if _, ok := out["quests"].([]any); !ok {
		out["quests"] = []any{}
	}
	if _, ok := out["flags"].(map[string]any); !ok {
		out["flags"] = map[string]any{"tutorial": true}
	}

	// Fill every missing substructure from the default document.
	fillMissing(out, defaultDocument())

	normalizeEquipment(ensureChildMap(player, "equipamento"))
	fillIdentifiers(out)

	out["version"] = float64(CurrentVersion)
	return out
}

// atomicKeys are object-valued fields whose contents are free-form; the
// fill pass treats them as leaves instead of recursing into them.
var atomicKeys = map[string]bool{
	"flags":           true,
	"pericias":        true,
	"fama":            true,
	"tendencias":      true,
	"recursos":        true,
	"diplomacia":      true,
	"bonus":           true,
	"super_overrides": true,
	"tk_primordial":   true,
}

// fillMissing copies defaults for absent keys and recurses into shared
// substructures. Present values are never overwritten.
func fillMissing(dst, defaults map[string]any) {
	for key, defVal := range defaults {
		cur, ok := dst[key]
		if !ok || cur == nil {
			// combat is legitimately null mid-exploration.
			if key == "combat" {
				continue
			}
			dst[key] = deepCopyValue(defVal)
			continue
		}
		if atomicKeys[key] {
			continue
		}
		defMap, defIsMap := defVal.(map[string]any)
		curMap, curIsMap := cur.(map[string]any)
		if defIsMap && curIsMap {
			fillMissing(curMap, defMap)
		} else if defIsMap && !curIsMap {
			dst[key] = deepCopyValue(defVal)
		}
	}
}

// normalizeEquipment re-pads every fixed-length slot array and makes
// sure each scalar slot key exists, null when empty.
func normalizeEquipment(eq map[string]any) {
	for name, size := range slotArraySizes {
		arr, _ := eq[name].([]any)
		fixed := make([]any, size)
		for i := 0; i < size && i < len(arr); i++ {
			fixed[i] = arr[i]
		}
		eq[name] = fixed
	}
	for _, name := range singleSlotNames {
		if _, ok := eq[name]; !ok {
			eq[name] = nil
		}
	}
	mount, ok := eq["mount"].(map[string]any)
	if !ok {
		mount = map[string]any{}
		eq["mount"] = mount
	}
	for _, gear := range []string{"saddle", "reins", "shoes", "barding"} {
		if _, ok := mount[gear]; !ok {
			mount[gear] = nil
		}
	}
}

// fillIdentifiers assigns a fresh UUID to every list entry that arrived
// without a stable id. Downstream list rendering and re-selection anchor
// on these ids, so they must exist before the document reaches the UI.
func fillIdentifiers(doc map[string]any) {
	player, _ := doc["player"].(map[string]any)
	if player != nil {
		ensureListIDs(player["inventario"])
		ensureListIDs(player["habilidades"])
		ensureListIDs(player["relacionamentos"])
		if space, ok := player["inventario_espaco"].(map[string]any); ok {
			ensureListIDs(space["items"])
		}
	}
	ensureListIDs(doc["companheiros"])
	if ui, ok := doc["ui"].(map[string]any); ok {
		ensureListIDs(ui["suggestions"])
		ensureListIDs(ui["buttons"])
	}
	if combat, ok := doc["combat"].(map[string]any); ok {
		ensureListIDs(combat["enemies"])
	}
}

func ensureListIDs(v any) {
	list, ok := v.([]any)
	if !ok {
		return
	}
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if id, _ := m["id"].(string); id == "" {
			m["id"] = uuid.NewString()
		}
	}
}

// normalizeKeys rewrites every map key to its NFC form, in place.
// Legacy producers emitted the accented Portuguese field names in both
// composed and decomposed Unicode forms.
func normalizeKeys(m map[string]any) {
	for k, v := range m {
		nk := norm.NFC.String(k)
		if nk != k {
			if _, exists := m[nk]; !exists {
				m[nk] = v
			}
			delete(m, k)
		}
		switch child := v.(type) {
		case map[string]any:
			normalizeKeys(child)
		case []any:
			for _, e := range child {
				if cm, ok := e.(map[string]any); ok {
					normalizeKeys(cm)
				}
			}
		}
	}
}

func ensureChildMap(m map[string]any, key string) map[string]any {
	if child, ok := m[key].(map[string]any); ok {
		return child
	}
	child := map[string]any{}
	m[key] = child
	return child
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = deepCopyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return val
	}
}

// defaultDocument is the Default() state in generic document form.
func defaultDocument() map[string]any {
	data, err := json.Marshal(Default())
	if err != nil {
		// Default is a static literal; failure here is a programming error.
		panic(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		panic(err)
	}
	return doc
}
