package state

// Fixed slot-array sizes of the equipment grid. The game master must
// always return every slot, so defaults pre-build the full map with
// nulls and migration re-pads any array that comes back short.
const (
	RingSlots       = 10
	NecklaceSlots   = 5
	BraceletSlots   = 2
	EarringSlots    = 2
	AnkletSlots     = 2
	BeltCharmSlots  = 3
	PauldronSlots   = 2
	BracerSlots     = 2
	GreaveSlots     = 2
	ToolQuickSlots  = 5
	RelicSlots      = 5
	SoulCoreSlots   = 3
	TotemSlots      = 5
	OathSealSlots   = 7
	RuneMatrixSlots = 18
	ImplantEyeSlots = 2
	ImplantHandSlot = 2
	FamiliarSlots   = 5
	PetHarnessSlots = 3
)

// MountGear is the tack worn by the active mount.
type MountGear struct {
	Saddle  *Item `json:"saddle"`
	Reins   *Item `json:"reins"`
	Shoes   *Item `json:"shoes"`
	Barding *Item `json:"barding"`
}

// Equipment is the fixed gear-slot map. Array-valued slots have fixed
// lengths; empty positions are null, never absent.
type Equipment struct {
	// Jewelry and accessories
	Ring      []*Item `json:"ring"`
	Necklace  []*Item `json:"necklace"`
	Bracelet  []*Item `json:"bracelet"`
	Earring   []*Item `json:"earring"`
	Anklet    []*Item `json:"anklet"`
	Belt      *Item   `json:"belt"`
	BeltCharm []*Item `json:"belt_charm"`
	Brooch    *Item   `json:"brooch"`

	// Head and face
	Helmet  *Item `json:"helmet"`
	Circlet *Item `json:"circlet"`
	Goggles *Item `json:"goggles"`
	Mask    *Item `json:"mask"`

	// Torso and shoulders
	Chest      *Item   `json:"chest"`
	Undershirt *Item   `json:"undershirt"`
	Cloak      *Item   `json:"cloak"`
	Pauldron   []*Item `json:"pauldron"`
	Backpack   *Item   `json:"backpack"`

	// Arms and hands
	Bracer []*Item `json:"bracer"`
	Glove  *Item   `json:"glove"`
	Focus  *Item   `json:"focus"`

	// Waist, legs and feet
	Pants  *Item   `json:"pants"`
	Greave []*Item `json:"greave"`
	Boots  *Item   `json:"boots"`
	Spurs  *Item   `json:"spurs"`

	// Weapons and utility
	WeaponMain *Item   `json:"weapon_main"`
	WeaponOff  *Item   `json:"weapon_off"`
	Shield     *Item   `json:"shield"`
	Weapon2H   *Item   `json:"weapon_2h"`
	Ranged     *Item   `json:"ranged"`
	AmmoPouch  *Item   `json:"ammo_pouch"`
	ToolQuick  []*Item `json:"tool_quick"`
	Instrument *Item   `json:"instrument"`

	// Mystic and metamagic
	Relic      []*Item `json:"relic"`
	Aura       *Item   `json:"aura"`
	SoulCore   []*Item `json:"soul_core"`
	Totem      []*Item `json:"totem"`
	OathSeal   []*Item `json:"oath_seal"`
	RuneMatrix []*Item `json:"rune_matrix"`

	// Biotech implants
	ImplantEye   []*Item `json:"implant_eye"`
	ImplantSpine *Item   `json:"implant_spine"`
	ImplantHeart *Item   `json:"implant_heart"`
	ImplantHand  []*Item `json:"implant_hand"`

	// Companions and mounts
	Familiar   []*Item   `json:"familiar"`
	Mount      MountGear `json:"mount"`
	PetHarness []*Item   `json:"pet_harness"`
}

// slotArraySizes maps each array-valued equipment field to its fixed
// length. Migration uses it to re-pad short arrays and clip long ones.
var slotArraySizes = map[string]int{
	"ring":         RingSlots,
	"necklace":     NecklaceSlots,
	"bracelet":     BraceletSlots,
	"earring":      EarringSlots,
	"anklet":       AnkletSlots,
	"belt_charm":   BeltCharmSlots,
	"pauldron":     PauldronSlots,
	"bracer":       BracerSlots,
	"greave":       GreaveSlots,
	"tool_quick":   ToolQuickSlots,
	"relic":        RelicSlots,
	"soul_core":    SoulCoreSlots,
	"totem":        TotemSlots,
	"oath_seal":    OathSealSlots,
	"rune_matrix":  RuneMatrixSlots,
	"implant_eye":  ImplantEyeSlots,
	"implant_hand": ImplantHandSlot,
	"familiar":     FamiliarSlots,
	"pet_harness":  PetHarnessSlots,
}

// singleSlotNames are the scalar equipment fields.
var singleSlotNames = []string{
	"belt", "brooch", "helmet", "circlet", "goggles", "mask",
	"chest", "undershirt", "cloak", "backpack", "glove", "focus",
	"pants", "boots", "spurs",
	"weapon_main", "weapon_off", "shield", "weapon_2h", "ranged",
	"ammo_pouch", "instrument", "aura",
	"implant_spine", "implant_heart",
}

// DefaultEquipment returns the full slot map with every slot empty.
func DefaultEquipment() Equipment {
	return Equipment{
		Ring:        make([]*Item, RingSlots),
		Necklace:    make([]*Item, NecklaceSlots),
		Bracelet:    make([]*Item, BraceletSlots),
		Earring:     make([]*Item, EarringSlots),
		Anklet:      make([]*Item, AnkletSlots),
		BeltCharm:   make([]*Item, BeltCharmSlots),
		Pauldron:    make([]*Item, PauldronSlots),
		Bracer:      make([]*Item, BracerSlots),
		Greave:      make([]*Item, GreaveSlots),
		ToolQuick:   make([]*Item, ToolQuickSlots),
		Relic:       make([]*Item, RelicSlots),
		SoulCore:    make([]*Item, SoulCoreSlots),
		Totem:       make([]*Item, TotemSlots),
		OathSeal:    make([]*Item, OathSealSlots),
		RuneMatrix:  make([]*Item, RuneMatrixSlots),
		ImplantEye:  make([]*Item, ImplantEyeSlots),
		ImplantHand: make([]*Item, ImplantHandSlot),
		Familiar:    make([]*Item, FamiliarSlots),
		PetHarness:  make([]*Item, PetHarnessSlots),
	}
}
