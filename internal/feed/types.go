package feed

// NamedImage is a labelled icon reference used across feeds.
type NamedImage struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CPRange is a combat power range.
type CPRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RaidCombatPower holds the catch CP ranges for a raid boss.
type RaidCombatPower struct {
	Normal  CPRange `json:"normal"`
	Boosted CPRange `json:"boosted"`
}

// RaidBoss is a current raid boss entry.
type RaidBoss struct {
	Name           string          `json:"name"`
	Tier           string          `json:"tier"`
	CanBeShiny     bool            `json:"canBeShiny"`
	Types          []NamedImage    `json:"types"`
	CombatPower    RaidCombatPower `json:"combatPower"`
	BoostedWeather []NamedImage    `json:"boostedWeather"`
	Image          string          `json:"image"`
}

// Event is an in-game event with optional enrichment payloads.
type Event struct {
	EventID   string     `json:"eventID"`
	Name      string     `json:"name"`
	EventType string     `json:"eventType"`
	Heading   string     `json:"heading"`
	Link      string     `json:"link"`
	Image     string     `json:"image"`
	Start     string     `json:"start"`
	End       string     `json:"end"`
	ExtraData *ExtraData `json:"extraData,omitempty"`
}

// ExtraData holds the enrichment payloads attached to an event.
type ExtraData struct {
	Generic     *GenericData `json:"generic,omitempty"`
	RaidBattles *RaidBattles `json:"raidbattles,omitempty"`
}

// GenericData is page-scraped event content. Nil pointers and nil slices
// mean the field was absent.
type GenericData struct {
	HasSpawns             *bool               `json:"hasSpawns,omitempty"`
	HasFieldResearchTasks *bool               `json:"hasFieldResearchTasks,omitempty"`
	Spawns                []EventSpawn        `json:"spawns,omitempty"`
	EventEggs             []EventEgg          `json:"eventEggs,omitempty"`
	EventResearch         []EventResearchTask `json:"eventResearch,omitempty"`
}

// RaidBattles is the legacy raid-boss list for an event.
type RaidBattles struct {
	Bosses  []RaidBattleBoss `json:"bosses,omitempty"`
	Shinies []NamedImage     `json:"shinies,omitempty"`
}

type RaidBattleBoss struct {
	Name       string `json:"name"`
	Image      string `json:"image"`
	CanBeShiny bool   `json:"canBeShiny"`
}

type EventSpawn struct {
	Name       string `json:"name"`
	CanBeShiny bool   `json:"canBeShiny"`
}

type EventEgg struct {
	Name        string `json:"name"`
	EggDistance string `json:"eggDistance"`
	CanBeShiny  bool   `json:"canBeShiny"`
}

type EventResearchTask struct {
	Task    string       `json:"task"`
	Rewards []EventSpawn `json:"rewards"`
}

// ResearchTask is a standalone field research task.
type ResearchTask struct {
	Text    string           `json:"text"`
	Type    string           `json:"type,omitempty"`
	Rewards []ResearchReward `json:"rewards"`
}

type ResearchReward struct {
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	CanBeShiny  bool    `json:"canBeShiny"`
	CombatPower CPRange `json:"combatPower"`
}

// EggEntry is one hatchable creature in the egg pool.
type EggEntry struct {
	Name            string  `json:"name"`
	EggType         string  `json:"eggType"`
	IsAdventureSync bool    `json:"isAdventureSync"`
	Image           string  `json:"image"`
	CanBeShiny      bool    `json:"canBeShiny"`
	CombatPower     CPRange `json:"combatPower"`
	IsRegional      bool    `json:"isRegional"`
	IsGiftExchange  bool    `json:"isGiftExchange"`
	Rarity          int     `json:"rarity"`
}

// RocketLineup is a faction battle lineup with three battle slots.
type RocketLineup struct {
	Name          string       `json:"name"`
	Title         string       `json:"title"`
	Type          string       `json:"type"`
	FirstPokemon  []RocketSlot `json:"firstPokemon"`
	SecondPokemon []RocketSlot `json:"secondPokemon"`
	ThirdPokemon  []RocketSlot `json:"thirdPokemon"`
}

type RocketSlot struct {
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Types       []string `json:"types"`
	IsEncounter bool     `json:"isEncounter"`
	CanBeShiny  bool     `json:"canBeShiny"`
}

// Slots returns all three battle slots in order.
func (l RocketLineup) Slots() []RocketSlot {
	out := make([]RocketSlot, 0, len(l.FirstPokemon)+len(l.SecondPokemon)+len(l.ThirdPokemon))
	out = append(out, l.FirstPokemon...)
	out = append(out, l.SecondPokemon...)
	return append(out, l.ThirdPokemon...)
}

// Data bundles the five feeds.
type Data struct {
	Events   []Event        `json:"events"`
	Raids    []RaidBoss     `json:"raids"`
	Research []ResearchTask `json:"research"`
	Eggs     []EggEntry     `json:"eggs"`
	Rockets  []RocketLineup `json:"rockets"`
}
