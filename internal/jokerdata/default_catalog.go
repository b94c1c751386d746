package jokerdata

// DefaultCatalogTOML is the starter set of jokers a driver falls back to
// when baseDir has no jokers.toml of its own, grounded on the teacher's
// built-in joker lineup (The Golden Joker, Chip Collector, Double Down,
// Face Dancer) plus one stateful scaling joker ported from
// original_source's rounds-accumulated Steel Joker family and one classic
// suit-conditional joker (Greedy Joker) exercising the schema's per_card
// path. Matches data/jokers.toml except that lucky_draw exists only in
// that file — that file is what a real install reads; this constant only
// covers the case where it's missing.
const DefaultCatalogTOML = `
schema_version = "1.0.0"

[[jokers]]
id = "golden_joker"
name = "The Golden Joker"
description = "Earn $4 at the end of each round"
rarity = "common"
cost = 6

[jokers.behavior.on_round_end]
type = "add_score"
money = 4

[[jokers]]
id = "chip_collector"
name = "Chip Collector"
description = "+30 Chips if played hand contains a Pair"
rarity = "common"
cost = 5

[jokers.effect]
type = "conditional"

[jokers.effect.condition]
type = "hand_type"
hand_type = "pair"

[jokers.effect.action]
type = "add_score"
chips = 30

[[jokers]]
id = "double_down"
name = "Double Down"
description = "+8 Mult if played hand contains a Pair"
rarity = "common"
cost = 6

[jokers.effect]
type = "conditional"

[jokers.effect.condition]
type = "hand_type"
hand_type = "pair"

[jokers.effect.action]
type = "add_score"
mult = 8

[[jokers]]
id = "greedy_joker"
name = "Greedy Joker"
description = "+3 Mult per scored Diamond card"
rarity = "common"
cost = 5

[jokers.effect]
type = "conditional"
per_card = true

[jokers.effect.condition]
type = "suit_scored"
suit = "diamonds"

[jokers.effect.action]
type = "add_score"
mult = 3

[[jokers]]
id = "face_dancer"
name = "Face Dancer"
description = "Face cards are scored twice"
rarity = "uncommon"
cost = 6

[jokers.effect]
type = "conditional"
per_card = true

[jokers.effect.condition]
type = "face_card_scored"

[jokers.effect.action]
type = "sequence"

[[jokers.effect.action.actions]]
type = "calculate"
formula = "card_chip_value"
result_type = "chips"

[[jokers.effect.action.actions]]
type = "retrigger"
count = 1

[[jokers]]
id = "steady_climber"
name = "Steady Climber"
description = "Gains +1 Mult for every round survived this run"
rarity = "rare"
cost = 8

[jokers.state]
[jokers.state.fields]
rounds_accumulated = 0

[jokers.effect]
type = "dynamic"

[jokers.effect.base_effect]
type = "add_score"
mult = 5

[[jokers.effect.state_modifiers]]
state_field = "rounds_accumulated"
multiplier = 0.2

[jokers.behavior.on_round_end]
type = "modify_state"
field = "rounds_accumulated"
operation = "increment"
value = 1
`
