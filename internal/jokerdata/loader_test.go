package jokerdata

import "testing"

const validToml = `
schema_version = "1.0.0"

[[jokers]]
id = "joker_mult"
name = "Mult Joker"
rarity = "common"
cost = 5

[jokers.effect]
type = "scoring"
mult = 4
`

func TestLoadCatalogBytesParsesAValidCatalog(t *testing.T) {
	cat, err := LoadCatalogBytes([]byte(validToml))
	if err != nil {
		t.Fatalf("LoadCatalogBytes: %v", err)
	}
	if len(cat.Jokers) != 1 {
		t.Fatalf("expected 1 joker, got %d", len(cat.Jokers))
	}
	if cat.Jokers[0].Effect.Mult != 4 {
		t.Fatalf("expected mult 4, got %d", cat.Jokers[0].Effect.Mult)
	}
}

func TestLoadCatalogBytesRejectsUnsupportedSchemaVersion(t *testing.T) {
	bad := `
schema_version = "0.9.0"
[[jokers]]
id = "j"
name = "J"
rarity = "common"
[jokers.effect]
type = "scoring"
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected unsupported schema_version to be rejected")
	}
}

func TestLoadCatalogBytesRejectsDuplicateIDs(t *testing.T) {
	dup := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J1"
rarity = "common"
[jokers.effect]
type = "scoring"

[[jokers]]
id = "j"
name = "J2"
rarity = "common"
[jokers.effect]
type = "scoring"
`
	if _, err := LoadCatalogBytes([]byte(dup)); err == nil {
		t.Fatal("expected duplicate joker id to be rejected")
	}
}

func TestLoadCatalogBytesRejectsMissingID(t *testing.T) {
	bad := `
schema_version = "1.0.0"
[[jokers]]
name = "No ID"
rarity = "common"
[jokers.effect]
type = "scoring"
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected a joker with no id to be rejected")
	}
}

func TestLoadCatalogBytesRejectsInvalidRarity(t *testing.T) {
	bad := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J"
rarity = "mythical"
[jokers.effect]
type = "scoring"
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected an invalid rarity to be rejected")
	}
}

func TestLoadCatalogBytesRejectsCostOutOfRange(t *testing.T) {
	bad := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J"
rarity = "common"
cost = 50000
[jokers.effect]
type = "scoring"
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected an out-of-range cost to be rejected")
	}
}

func TestLoadCatalogBytesRejectsScoringValuesOutOfRange(t *testing.T) {
	bad := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J"
rarity = "common"
[jokers.effect]
type = "scoring"
chips = 999999
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected out-of-range chips to be rejected")
	}
}

func TestLoadCatalogBytesRejectsConditionalMissingCondition(t *testing.T) {
	bad := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J"
rarity = "common"
[jokers.effect]
type = "conditional"
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected a conditional effect with no condition to be rejected")
	}
}

func TestLoadCatalogBytesAcceptsConditionalWithConditionAndAction(t *testing.T) {
	good := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J"
rarity = "common"
[jokers.effect]
type = "conditional"
[jokers.effect.condition]
type = "money_less_than"
amount = 5
[jokers.effect.action]
type = "add_score"
chips = 10
`
	if _, err := LoadCatalogBytes([]byte(good)); err != nil {
		t.Fatalf("expected a well-formed conditional effect to validate, got %v", err)
	}
}

func TestLoadCatalogBytesRejectsUnknownConditionType(t *testing.T) {
	bad := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J"
rarity = "common"
[jokers.effect]
type = "conditional"
[jokers.effect.condition]
type = "made_up_condition"
[jokers.effect.action]
type = "add_score"
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected an unknown condition type to be rejected")
	}
}

func TestLoadCatalogBytesRejectsEmptyAllCondition(t *testing.T) {
	bad := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J"
rarity = "common"
[jokers.effect]
type = "conditional"
[jokers.effect.condition]
type = "all"
[jokers.effect.action]
type = "add_score"
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected an 'all' condition with no sub-conditions to be rejected")
	}
}

func TestLoadCatalogBytesRejectsDynamicMissingBaseEffect(t *testing.T) {
	bad := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J"
rarity = "common"
[jokers.effect]
type = "dynamic"
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected a dynamic effect with no base_effect to be rejected")
	}
}

func TestLoadCatalogBytesRejectsUnknownActionType(t *testing.T) {
	bad := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J"
rarity = "common"
[jokers.effect]
type = "conditional"
[jokers.effect.condition]
type = "always"
[jokers.effect.action]
type = "not_a_real_action"
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected an unknown action type to be rejected")
	}
}

func TestLoadCatalogBytesValidatesNestedSequenceActions(t *testing.T) {
	bad := `
schema_version = "1.0.0"
[[jokers]]
id = "j"
name = "J"
rarity = "common"
[jokers.effect]
type = "conditional"
[jokers.effect.condition]
type = "always"
[jokers.effect.action]
type = "sequence"
[[jokers.effect.action.actions]]
type = "add_score"
chips = 999999
`
	if _, err := LoadCatalogBytes([]byte(bad)); err == nil {
		t.Fatal("expected an out-of-range nested sequence action to be rejected")
	}
}

func TestLoadCatalogMissingFileErrors(t *testing.T) {
	if _, err := LoadCatalog("/nonexistent/path/jokers.toml"); err == nil {
		t.Fatal("expected loading a missing file to error")
	}
}
