package engine

import "testing"

func TestLoadSkipTagCatalogFallsBackToDefaults(t *testing.T) {
	if err := LoadSkipTagCatalog(t.TempDir()); err != nil {
		t.Fatalf("LoadSkipTagCatalog: %v", err)
	}
	tag, ok := LookupSkipTag(TagCharm)
	if !ok {
		t.Fatal("expected default catalog to include the charm tag")
	}
	if tag.EffectType != ImmediateReward {
		t.Fatalf("expected charm tag to be an immediate reward, got %s", tag.EffectType)
	}
}

func TestLookupSkipTagUnknownIDMisses(t *testing.T) {
	if err := LoadSkipTagCatalog(t.TempDir()); err != nil {
		t.Fatalf("LoadSkipTagCatalog: %v", err)
	}
	if _, ok := LookupSkipTag(TagID("not_a_real_tag")); ok {
		t.Fatal("expected lookup of an unregistered tag id to miss")
	}
}

func TestRegisterSkipTagAddsToCatalog(t *testing.T) {
	if err := LoadSkipTagCatalog(t.TempDir()); err != nil {
		t.Fatalf("LoadSkipTagCatalog: %v", err)
	}
	RegisterSkipTag(SkipTag{ID: TagID("custom"), Name: "Custom Tag", EffectType: SpecialMechanic})
	tag, ok := LookupSkipTag(TagID("custom"))
	if !ok {
		t.Fatal("expected registered tag to be retrievable")
	}
	if tag.EffectType != SpecialMechanic {
		t.Fatalf("expected SpecialMechanic, got %s", tag.EffectType)
	}
}

func TestAllDefaultTagIDsResolve(t *testing.T) {
	if err := LoadSkipTagCatalog(t.TempDir()); err != nil {
		t.Fatalf("LoadSkipTagCatalog: %v", err)
	}
	ids := []TagID{TagCharm, TagEthereal, TagBuffoon, TagStandard, TagMeteor, TagRare, TagUncommon, TagTopUp}
	for _, id := range ids {
		if _, ok := LookupSkipTag(id); !ok {
			t.Errorf("expected default catalog to include %s", id)
		}
	}
}
