package fogdb_test

import (
	"testing"

	"github.com/rbignon/speedfog/pkg/fogdb"
)

func TestParseCondition_Empty(t *testing.T) {
	c, err := fogdb.ParseCondition("")
	if err != nil {
		t.Fatalf("ParseCondition(\"\") error: %v", err)
	}
	if c != nil {
		t.Fatalf("ParseCondition(\"\") = %+v, want nil", c)
	}
	if !c.IsGuaranteed() {
		t.Fatalf("nil condition must be guaranteed")
	}
}

func TestParseCondition_SingleItem(t *testing.T) {
	c, err := fogdb.ParseCondition("rusted_key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != fogdb.ConditionItem {
		t.Fatalf("Kind = %v, want ConditionItem", c.Kind)
	}
	if !c.IsGuaranteed() {
		t.Fatalf("single key-item condition must be guaranteed")
	}
	if c.ReferencesZone() {
		t.Fatalf("key-item condition must not reference a zone")
	}
}

func TestParseCondition_SingleZone(t *testing.T) {
	c, err := fogdb.ParseCondition("sunken_catacombs_cleared")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != fogdb.ConditionZone {
		t.Fatalf("Kind = %v, want ConditionZone", c.Kind)
	}
	if c.IsGuaranteed() {
		t.Fatalf("zone-reference condition must not be guaranteed")
	}
	if !c.ReferencesZone() {
		t.Fatalf("zone-reference condition must report ReferencesZone")
	}
}

func TestParseCondition_OrGroup(t *testing.T) {
	c, err := fogdb.ParseCondition("OR rusted_key ashen_idol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != fogdb.ConditionOr {
		t.Fatalf("Kind = %v, want ConditionOr", c.Kind)
	}
	if len(c.Terms) != 2 {
		t.Fatalf("len(Terms) = %d, want 2", len(c.Terms))
	}
	if !c.IsGuaranteed() {
		t.Fatalf("OR of two key items must be guaranteed")
	}
}

func TestParseCondition_AndGroupWithZone(t *testing.T) {
	c, err := fogdb.ParseCondition("AND rusted_key far_tower_state")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != fogdb.ConditionAnd {
		t.Fatalf("Kind = %v, want ConditionAnd", c.Kind)
	}
	if c.IsGuaranteed() {
		t.Fatalf("AND group containing a zone reference must not be guaranteed")
	}
	if !c.ReferencesZone() {
		t.Fatalf("AND group containing a zone reference must report ReferencesZone")
	}
}

func TestParseCondition_MalformedMultiToken(t *testing.T) {
	if _, err := fogdb.ParseCondition("rusted_key ashen_idol"); err == nil {
		t.Fatalf("expected error for bare multi-token expression without OR/AND")
	}
}

func TestParseCondition_EmptyGroup(t *testing.T) {
	if _, err := fogdb.ParseCondition("OR"); err == nil {
		t.Fatalf("expected error for OR group with no operands")
	}
}

func TestIsKeyItem(t *testing.T) {
	if !fogdb.IsKeyItem("rusted_key") {
		t.Fatalf("rusted_key should be a recognized key item")
	}
	if fogdb.IsKeyItem("far_tower_state") {
		t.Fatalf("far_tower_state should not be a recognized key item")
	}
}
