package item

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{name: "tier1 name", input: "tier1", want: KindTier1},
		{name: "tier2 upper", input: "TIER2", want: KindTier2},
		{name: "tier3 number", input: "3", want: KindTier3},
		{name: "padded", input: "  tier2 ", want: KindTier2},
		{name: "unknown", input: "tier4", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseKind(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKind_StringAndTier(t *testing.T) {
	for i, k := range Kinds {
		if !k.Valid() {
			t.Errorf("expected %v to be valid", k)
		}
		if k.Tier() != i+1 {
			t.Errorf("expected %v tier %d, got %d", k, i+1, k.Tier())
		}
		parsed, err := ParseKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("expected %q to parse back to %v, got %v (err %v)", k.String(), k, parsed, err)
		}
	}
	if Kind(7).Valid() {
		t.Error("expected kind 7 to be invalid")
	}
}

func TestNewItemID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewItemID()
		if !IsItemID(id) {
			t.Fatalf("expected %q to be recognised as an item id", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = true
	}
}

func TestIsItemID_LegacyFormat(t *testing.T) {
	if IsItemID("-1234.40.7128.-74.006") {
		t.Error("expected legacy handle.lat.lon id not to be recognised as a generated id")
	}
}
