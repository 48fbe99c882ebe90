package catalog

import "testing"

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"диван", "Диван"},
		{"ДИВАН", "Диван"},
		{"синий", "Синий"},
		{"хай-тек", "Хай-тек"},
		{"", ""},
		{"a", "A"},
	}
	for _, tt := range tests {
		if got := Capitalize(tt.in); got != tt.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	if Fold("Белый") != Fold("БЕЛЫЙ") {
		t.Error("Fold should ignore case for Cyrillic")
	}
	if !EqualFold("Blue", "blue") {
		t.Error("EqualFold(Blue, blue) should be true")
	}
	if EqualFold("blue", "orange") {
		t.Error("EqualFold(blue, orange) should be false")
	}
}

func TestFirstWord(t *testing.T) {
	if got := FirstWord("  Диван1 Аристократ Синий"); got != "Диван1" {
		t.Errorf("FirstWord = %q, want %q", got, "Диван1")
	}
	if got := FirstWord("   "); got != "" {
		t.Errorf("FirstWord(blank) = %q, want empty", got)
	}
}

func TestStyleKey(t *testing.T) {
	tests := map[string]string{
		"неоклассик":  "neoclassic",
		"неоклассика": "neoclassic",
		"хай-тек":     "hi-tech",
		"стандарт":    "standard",
	}
	for ru, want := range tests {
		got, ok := StyleKey(ru)
		if !ok || got != want {
			t.Errorf("StyleKey(%q) = (%q, %v), want (%q, true)", ru, got, ok, want)
		}
	}
	if _, ok := StyleKey("барокко"); ok {
		t.Error("unknown style should not map")
	}
}

func TestCategoryForType(t *testing.T) {
	if name, ok := CategoryForType("стелаж"); !ok || name != CategoryStorage {
		t.Errorf("CategoryForType(стелаж) = (%q, %v)", name, ok)
	}
	if name, ok := CategoryForType("торшер"); !ok || name != CategoryLighting {
		t.Errorf("CategoryForType(торшер) = (%q, %v)", name, ok)
	}
	if _, ok := CategoryForType("пуф"); ok {
		t.Error("unknown type should not map")
	}
}

func TestSuggestStyles_ReturnsCopy(t *testing.T) {
	styles := SuggestStyles()
	if len(styles) != 7 {
		t.Fatalf("len = %d, want 7", len(styles))
	}
	styles[0] = "changed"
	if SuggestStyles()[0] != "стандарт" {
		t.Error("SuggestStyles should return a copy")
	}
	if !IsSuggestStyle("неоклассика") {
		t.Error("неоклассика should be in the vocabulary")
	}
	if IsSuggestStyle("лофт") {
		t.Error("лофт is not part of the suggestion vocabulary")
	}
}

func TestCategoryNames(t *testing.T) {
	names := CategoryNames()
	if len(names) != 6 {
		t.Fatalf("len = %d, want 6", len(names))
	}
	seen := map[string]bool{}
	for _, n := range typeCategories {
		seen[n] = true
	}
	for _, n := range names {
		if !seen[n] {
			t.Errorf("category %q has no product type", n)
		}
	}
}
