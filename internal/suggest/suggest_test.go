package suggest

import (
	"fmt"
	"testing"
)

func TestSuggest_ProductBeforeOthers(t *testing.T) {
	items := []string{"Диван1 Аристократ Синий", "Диван2 Модерн Белый"}
	tags := []string{"синий", "белый"}

	got := Suggest("ди", items, tags)
	if len(got) != 1 {
		t.Fatalf("got %v, want one suggestion", got)
	}
	if got[0] != (Suggestion{Text: "Диван", Kind: KindProduct}) {
		t.Errorf("got[0] = %+v, want {Диван product}", got[0])
	}
}

func TestSuggest_CaseInsensitiveQuery(t *testing.T) {
	items := []string{"Диван1 Аристократ Синий"}

	got := Suggest("  ДИ ", items, nil)
	if len(got) != 1 || got[0].Text != "Диван" {
		t.Errorf("got %v, want [Диван]", got)
	}
}

func TestSuggest_EmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   "} {
		got := Suggest(q, []string{"Диван"}, []string{"синий"})
		if got == nil || len(got) != 0 {
			t.Errorf("Suggest(%q) = %v, want empty non-nil", q, got)
		}
	}
}

func TestSuggest_StylesInTableOrder(t *testing.T) {
	got := Suggest("неокл", nil, nil)
	want := []Suggestion{
		{Text: "Неоклассик", Kind: KindStyle},
		{Text: "Неоклассика", Kind: KindStyle},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSuggest_TagsSkipSeenAndStyles(t *testing.T) {
	items := []string{"Стол1 Классик Серый"}
	tags := []string{"стол", "стандарт", "Серый", "стальной"}

	got := Suggest("с", items, tags)
	want := []Suggestion{
		{Text: "Стол", Kind: KindProduct},
		{Text: "Стандарт", Kind: KindStyle},
		{Text: "Серый", Kind: KindColor},
		{Text: "Стальной", Kind: KindColor},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSuggest_CapAtEight(t *testing.T) {
	var items []string
	for i := 0; i < 12; i++ {
		items = append(items, fmt.Sprintf("к%c1 X", 'а'+rune(i)))
	}

	got := Suggest("к", items, nil)
	if len(got) != MaxSuggestions {
		t.Fatalf("len = %d, want %d", len(got), MaxSuggestions)
	}
	for _, s := range got {
		if s.Kind != KindProduct {
			t.Errorf("unexpected kind %q", s.Kind)
		}
	}
}

func TestSuggest_TagCapAppliesBeforeDedup(t *testing.T) {
	var tags []string
	for i := 0; i < 10; i++ {
		tags = append(tags, "синий")
	}
	tags = append(tags, "сиреневый")

	got := Suggest("си", nil, tags)
	if len(got) != 1 || got[0].Text != "Синий" {
		t.Errorf("got %v, want only Синий", got)
	}
}

func TestSuggest_SubstringFallback(t *testing.T) {
	items := []string{"Диван1 Модерн", "Кресло Лофт"}

	got := Suggest("ван", items, []string{"синий"})
	if len(got) != 1 || got[0] != (Suggestion{Text: "Диван", Kind: KindProduct}) {
		t.Errorf("got %v, want [Диван product]", got)
	}

	got = Suggest("рн", items, nil)
	if len(got) != 1 || got[0] != (Suggestion{Text: "Модерн", Kind: KindStyle}) {
		t.Errorf("got %v, want [Модерн style]", got)
	}
}

func TestSuggest_FallbackCap(t *testing.T) {
	var items []string
	for i := 0; i < 9; i++ {
		items = append(items, fmt.Sprintf("%cклассик", 'а'+rune(i)))
	}

	got := Suggest("класс", items, nil)
	// 前方一致でスタイル「классик」が見つかるため部分一致には進まない
	if len(got) != 1 || got[0].Kind != KindStyle {
		t.Fatalf("got %v, want the style only", got)
	}

	got = Suggest("ласс", items, nil)
	if len(got) != MaxFallback {
		t.Errorf("len = %d, want %d", len(got), MaxFallback)
	}
}

func TestProductTypes(t *testing.T) {
	got := ProductTypes([]string{"Диван1 Синий", "диван2 Белый", "12", "", "  ", "Кровать"})
	want := []string{"диван", "кровать"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKindLabel(t *testing.T) {
	tests := map[Kind]string{
		KindProduct: "товар",
		KindStyle:   "стиль",
		KindColor:   "цвет",
	}
	for k, want := range tests {
		if got := k.Label(); got != want {
			t.Errorf("%s.Label() = %q, want %q", k, got, want)
		}
	}
}
