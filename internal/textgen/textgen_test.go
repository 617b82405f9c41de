package textgen

import (
	"reflect"
	"testing"

	"github.com/todaylotto/backend/internal/domain"
)

func TestExtractSlots(t *testing.T) {
	slots := ExtractSlots("오늘은 {LUCKY_ITEM} 그리고 {LUCKY_ITEM}, {TIME_HINT}까지")
	if len(slots) != 2 {
		t.Fatalf("got %d distinct slots, want 2: %v", len(slots), slots)
	}
	for _, k := range []string{"LUCKY_ITEM", "TIME_HINT"} {
		if _, ok := slots[k]; !ok {
			t.Errorf("missing slot %q", k)
		}
	}
}

func TestExtractSlots_IgnoresLowercase(t *testing.T) {
	slots := ExtractSlots("{lower} {MIXED_ok} {VALID_1}")
	if len(slots) != 1 {
		t.Fatalf("got %v, want only VALID_1", slots)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]string
		want     string
	}{
		{"basic", "go {PLACE} at {TIME}", map[string]string{"PLACE": "store", "TIME": "noon"}, "go store at noon"},
		{"missing slot renders empty", "a {GONE} b", nil, "a  b"},
		{"empty template", "", map[string]string{"X": "y"}, ""},
		{"no slots", "plain text", map[string]string{"X": "y"}, "plain text"},
		{"repeated slot", "{A}-{A}", map[string]string{"A": "x"}, "x-x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.template, tt.values); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_Idempotent(t *testing.T) {
	once := Render("x {A} y {B}", map[string]string{"A": "1"})
	twice := Render(once, map[string]string{"B": "2"})
	if once != twice {
		t.Errorf("rendered output re-expanded: %q -> %q", once, twice)
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" a, b ,, c ,")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitCSV() = %v, want %v", got, want)
	}
	if SplitCSV("") != nil {
		t.Error("SplitCSV(empty) should be nil")
	}
}

func TestParseCSV(t *testing.T) {
	set := ParseCSV("TAG_A, TAG_B , TAG_A")
	if len(set) != 2 || !set.Has("TAG_A") || !set.Has("TAG_B") {
		t.Errorf("ParseCSV() = %v", set)
	}
}

func TestContainsAll(t *testing.T) {
	tags := domain.NewTagSet()
	tags.Add("A")
	tags.Add("B")

	if !ContainsAll(tags, "") {
		t.Error("empty required list must be satisfied")
	}
	if !ContainsAll(tags, "A,B") {
		t.Error("A,B should be covered")
	}
	if ContainsAll(tags, "A,C") {
		t.Error("missing C should fail")
	}
}

func TestContainsAny(t *testing.T) {
	tags := domain.NewTagSet()
	tags.Add("A")

	if ContainsAny(tags, "") {
		t.Error("empty blocked list must not match")
	}
	if !ContainsAny(tags, "X,A") {
		t.Error("A is present, should match")
	}
	if ContainsAny(tags, "X,Y") {
		t.Error("no overlap, should not match")
	}
}
