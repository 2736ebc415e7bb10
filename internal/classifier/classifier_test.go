package classifier

import (
	"reflect"
	"testing"
)

func TestClassifyNamingConventions(t *testing.T) {
	tests := []struct {
		folder string
		want   string
	}{
		{"set-a", "Set-A"},
		{"SET_b", "Set-B"},
		{"Set 1", "Set-1"},
		{"version-2", "Version-2"},
		{"v3", "v3"},
		{"test-red", "Test-Red"},
		{"a", "A"},
		{"B", "B"},
		{"variant_blue", "Variant-Blue"},
		{"control", "Control"},
		{"TREATMENT", "Treatment"},
		{"draft", "Draft"},
		{"final", "Final"},
	}
	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			c := Classify([]string{tt.folder})
			if len(c.Groups) != 1 || c.Groups[0].Name != tt.want {
				t.Errorf("Classify(%q) groups = %+v, want single group %q", tt.folder, c.Groups, tt.want)
			}
		})
	}
}

func TestClassifyOrderingIsFirstAppearance(t *testing.T) {
	c := Classify([]string{"set-b", "set-a", "set-b/extra"})
	if len(c.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", c.Groups)
	}
	if c.Groups[0].Name != "Set-B" || c.Groups[1].Name != "Set-A" {
		t.Errorf("group order = [%s %s], want first-appearance order", c.Groups[0].Name, c.Groups[1].Name)
	}
}

func TestClassifyParentSecondChance(t *testing.T) {
	// the leaf matches nothing, but its parent is a set folder
	c := Classify([]string{"set-a/assets"})
	if len(c.Groups) != 1 || c.Groups[0].Name != "Set-A" {
		t.Fatalf("expected parent-level match into Set-A, got %+v", c.Groups)
	}
	if len(c.Unmatched) != 0 {
		t.Errorf("expected no unmatched folders, got %v", c.Unmatched)
	}
}

func TestClassifyUnmatchedAreExcluded(t *testing.T) {
	c := Classify([]string{"random-stuff", "misc/things"})
	if len(c.Groups) != 0 {
		t.Fatalf("expected no groups, got %+v", c.Groups)
	}
	want := []string{"random-stuff", "misc/things"}
	if !reflect.DeepEqual(c.Unmatched, want) {
		t.Errorf("unmatched = %v, want %v", c.Unmatched, want)
	}
	if c.Accuracy != 0 {
		t.Errorf("accuracy = %f, want 0", c.Accuracy)
	}
}

func TestClassifyAccuracy(t *testing.T) {
	c := Classify([]string{"set-a", "set-b", "v1", "scratch"})
	if got, want := c.Accuracy, 0.75; got != want {
		t.Errorf("accuracy = %f, want %f", got, want)
	}
}

func TestClassifyGroupsSameCanonicalName(t *testing.T) {
	c := Classify([]string{"set-a", "SET_A", "Set a"})
	if len(c.Groups) != 1 {
		t.Fatalf("expected one merged group, got %+v", c.Groups)
	}
	if len(c.Groups[0].Folders) != 3 {
		t.Errorf("expected 3 folders in Set-A, got %v", c.Groups[0].Folders)
	}
}

func TestClassifyEmpty(t *testing.T) {
	c := Classify(nil)
	if len(c.Groups) != 0 || len(c.Unmatched) != 0 || c.Accuracy != 0 {
		t.Errorf("empty input should classify to nothing, got %+v", c)
	}
}
