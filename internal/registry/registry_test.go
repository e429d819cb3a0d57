package registry

import "testing"

func TestListIsFixedAndWellFormed(t *testing.T) {
	cats := List()
	if len(cats) == 0 {
		t.Fatalf("registry is empty")
	}
	seen := map[string]bool{}
	for _, c := range cats {
		if c.Value == "" || c.Label == "" {
			t.Fatalf("category with empty value or label: %+v", c)
		}
		if seen[c.Value] {
			t.Fatalf("duplicate category value %q", c.Value)
		}
		seen[c.Value] = true
	}
}

func TestListReturnsACopy(t *testing.T) {
	a := List()
	a[0].Value = "mutated"
	if List()[0].Value == "mutated" {
		t.Fatalf("List must not expose registry internals")
	}
}

func TestContains(t *testing.T) {
	if !Contains("Food") {
		t.Fatalf("Food must be registered")
	}
	if Contains("NotACategory") {
		t.Fatalf("unexpected category")
	}
}

func TestDefault(t *testing.T) {
	if d := Default(); !Contains(d) {
		t.Fatalf("default %q is not a registered category", d)
	}
}
