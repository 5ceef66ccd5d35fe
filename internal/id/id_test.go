package id

import (
	"regexp"
	"testing"
)

func TestGenerate(t *testing.T) {
	pattern := regexp.MustCompile(`^inv_[0-9a-f]{12}$`)

	id1 := Generate("inv")
	id2 := Generate("inv")

	if !pattern.MatchString(id1) {
		t.Errorf("unexpected format: %s", id1)
	}
	if id1 == id2 {
		t.Errorf("expected unique IDs, got %s twice", id1)
	}
}
