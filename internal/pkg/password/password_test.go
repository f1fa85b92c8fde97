package password

import (
	"strings"
	"testing"
)

func TestRandom_Length(t *testing.T) {
	for _, n := range []int{1, 10, 20} {
		if got := Random(n); len(got) != n {
			t.Errorf("Random(%d) returned %d characters", n, len(got))
		}
	}
}

func TestRandom_Charset(t *testing.T) {
	const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	got := Random(200)
	for _, c := range got {
		if !strings.ContainsRune(alphanumeric, c) {
			t.Errorf("Unexpected character %q in generated password", c)
		}
	}
}

func TestRandom_NotConstant(t *testing.T) {
	if Random(20) == Random(20) {
		t.Error("Two generated passwords should not collide")
	}
}
