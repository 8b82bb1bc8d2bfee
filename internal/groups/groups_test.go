package groups

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(code, CodePrefix) || len(code) != len(CodePrefix)+codeLength {
			t.Fatalf("malformed code %q", code)
		}
		for _, c := range strings.TrimPrefix(code, CodePrefix) {
			if !strings.ContainsRune(codeChars, c) {
				t.Fatalf("code %q uses %q outside the alphabet", code, c)
			}
		}
		seen[code] = true
	}
	if len(seen) < 150 {
		t.Errorf("codes look non-random: only %d distinct out of 200", len(seen))
	}
}

func TestCodeAlphabetSkipsLookalikes(t *testing.T) {
	for _, c := range "IO01" {
		if strings.ContainsRune(codeChars, c) {
			t.Errorf("alphabet should not contain %q", c)
		}
	}
	if len(codeChars) != 32 {
		t.Errorf("expected 32 characters, got %d", len(codeChars))
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"", false},
		{"ab", false},
		{"abc", true},
		{"Mike's March Madness", true},
		{strings.Repeat("x", 30), true},
		{strings.Repeat("x", 31), false},
		{"🏀🏀🏀", true},
	}
	for _, tt := range tests {
		if got := ValidName(tt.name); got != tt.want {
			t.Errorf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCreate(t *testing.T) {
	d := NewDirectory()

	_, err := d.Create("ab", "🔥")
	if !errors.Is(err, ErrGroupNameLength) {
		t.Errorf("expected ErrGroupNameLength, got %v", err)
	}
	if Message(err) != "Group name must be 3-30 characters" {
		t.Errorf("unexpected message %q", Message(err))
	}

	g, err := d.Create("Dorm 4B", "")
	if err != nil {
		t.Fatal(err)
	}
	if g.Emoji != DefaultEmoji {
		t.Errorf("expected default emoji, got %s", g.Emoji)
	}
	if g.CreatedMessage() != `"Dorm 4B" created!` {
		t.Errorf("unexpected message %q", g.CreatedMessage())
	}
}

func TestCreatedMessageKeepsNameVerbatim(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Dorm 4B", `"Dorm 4B" created!`},
		{`The "Dawgs"`, `"The "Dawgs"" created!`},
		{`Café\tCrew`, `"Café\tCrew" created!`},
		{"🏀 Hoops", `"🏀 Hoops" created!`},
	}
	for _, tt := range tests {
		if got := (Group{Name: tt.name}).CreatedMessage(); got != tt.want {
			t.Errorf("CreatedMessage(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	d := NewDirectory()
	codes := []string{"MARCH-AAAA", "MARCH-AAAA", "MARCH-BBBB"}
	d.genCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	first, _ := d.Create("First", "🎯")
	second, err := d.Create("Second", "🎯")
	if err != nil {
		t.Fatal(err)
	}
	if first.InviteCode == second.InviteCode {
		t.Errorf("expected distinct codes, both %s", first.InviteCode)
	}
}

func TestJoin(t *testing.T) {
	d := NewDirectory()

	for _, code := range []string{"", "   "} {
		if _, _, err := d.Join(code); !errors.Is(err, ErrInviteCodeEmpty) {
			t.Errorf("Join(%q): expected ErrInviteCodeEmpty, got %v", code, err)
		}
	}

	g, _ := d.Create("Hoops Crew", "🏀")
	code, found, err := d.Join("  " + strings.ToLower(g.InviteCode) + " ")
	if err != nil {
		t.Fatal(err)
	}
	if code != g.InviteCode || found == nil || found.Name != "Hoops Crew" {
		t.Errorf("unexpected join result %q %+v", code, found)
	}

	code, found, err = d.Join("march-7x4k")
	if err != nil || code != "MARCH-7X4K" || found != nil {
		t.Errorf("unknown codes are accepted without a group, got %q %+v %v", code, found, err)
	}
	if len(d.Joined()) != 2 {
		t.Errorf("expected 2 joins, got %v", d.Joined())
	}
}
