package groups

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	MinNameLength = 3
	MaxNameLength = 30

	CodePrefix = "MARCH-"
	codeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength = 4

	DefaultEmoji = "🎯"
)

var (
	ErrGroupNameLength = errors.New("group name must be 3-30 characters")
	ErrInviteCodeEmpty = errors.New("invite code is empty")
)

// Message is the user-facing text for a validation error
func Message(err error) string {
	switch {
	case errors.Is(err, ErrGroupNameLength):
		return "Group name must be 3-30 characters"
	case errors.Is(err, ErrInviteCodeEmpty):
		return "Enter an invite code"
	}
	return "Something went wrong"
}

// PresetEmojis are the emoji choices offered when creating a group
var PresetEmojis = []string{"🎯", "💀", "✨", "💥", "🔥", "🏀", "👑", "🦆", "🐍", "🎲", "⚡", "🦅"}

// Group is a user-created group and the code friends join it with
type Group struct {
	Name       string `json:"name"`
	Emoji      string `json:"emoji"`
	InviteCode string `json:"inviteCode"`
}

// CreatedMessage is the confirmation shown after creating g
func (g Group) CreatedMessage() string {
	return `"` + g.Name + `" created!`
}

// JoinedMessage is the confirmation shown after joining any group
const JoinedMessage = "Joined group!"

// GenerateCode returns a fresh MARCH-XXXX invite code
func GenerateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := 0; i < codeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeChars))))
		if err != nil {
			return "", err
		}
		code[i] = codeChars[num.Int64()]
	}
	return CodePrefix + string(code), nil
}

// ValidName reports whether name is 3-30 characters long
func ValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= MinNameLength && n <= MaxNameLength
}

// NormalizeCode trims and uppercases an invite code as typed
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Directory remembers groups created and joined during this process
type Directory struct {
	mu      sync.Mutex
	byCode  map[string]Group
	joined  []string
	genCode func() (string, error)
}

// NewDirectory creates an empty directory
func NewDirectory() *Directory {
	return &Directory{byCode: make(map[string]Group), genCode: GenerateCode}
}

// Create validates name and registers a group under a new unique invite code
func (d *Directory) Create(name, emoji string) (Group, error) {
	if !ValidName(name) {
		return Group{}, ErrGroupNameLength
	}
	if emoji == "" {
		emoji = DefaultEmoji
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for {
		code, err := d.genCode()
		if err != nil {
			return Group{}, fmt.Errorf("generate invite code: %w", err)
		}
		if _, taken := d.byCode[code]; taken {
			continue
		}
		g := Group{Name: name, Emoji: emoji, InviteCode: code}
		d.byCode[code] = g
		return g, nil
	}
}

// Join accepts any non-empty code and returns it normalized. The group is
// returned too when it was created in this directory.
func (d *Directory) Join(code string) (string, *Group, error) {
	code = NormalizeCode(code)
	if code == "" {
		return "", nil, ErrInviteCodeEmpty
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.joined = append(d.joined, code)
	if g, ok := d.byCode[code]; ok {
		return code, &g, nil
	}
	return code, nil, nil
}

// Joined lists codes joined so far, oldest first
func (d *Directory) Joined() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string{}, d.joined...)
}
