// Package share builds the challenge link and drives the copy/share actions
// of the Share screen. The clipboard and the share sheet are collaborators;
// when either is missing or fails, the user gets a text fallback instead.
package share

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
)

const (
	Link  = "https://commish-bracket-champs.lovable.app"
	Text  = "I just picked my March Madness bracket! Can you beat me?"
	Title = "Final Four 101"

	SharedMessage   = "Link copied to clipboard!"
	SnapchatMessage = "Link copied! Paste it in your Snapchat chat or story"
)

var ErrNoClipboard = errors.New("clipboard unavailable")

// Clipboard writes text to the user's clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// Sheet opens the platform share sheet
type Sheet interface {
	Share(title, text, url string) error
}

// SystemClipboard is the OS clipboard
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	return clipboard.WriteAll(text)
}

// FallbackMessage is shown when the link could not be copied automatically
func FallbackMessage(link string) string {
	return "Couldn't copy automatically. Copy this link: " + link
}

// Result is the outcome of one share action
type Result struct {
	Copied  bool   `json:"copied"`
	Shared  bool   `json:"shared"`
	Message string `json:"message,omitempty"`
}

// Sharer performs the Share screen actions. Nil collaborators count as unavailable.
type Sharer struct {
	Clipboard Clipboard
	Sheet     Sheet
	Link      string
}

func (s Sharer) link() string {
	if s.Link == "" {
		return Link
	}
	return s.Link
}

func (s Sharer) copyLink() Result {
	if s.Clipboard == nil {
		return Result{Message: FallbackMessage(s.link())}
	}
	if err := s.Clipboard.WriteAll(s.link()); err != nil {
		logger.Debug("Clipboard write failed", "error", err)
		return Result{Message: FallbackMessage(s.link())}
	}
	return Result{Copied: true}
}

// Copy copies the link
func (s Sharer) Copy() Result {
	return s.copyLink()
}

// Share opens the share sheet, falling back to copying the link
func (s Sharer) Share() Result {
	if s.Sheet != nil {
		if err := s.Sheet.Share(Title, Text, s.link()); err == nil {
			return Result{Shared: true}
		}
	}
	r := s.copyLink()
	if r.Copied {
		r.Message = SharedMessage
	}
	return r
}

// Snapchat copies the link for pasting into a chat
func (s Sharer) Snapchat() Result {
	r := s.copyLink()
	if r.Copied {
		r.Message = SnapchatMessage
	}
	return r
}

// SMSLink is the sms: deep link prefilled with the challenge text and link
func SMSLink(text, link string) string {
	return "sms:?body=" + EncodeURIComponent(text+" "+link)
}

// EncodeURIComponent percent-encodes s, leaving A-Z a-z 0-9 and -_.!~*'() as is
func EncodeURIComponent(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
