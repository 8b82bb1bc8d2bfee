package share

import (
	"errors"
	"testing"
)

type fakeClipboard struct {
	err  error
	text string
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type fakeSheet struct {
	err   error
	title string
}

func (f *fakeSheet) Share(title, text, url string) error {
	f.title = title
	return f.err
}

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"a b", "a%20b"},
		{"Can you beat me?", "Can%20you%20beat%20me%3F"},
		{"https://x.app", "https%3A%2F%2Fx.app"},
		{"-_.!~*'()", "-_.!~*'()"},
		{"🏀", "%F0%9F%8F%80"},
	}
	for _, tt := range tests {
		if got := EncodeURIComponent(tt.in); got != tt.want {
			t.Errorf("EncodeURIComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSMSLink(t *testing.T) {
	want := "sms:?body=I%20just%20picked%20my%20March%20Madness%20bracket!%20Can%20you%20beat%20me%3F%20https%3A%2F%2Fcommish-bracket-champs.lovable.app"
	if got := SMSLink(Text, Link); got != want {
		t.Errorf("SMSLink =\n%s\nwant\n%s", got, want)
	}
}

func TestCopy(t *testing.T) {
	cb := &fakeClipboard{}
	r := Sharer{Clipboard: cb}.Copy()
	if !r.Copied || cb.text != Link {
		t.Errorf("expected link copied, got %+v (clipboard %q)", r, cb.text)
	}

	r = Sharer{Clipboard: &fakeClipboard{err: errors.New("denied")}}.Copy()
	if r.Copied || r.Message != FallbackMessage(Link) {
		t.Errorf("expected fallback, got %+v", r)
	}

	r = Sharer{}.Copy()
	if r.Copied || r.Message != "Couldn't copy automatically. Copy this link: "+Link {
		t.Errorf("nil clipboard should fall back, got %+v", r)
	}
}

func TestShare(t *testing.T) {
	sheet := &fakeSheet{}
	r := Sharer{Sheet: sheet, Clipboard: &fakeClipboard{}}.Share()
	if !r.Shared || r.Copied || sheet.title != Title {
		t.Errorf("expected share sheet, got %+v", r)
	}

	cb := &fakeClipboard{}
	r = Sharer{Sheet: &fakeSheet{err: errors.New("cancelled")}, Clipboard: cb}.Share()
	if !r.Copied || r.Message != SharedMessage {
		t.Errorf("expected copy fallback, got %+v", r)
	}

	r = Sharer{}.Share()
	if r.Copied || r.Shared || r.Message != FallbackMessage(Link) {
		t.Errorf("expected text fallback, got %+v", r)
	}
}

func TestSnapchat(t *testing.T) {
	r := Sharer{Clipboard: &fakeClipboard{}, Link: "https://example.test"}.Snapchat()
	if !r.Copied || r.Message != SnapchatMessage {
		t.Errorf("unexpected result %+v", r)
	}

	r = Sharer{Link: "https://example.test"}.Snapchat()
	if r.Message != FallbackMessage("https://example.test") {
		t.Errorf("expected fallback with custom link, got %+v", r)
	}
}
