package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestStripHTML(t *testing.T) {
	got := StripHTML("<p>hola  <b>mundo</b></p>")
	if got != "hola mundo" {
		t.Errorf("expected 'hola mundo', got %q", got)
	}
}

func TestMessageRedactsEmail(t *testing.T) {
	got := Message("escríbeme a maria@ejemplo.com por favor")
	if strings.Contains(got, "maria@ejemplo.com") {
		t.Errorf("email not redacted: %q", got)
	}
	if !strings.Contains(got, "[email]") {
		t.Errorf("expected [email] placeholder, got %q", got)
	}
}

func TestMessageRedactsPhone(t *testing.T) {
	got := Message("mi móvil es +34 612 345 678")
	if strings.Contains(got, "612") {
		t.Errorf("phone not redacted: %q", got)
	}
	if !strings.Contains(got, "[telefono]") {
		t.Errorf("expected [telefono] placeholder, got %q", got)
	}
}

func TestMessageRedactsLongNumber(t *testing.T) {
	got := Message("referencia 1234567")
	if !strings.Contains(got, "[numero]") {
		t.Errorf("expected [numero] placeholder, got %q", got)
	}
}

func TestMessageStripsHTML(t *testing.T) {
	got := Message(`hola <script>alert("x")</script> <b>mundo</b>`)
	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>") {
		t.Errorf("html not stripped: %q", got)
	}
}

func TestMessageCapsLength(t *testing.T) {
	got := Message(strings.Repeat("a", 5000))
	if len(got) != 2000 {
		t.Errorf("expected length 2000, got %d", len(got))
	}
}

func TestMessageCapsOnRuneBoundary(t *testing.T) {
	got := Message(strings.Repeat("ñ", 5000))
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid utf-8")
	}
	if n := utf8.RuneCountInString(got); n != 2000 {
		t.Errorf("expected 2000 chars, got %d", n)
	}
}

func TestMessageKeepsShortNumbers(t *testing.T) {
	got := Message("quiero 3 secciones")
	if got != "quiero 3 secciones" {
		t.Errorf("short numbers should survive, got %q", got)
	}
}
