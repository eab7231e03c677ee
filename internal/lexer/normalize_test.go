package lexer

import "testing"

func TestNormalizeStripsBOM(t *testing.T) {
	in := bomUTF8 + "let x = 1"
	out := Normalize(in)
	if out != "let x = 1" {
		t.Fatalf("expected BOM stripped, got %q", out)
	}
}

func TestNormalizeNFC(t *testing.T) {
	// "é" as 'e' + combining acute accent (NFD) vs precomposed (NFC).
	nfd := "café"
	nfc := "café"
	if Normalize(nfd) != nfc {
		t.Fatalf("NFD input was not normalized to NFC form")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	s := "already normal"
	if Normalize(s) != s {
		t.Fatalf("normalizing already-normal input changed it")
	}
}
