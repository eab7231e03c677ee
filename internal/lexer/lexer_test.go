package lexer

import "testing"

func collect(src string) []Token {
	l := New(src, "test.bry")
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF || tok.Kind == ILLEGAL {
			break
		}
	}
	return toks
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want ...Kind) {
	t.Helper()
	got := kinds(collect(src))
	if len(got) != len(want) {
		t.Fatalf("%q: got %d tokens %v, want %d %v", src, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v", src, i, got[i], want[i])
		}
	}
}

func TestIdentifiersAndKeywords(t *testing.T) {
	assertKinds(t, "let x = func", LET, IDENT, ASSIGN, FUNC, EOF)
}

func TestLineAndBlockComments(t *testing.T) {
	assertKinds(t, "let x // trailing\n = 1 /* mid */ + 2", LET, IDENT, ASSIGN, INT, PLUS, INT, EOF)
}

func TestIntegerBases(t *testing.T) {
	toks := collect("0b1010 0o17 0xFF 42")
	for i, want := range []string{"0b1010", "0o17", "0xFF", "42"} {
		if toks[i].Kind != INT {
			t.Fatalf("token %d: expected INT, got %v", i, toks[i].Kind)
		}
		if toks[i].Value != want {
			t.Fatalf("token %d: expected %q, got %q", i, want, toks[i].Value)
		}
	}
}

func TestUnderscoresInNumericLiterals(t *testing.T) {
	toks := collect("1_000_000")
	if toks[0].Kind != INT || toks[0].Value != "1_000_000" {
		t.Fatalf("unexpected token: %+v", toks[0])
	}
}

func TestFloatLiteralsAndExponents(t *testing.T) {
	toks := collect("3.14 1e10 2.5e-3")
	for i, want := range []string{"3.14", "1e10", "2.5e-3"} {
		if toks[i].Kind != FLOAT {
			t.Fatalf("token %d: expected FLOAT, got %v", i, toks[i].Kind)
		}
		if toks[i].Value != want {
			t.Fatalf("token %d: expected %q, got %q", i, want, toks[i].Value)
		}
	}
}

func TestDotNotFollowedByDigitIsNotAFloat(t *testing.T) {
	assertKinds(t, "3.method", INT, DOT, IDENT, EOF)
}

func TestStringLiteralEscapes(t *testing.T) {
	toks := collect(`"a\nb\t\"c\""`)
	if toks[0].Kind != STRING {
		t.Fatalf("expected STRING, got %v", toks[0].Kind)
	}
	want := "a\nb\t\"c\""
	if toks[0].Value != want {
		t.Fatalf("got %q, want %q", toks[0].Value, want)
	}
}

func TestStringLiteralRejectsEmbeddedNewline(t *testing.T) {
	l := New("\"a\nb\"", "t.bry")
	l.Next()
	if l.Err() == nil {
		t.Fatalf("expected lexical error for newline in string literal")
	}
}

func TestRuneLiteral(t *testing.T) {
	toks := collect(`'a' '\n' '\''`)
	want := []string{"a", "\n", "'"}
	for i, w := range want {
		if toks[i].Kind != RUNE || toks[i].Value != w {
			t.Fatalf("token %d: got %+v, want value %q", i, toks[i], w)
		}
	}
}

func TestDirectiveTokenIsNameOnly(t *testing.T) {
	toks := collect("#if OS == \"linux\"")
	if toks[0].Kind != DIRECTIVE || toks[0].Value != "if" {
		t.Fatalf("expected DIRECTIVE(if), got %+v", toks[0])
	}
	if toks[1].Kind != IDENT || toks[1].Value != "OS" {
		t.Fatalf("expected IDENT(OS) re-lexed normally, got %+v", toks[1])
	}
}

func TestOperators(t *testing.T) {
	assertKinds(t, "<<= >>= << >> <= >= == != && || ++ --",
		SHLEQ, SHREQ, SHL, SHR, LTE, GTE, EQ, NEQ, LAND, LOR, INC, DEC, EOF)
}

func TestTabWidthIsFourColumns(t *testing.T) {
	l := New("\tx", "t.bry")
	tok := l.Next()
	if tok.Col != 5 {
		t.Fatalf("expected x after a leading tab to start at column 5, got %d", tok.Col)
	}
}

func TestLineTrackingAcrossNewlines(t *testing.T) {
	l := New("x\ny", "t.bry")
	first := l.Next()
	second := l.Next()
	if first.Line != 1 {
		t.Fatalf("expected first token on line 1, got %d", first.Line)
	}
	if second.Line != 2 {
		t.Fatalf("expected second token on line 2, got %d", second.Line)
	}
}

func TestUnknownCodepointIsIllegal(t *testing.T) {
	l := New("$", "t.bry")
	tok := l.Next()
	if tok.Kind != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %v", tok.Kind)
	}
	if l.Err() == nil {
		t.Fatalf("expected lexical error recorded")
	}
}
