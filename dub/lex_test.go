package dub

import "testing"

func TestLexer(t *testing.T) {
	type test struct {
		input  string
		expect []token
	}
	tests := []test{
		{
			input: "play tavern",
			expect: []token{
				{typ: typeIdentifier, text: "play"},
				{typ: typeIdentifier, text: "tavern"},
				{typ: typeEOF},
			},
		},
		{
			input: "set fade.switch 2",
			expect: []token{
				{typ: typeIdentifier, text: "set"},
				{typ: typeIdentifier, text: "fade.switch"},
				{typ: typeInt, text: "2"},
				{typ: typeEOF},
			},
		},
		{
			input: "play open-sky_2;volume   0.4",
			expect: []token{
				{typ: typeIdentifier, text: "play"},
				{typ: typeIdentifier, text: "open-sky_2"},
				{typ: typeSemicolon, text: ";"},
				{typ: typeIdentifier, text: "volume"},
				{typ: typeFloat, text: "0.4"},
				{typ: typeEOF},
			},
		},
		{
			input: "1.0",
			expect: []token{
				{typ: typeFloat, text: "1.0"},
				{typ: typeEOF},
			},
		},
		{
			input: "-1.",
			expect: []token{
				{typ: typeFloat, text: "-1."},
				{typ: typeEOF},
			},
		},
		{
			input: "-.1",
			expect: []token{
				{typ: typeFloat, text: "-.1"},
				{typ: typeEOF},
			},
		},
		{
			input: `play "open sky" 1`,
			expect: []token{
				{typ: typeIdentifier, text: "play"},
				{typ: typeString, text: `"open sky"`},
				{typ: typeInt, text: "1"},
				{typ: typeEOF},
			},
		},
	}
	for _, test := range tests {
		t.Log(test.input)
		tokens, err := lex(test.input)
		if err != nil {
			t.Errorf("unexpected lex error: %v", err)
			continue
		}
		if len(tokens) != len(test.expect) {
			t.Errorf("wrong number of tokens: want %d, got %d: %v", len(test.expect), len(tokens), tokens)
			continue
		}
		for i, tok := range tokens {
			want := test.expect[i]
			if want.typ != tok.typ || want.text != tok.text {
				t.Errorf("token %d: want %v %q, got %v %q", i, want.typ, want.text, tok.typ, tok.text)
			}
		}
	}
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{
		`play "tavern`,
		"volume 0.4x",
		"play tav#ern",
		"!",
		"volume -",
		"set fade.stop .",
		"-x",
	} {
		if _, err := lex(input); err == nil {
			t.Errorf("%q: want a lex error", input)
		}
	}
}
