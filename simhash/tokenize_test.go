package simhash

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation", "Hello, World!", "hello world"},
		{"space runs", "  multiple   spaces  ", "multiple spaces"},
		{"mixed case", "MiXeD CaSe", "mixed case"},
		{"case folding", "Straße", "strasse"},
		{"compatibility forms", "Ｆｕｌｌｗｉｄｔｈ１２３", "fullwidth123"},
		{"connector punctuation", "snake_case_name", "snake_case_name"},
		{"tabs and newlines", "tabs\tand\nnewlines", "tabs and newlines"},
		{"em dash", "foo—bar", "foo bar"},
		{"symbols only", "!!! ??? ***", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenizeWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "foo bar baz", []string{"foo", "bar", "baz"}},
		{"extra whitespace", " foo\t bar\n", []string{"foo", "bar"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenizeWords(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TokenizeWords(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenizeGraphemes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"ascii", "abc", []string{"a", "b", "c"}},
		{"spaces are clusters too", "ab c", []string{"a", "b", " ", "c"}},
		// Tamil ni: base consonant + vowel sign is two runes but one
		// user-perceived character.
		{"spacing mark cluster", "நி", []string{"நி"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenizeGraphemes(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TokenizeGraphemes(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShingle(t *testing.T) {
	tokens := []string{"a", "b", "c", "d"}

	tests := []struct {
		name   string
		tokens []string
		width  int
		want   []string
	}{
		{"width 3", tokens, 3, []string{"a b c", "b c d"}},
		{"width 1 is bag of words", tokens, 1, []string{"a", "b", "c", "d"}},
		{"width equals length", tokens, 4, []string{"a b c d"}},
		{"width exceeds length", tokens, 5, nil},
		{"no tokens", nil, 3, nil},
		{"non-positive width", tokens, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shingle(tt.tokens, tt.width)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Shingle(%v, %d) = %v, want %v", tt.tokens, tt.width, got, tt.want)
			}
		})
	}
}

func TestNewStopWordFilter(t *testing.T) {
	filter := NewStopWordFilter("the", "of")

	got := filter([]string{"the", "rest", "of", "the", "tokens"})
	want := []string{"rest", "tokens"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filtered tokens = %v, want %v", got, want)
	}

	if got := filter(nil); len(got) != 0 {
		t.Errorf("filtering no tokens should produce none, got %v", got)
	}
}
