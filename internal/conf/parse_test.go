package conf

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue string
		wantStyle QuoteStyle
	}{
		{
			name:      "double quoted",
			input:     `DEVICE="/dev/sda"`,
			wantValue: "/dev/sda",
			wantStyle: StyleDouble,
		},
		{
			name:      "single quoted",
			input:     `GREETING='hello $USER'`,
			wantValue: "hello $USER",
			wantStyle: StyleSingle,
		},
		{
			name:      "bare",
			input:     `HOSTNAME=archbox`,
			wantValue: "archbox",
			wantStyle: StyleNone,
		},
		{
			name:      "empty double quoted",
			input:     `SWAP_SIZE=""`,
			wantValue: "",
			wantStyle: StyleDouble,
		},
		{
			name:      "empty bare",
			input:     `SWAP_SIZE=`,
			wantValue: "",
			wantStyle: StyleNone,
		},
		{
			name:      "escaped quotes",
			input:     `MOTD="say \"hi\""`,
			wantValue: `say "hi"`,
			wantStyle: StyleDouble,
		},
		{
			name:      "bare with trailing spaces",
			input:     "KEYMAP=us   ",
			wantValue: "us",
			wantStyle: StyleNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}

			entries := doc.Entries()
			if len(entries) != 1 {
				t.Fatalf("Entries length = %d, want 1", len(entries))
			}

			e := entries[0]
			if e.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", e.Value, tt.wantValue)
			}
			if e.Style != tt.wantStyle {
				t.Errorf("Style = %d, want %d", e.Style, tt.wantStyle)
			}
		})
	}
}

func TestParse_Comments(t *testing.T) {
	input := strings.Join([]string{
		"# full line comment",
		"",
		`DEVICE="/dev/sda"  # trailing comment`,
		"KEYMAP=us # bare trailing",
		`OPTS=defaults,errors=remount-ro#not-a-comment`,
	}, "\n") + "\n"

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	entries := doc.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries length = %d, want 3", len(entries))
	}

	if entries[0].Comment != "# trailing comment" {
		t.Errorf("Comment = %q, want %q", entries[0].Comment, "# trailing comment")
	}
	if entries[1].Comment != "# bare trailing" {
		t.Errorf("Comment = %q, want %q", entries[1].Comment, "# bare trailing")
	}
	if entries[1].Value != "us" {
		t.Errorf("Value = %q, want %q", entries[1].Value, "us")
	}

	// '#' without preceding whitespace stays in the value
	if entries[2].Value != "defaults,errors=remount-ro#not-a-comment" {
		t.Errorf("Value = %q, want hash kept", entries[2].Value)
	}
	if entries[2].Comment != "" {
		t.Errorf("Comment = %q, want empty", entries[2].Comment)
	}
}

func TestParse_Arrays(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantItems []Item
	}{
		{
			name:  "single line",
			input: `KERNELS=("linux" "!linux-lts")`,
			wantItems: []Item{
				{Value: "linux", Style: StyleDouble},
				{Value: "!linux-lts", Style: StyleDouble},
			},
		},
		{
			name:  "multi line",
			input: "KERNELS=(\n    \"linux\"\n    \"!linux-zen\"\n)",
			wantItems: []Item{
				{Value: "linux", Style: StyleDouble},
				{Value: "!linux-zen", Style: StyleDouble},
			},
		},
		{
			name:  "mixed quoting",
			input: `PKGS=(vim 'git' "base-devel")`,
			wantItems: []Item{
				{Value: "vim", Style: StyleNone},
				{Value: "git", Style: StyleSingle},
				{Value: "base-devel", Style: StyleDouble},
			},
		},
		{
			name:      "empty",
			input:     `PKGS=()`,
			wantItems: nil,
		},
		{
			name:  "inner comment skipped",
			input: "PKGS=(\n    vim # editor\n    git\n)",
			wantItems: []Item{
				{Value: "vim", Style: StyleNone},
				{Value: "git", Style: StyleNone},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}

			entries := doc.Entries()
			if len(entries) != 1 {
				t.Fatalf("Entries length = %d, want 1", len(entries))
			}

			e := entries[0]
			if e.Style != StyleArray {
				t.Fatalf("Style = %d, want StyleArray", e.Style)
			}
			if len(e.Items) != len(tt.wantItems) {
				t.Fatalf("Items length = %d, want %d", len(e.Items), len(tt.wantItems))
			}
			for i, want := range tt.wantItems {
				if e.Items[i] != want {
					t.Errorf("Items[%d] = %+v, want %+v", i, e.Items[i], want)
				}
			}
		})
	}
}

func TestParse_ArrayTrailingComment(t *testing.T) {
	doc, err := Parse(`KERNELS=("linux") # pick kernels`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	e := doc.Entries()[0]
	if e.Comment != "# pick kernels" {
		t.Errorf("Comment = %q, want %q", e.Comment, "# pick kernels")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{
			name:     "not an assignment",
			input:    "this is not valid",
			wantLine: 1,
		},
		{
			name:     "key starts with digit",
			input:    "2KEY=x",
			wantLine: 1,
		},
		{
			name:     "unterminated double quote",
			input:    "A=\"ok\"\nB=\"broken",
			wantLine: 2,
		},
		{
			name:     "unterminated single quote",
			input:    "B='broken",
			wantLine: 1,
		},
		{
			name:     "text after value",
			input:    `A="x" stray`,
			wantLine: 1,
		},
		{
			name:     "unterminated array",
			input:    "A=\"ok\"\nKERNELS=(\n    \"linux\"",
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("Parse should fail")
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %T, want *ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}

func TestParse_LineNumbers(t *testing.T) {
	input := strings.Join([]string{
		"# header",
		`A="1"`,
		"",
		`B="2"`,
		"KERNELS=(",
		`    "linux"`,
		")",
		`C="3"`,
	}, "\n")

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	wantLines := map[string]int{"A": 2, "B": 4, "KERNELS": 5, "C": 8}
	for _, e := range doc.Entries() {
		if want := wantLines[e.Key]; e.Line != want {
			t.Errorf("%s: Line = %d, want %d", e.Key, e.Line, want)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	doc, err := Parse("")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(doc.Entries()) != 0 {
		t.Errorf("Entries length = %d, want 0", len(doc.Entries()))
	}
	if doc.String() != "" {
		t.Errorf("String() = %q, want empty", doc.String())
	}
}
