package core

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestDecodeBytes(t *testing.T) {
	dec, err := DecodeBytes([]byte("Tool Name,Monthly Cost\nFigma,45\n\n,\nSlack,\"8,50\"\n"))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}

	if dec.Encoding != EncodingUTF8 {
		t.Errorf("Encoding = %q, want utf-8", dec.Encoding)
	}
	if len(dec.Headers) != 2 || dec.Headers[0] != "Tool Name" {
		t.Errorf("Headers = %v", dec.Headers)
	}
	if len(dec.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank rows skipped)", len(dec.Rows))
	}
	if got, _ := dec.Rows[1].Get("Monthly Cost"); got != "8,50" {
		t.Errorf("quoted cell = %q, want 8,50", got)
	}
	if len(dec.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", dec.Warnings)
	}
}

func TestDecodeBytes_Empty(t *testing.T) {
	for _, input := range []string{"", "   \n\t\n"} {
		if _, err := DecodeBytes([]byte(input)); !errors.Is(err, ErrEmptyFile) {
			t.Errorf("DecodeBytes(%q) error = %v, want ErrEmptyFile", input, err)
		}
	}
}

func TestDecodeBytes_HeaderOnly(t *testing.T) {
	dec, err := DecodeBytes([]byte("Tool Name,Monthly Cost\n"))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if len(dec.Rows) != 0 || dec.Rows == nil {
		t.Errorf("Rows = %v, want empty non-nil", dec.Rows)
	}
}

func TestDecodeBytes_SyntaxError(t *testing.T) {
	_, err := DecodeBytes([]byte("Name,Cost\n\"Figma,45\nSlack,8\n"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
	if !strings.Contains(err.Error(), "line") {
		t.Errorf("error %q should name the line", err)
	}
}

func TestDecodeBytes_Encodings(t *testing.T) {
	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Name,Cost\nCafé,5\n"))
	if err != nil {
		t.Fatal(err)
	}
	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Name,Cost\nCafé,5\n"))
	if err != nil {
		t.Fatal(err)
	}
	cp1252, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Name,Cost\nCafé,5\n"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   []byte
		wantEnc string
	}{
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "Name,Cost\nCafé,5\n"...), EncodingUTF8},
		{"utf-16le", utf16le, EncodingUTF16LE},
		{"utf-16be", utf16be, EncodingUTF16BE},
		{"windows-1252", cp1252, EncodingCP1252},
		{"decomposed accents", []byte("Name,Cost\nCafe\u0301,5\n"), EncodingUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := DecodeBytes(tt.input)
			if err != nil {
				t.Fatalf("DecodeBytes() error = %v", err)
			}
			if dec.Encoding != tt.wantEnc {
				t.Errorf("Encoding = %q, want %q", dec.Encoding, tt.wantEnc)
			}
			if dec.Headers[0] != "Name" {
				t.Errorf("first header = %q, want Name without BOM", dec.Headers[0])
			}
			if len(dec.Rows) != 1 {
				t.Fatalf("got %d rows, want 1", len(dec.Rows))
			}
			if got, _ := dec.Rows[0].Get("Name"); got != "Café" {
				t.Errorf("Name = %q, want Café", got)
			}
		})
	}
}

func TestDecodeBytes_HeaderProblems(t *testing.T) {
	dec, err := DecodeBytes([]byte("Name,,Cost,Name\nFigma,x,45,Other\n"))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}

	want := []string{
		"Column 2 has no header and will be ignored",
		`Column 4 repeats header "Name" from column 1 and will be ignored`,
	}
	if len(dec.Warnings) != len(want) {
		t.Fatalf("Warnings = %v, want %v", dec.Warnings, want)
	}
	for i := range want {
		if dec.Warnings[i] != want[i] {
			t.Errorf("Warnings[%d] = %q, want %q", i, dec.Warnings[i], want[i])
		}
	}
	if got, _ := dec.Rows[0].Get("Name"); got != "Figma" {
		t.Errorf("Name = %q, want first column to win", got)
	}
	if dec.Rows[0].Len() != 2 {
		t.Errorf("row keys = %v, want Name and Cost only", dec.Rows[0].Keys())
	}
}

func TestDecodeBytes_RaggedRows(t *testing.T) {
	dec, err := DecodeBytes([]byte("Name,Cost,Notes\nFigma,45\nSlack,8,chat,extra\n"))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}

	if len(dec.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(dec.Rows))
	}
	if got, _ := dec.Rows[0].Get("Notes"); got != "" {
		t.Errorf("padded cell = %q, want empty", got)
	}
	want := []string{
		"Row 1: expected 3 columns, found 2; missing cells left empty",
		"Row 2: expected 3 columns, found 4; extra cells ignored",
	}
	if len(dec.Warnings) != 2 || dec.Warnings[0] != want[0] || dec.Warnings[1] != want[1] {
		t.Errorf("Warnings = %v, want %v", dec.Warnings, want)
	}
}
