package core

// decode.go turns a CSV blob into header-keyed rows.
//
// Input handling, in order:
//   - UTF-8 BOM (0xEF 0xBB 0xBF) stripped, commonly added by Excel on Windows
//   - UTF-16 with a BOM transcoded to UTF-8
//   - Anything else that is not valid UTF-8 read as Windows-1252
//   - Text normalized to NFC so visually equal headers compare equal
//
// CSV syntax itself is delegated to encoding/csv. A syntax error fails the
// whole decode; there is no partial result.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Encoding names reported in DecodeResult.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
	EncodingCP1252  = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeResult is the decoded form of one CSV source.
type DecodeResult struct {
	Headers  []string
	Rows     []RawRow
	Warnings []string
	Encoding string
}

// Decode reads all of r and parses it as CSV with a header row.
// Blank lines and rows whose cells are all empty are skipped. Rows shorter
// than the header are padded and longer rows truncated, each with a warning.
func Decode(r io.Reader) (*DecodeResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return DecodeBytes(raw)
}

// DecodeBytes is Decode over an in-memory blob.
func DecodeBytes(raw []byte) (*DecodeResult, error) {
	text, enc, err := toUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(bytes.TrimSpace(text)) == 0 {
		return nil, ErrEmptyFile
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, decodeError(err)
	}

	res := &DecodeResult{
		Headers:  make([]string, len(header)),
		Rows:     []RawRow{},
		Encoding: enc,
	}

	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		switch prev, dup := seen[h]; {
		case h == "":
			res.Warnings = append(res.Warnings, fmt.Sprintf("Column %d has no header and will be ignored", i+1))
		case dup:
			res.Warnings = append(res.Warnings, fmt.Sprintf("Column %d repeats header %q from column %d and will be ignored", i+1, h, prev+1))
			h = ""
		default:
			seen[h] = i
		}
		res.Headers[i] = h
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, decodeError(err)
		}

		row := NewRawRow(res.Headers, record)
		if row.IsBlank() {
			continue
		}

		rowIndex := len(res.Rows) + 1
		switch {
		case len(record) < len(header):
			res.Warnings = append(res.Warnings, fmt.Sprintf("Row %d: expected %d columns, found %d; missing cells left empty", rowIndex, len(header), len(record)))
		case len(record) > len(header):
			res.Warnings = append(res.Warnings, fmt.Sprintf("Row %d: expected %d columns, found %d; extra cells ignored", rowIndex, len(header), len(record)))
		}
		res.Rows = append(res.Rows, row)
	}

	return res, nil
}

func decodeError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: line %d: %v", ErrDecode, pe.Line, pe.Err)
	}
	return fmt.Errorf("%w: %v", ErrDecode, err)
}

// toUTF8 detects the encoding of raw and returns NFC-normalized UTF-8 text.
func toUTF8(raw []byte) ([]byte, string, error) {
	var (
		text []byte
		enc  string
		err  error
	)

	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		text, enc = raw[len(bomUTF8):], EncodingUTF8
	case bytes.HasPrefix(raw, bomUTF16LE):
		enc = EncodingUTF16LE
		text, _, err = transform.Bytes(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(), raw)
	case bytes.HasPrefix(raw, bomUTF16BE):
		enc = EncodingUTF16BE
		text, _, err = transform.Bytes(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), raw)
	case utf8.Valid(raw):
		text, enc = raw, EncodingUTF8
	default:
		enc = EncodingCP1252
		text, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	}
	if err != nil {
		return nil, enc, fmt.Errorf("transcode %s: %w", enc, err)
	}

	return norm.NFC.Bytes(text), enc, nil
}
