package tabular

import (
	"reflect"
	"testing"
)

func TestDecodeSheet_Basic(t *testing.T) {
	sheet := DecodeSheet("name,city\nAcme,Berlin\nGlobex,Lyon")

	if !reflect.DeepEqual(sheet.Headers, []string{"name", "city"}) {
		t.Fatalf("unexpected headers: %v", sheet.Headers)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0]["name"] != "Acme" || sheet.Rows[1]["city"] != "Lyon" {
		t.Errorf("unexpected rows: %v", sheet.Rows)
	}
}

func TestDecodeSheet_Empty(t *testing.T) {
	for _, input := range []string{"", "\n", "\r\n\r\n", "   \n"} {
		sheet := DecodeSheet(input)
		if len(sheet.Rows) != 0 {
			t.Errorf("input %q: expected no rows, got %d", input, len(sheet.Rows))
		}
	}
}

func TestDecodeSheet_QuotedCells(t *testing.T) {
	sheet := DecodeSheet("name,note\nAcme,\"Hello, \"\"world\"\"\n\"")

	if len(sheet.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(sheet.Rows))
	}
	row := sheet.Rows[0]
	if row["name"] != "Acme" {
		t.Errorf("name = %q", row["name"])
	}
	if row["note"] != "Hello, \"world\"\n" {
		t.Errorf("note = %q, want embedded comma, quotes, and newline preserved", row["note"])
	}
}

func TestDecodeSheet_UnterminatedQuote(t *testing.T) {
	sheet := DecodeSheet("a,b\n1,\"open ended")

	if len(sheet.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0]["b"] != "open ended" {
		t.Errorf("b = %q", sheet.Rows[0]["b"])
	}
}

func TestDecodeSheet_PadAndTruncate(t *testing.T) {
	sheet := DecodeSheet("a,b,c\n1,2\n1,2,3,4")

	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	short := sheet.Rows[0]
	if short["a"] != "1" || short["b"] != "2" || short["c"] != "" {
		t.Errorf("short row not padded: %v", short)
	}
	long := sheet.Rows[1]
	if len(long) != 3 || long["c"] != "3" {
		t.Errorf("long row not truncated to header width: %v", long)
	}
}

func TestDecodeSheet_CRLFAndBlankLines(t *testing.T) {
	sheet := DecodeSheet("a,b\r\n\r\n1,2\r\n")

	if len(sheet.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0]["b"] != "2" {
		t.Errorf("b = %q", sheet.Rows[0]["b"])
	}
}

func TestDecodeSheet_TrimsCells(t *testing.T) {
	sheet := DecodeSheet(" a , b \n 1 , 2 ")

	if !reflect.DeepEqual(sheet.Headers, []string{"a", "b"}) {
		t.Fatalf("headers not trimmed: %v", sheet.Headers)
	}
	if sheet.Rows[0]["a"] != "1" {
		t.Errorf("cell not trimmed: %q", sheet.Rows[0]["a"])
	}
}

func TestEncodeRows_EmptyInput(t *testing.T) {
	if out := EncodeRows(nil, nil); out != "" {
		t.Errorf("expected empty string without a header line, got %q", out)
	}
	if out := EncodeRows([]Row{}, []string{"a", "b"}); out != "" {
		t.Errorf("explicit headers must not force a header-only line, got %q", out)
	}
}

func TestEncodeRows_QuotingAndMissingKeys(t *testing.T) {
	rows := []Row{
		{"name": "Acme", "note": "Hello, \"world\"\n"},
		{"name": "Globex"},
	}
	out := EncodeRows(rows, []string{"name", "note"})

	want := "name,note\nAcme,\"Hello, \"\"world\"\"\n\"\nGlobex,"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestEncodeRows_FirstSeenHeaderUnion(t *testing.T) {
	rows := []Row{
		{"b": "1"},
		{"a": "2", "b": "3"},
	}
	out := EncodeRows(rows, nil)

	want := "b,a\n1,\n3,2"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRoundTrip(t *testing.T) {
	rows := []Row{
		{"name": "Acme", "amount": "1,200", "when": "2024-03-14"},
		{"name": "Glo\"bex", "amount": "15", "when": "2024-03-15"},
	}
	order := []string{"name", "amount", "when"}

	decoded := DecodeSheet(EncodeRows(rows, order))

	if !reflect.DeepEqual(decoded.Headers, order) {
		t.Fatalf("headers changed: %v", decoded.Headers)
	}
	if !reflect.DeepEqual(decoded.Rows, rows) {
		t.Errorf("round trip changed rows:\n got %v\nwant %v", decoded.Rows, rows)
	}
}
