package tabular

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/ozstats/labourpipe/core/pipeline"
)

func utf16le(s string, bom bool) []byte {
	var out []byte
	if bom {
		out = append(out, 0xFF, 0xFE)
	}
	for _, r := range s {
		var u [2]byte
		binary.LittleEndian.PutUint16(u[:], uint16(r))
		out = append(out, u[:]...)
	}
	return out
}

func TestDetectAndDecode(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
		enc  string
	}{
		{"plain utf-8", []byte("State,Code\n"), "State,Code\n", "utf-8"},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("State")...), "State", "utf-8-bom"},
		{"utf-16le bom", utf16le("State", true), "State", "utf-16le"},
		{"latin-1", []byte{'s', 0xE9, 'c'}, "séc", "latin-1"},
		{"empty", nil, "", "utf-8"},
	}
	for _, c := range cases {
		got, enc, err := DetectAndDecode(c.data)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if string(got) != c.want || enc != c.enc {
			t.Errorf("%s: got %q (%s), want %q (%s)", c.name, got, enc, c.want, c.enc)
		}
	}
}

func TestParsePadsAndTruncates(t *testing.T) {
	data := []byte("a,b,c\n1,2,3\n4,5\n6,7,8,9\n")
	table, warns, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(table.Rows))
	}
	if len(warns) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warns), warns)
	}
	for _, w := range warns {
		if w.Kind != pipeline.WarnMalformedRow {
			t.Errorf("warning kind = %s", w.Kind)
		}
	}
	if got := table.Rows[1].Get("c"); got != "" {
		t.Errorf("short row column c = %q, want empty", got)
	}
	if got := table.Rows[2].Get("c"); got != "8" {
		t.Errorf("long row column c = %q, want 8", got)
	}
	// warnings carry source line numbers, header is line 1
	if warns[0].Row != 3 || warns[1].Row != 4 {
		t.Errorf("warning rows = %d, %d", warns[0].Row, warns[1].Row)
	}
}

func TestParseTrimsHeadersAndFields(t *testing.T) {
	table, _, err := Parse([]byte(" State , Code \n New South Wales , NSW \n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !table.HasColumn("State") || !table.HasColumn("Code") {
		t.Fatalf("headers = %v", table.Headers)
	}
	if got := table.Rows[0].Get("Code"); got != "NSW" {
		t.Errorf("Code = %q", got)
	}
}

func TestParseRejectsEmptyInputs(t *testing.T) {
	if _, _, err := Parse(nil); err == nil {
		t.Error("empty file should error")
	}
	if _, _, err := Parse([]byte("a,b\n")); err == nil {
		t.Error("header-only file should error")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src.csv")
	if err := os.WriteFile(path, utf16le("State,Code\nVictoria,VIC\n", true), 0o644); err != nil {
		t.Fatal(err)
	}
	table, warns, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if got := table.Rows[0].Get("State"); got != "Victoria" {
		t.Errorf("State = %q", got)
	}
	if _, _, err := ReadFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("missing file should error")
	}
}
