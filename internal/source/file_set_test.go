package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("flow.seq", []byte("A -> B\n"), 0)
	id2 := fs.Add("flow.seq", []byte("B -> A\n"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids %d, %d", id1, id2)
	}

	// индекс указывает на последнюю версию
	latest, ok := fs.GetLatest("flow.seq")
	if !ok || latest != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latest, ok)
	}

	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "A -> B\n" {
		t.Errorf("first version changed: %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("expected 2 files, got %d", fs.Len())
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		flags FileFlags
	}{
		{"plain", "A -> B\n", "A -> B\n", 0},
		{"crlf", "A -> B\r\nlabel: x\r\n", "A -> B\nlabel: x\n", FileNormalizedCRLF},
		{"lone cr kept", "a\rb\n", "a\rb\n", 0},
		{"bom", "\xEF\xBB\xBFtitle: t\n", "title: t\n", FileHadBOM},
		// e + combining acute -> é
		{"nfc", "label: cafe\u0301\n", "label: caf\u00e9\n", FileNormalizedNFC},
		{"all", "\xEF\xBB\xBFe\u0301\r\n", "\u00e9\n", FileHadBOM | FileNormalizedCRLF | FileNormalizedNFC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags := normalize([]byte(tt.in))
			if string(got) != tt.want {
				t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if flags != tt.flags {
				t.Errorf("flags = %b, want %b", flags, tt.flags)
			}
		})
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("<stdin>", []byte("A -> B\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "A -> B\n" {
		t.Errorf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileVirtual == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("unexpected flags %b", f.Flags)
	}
	if got := f.FormatPath("relative", "/somewhere"); got != "<stdin>" {
		t.Errorf("virtual path rewritten: %q", got)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.seq", []byte("A -> B\nB ->\n"))

	tests := []struct {
		span       Span
		start, end LineCol
	}{
		{Span{File: id, Start: 0, End: 1}, LineCol{1, 1}, LineCol{1, 2}},
		// '\n' принадлежит строке, которую завершает
		{Span{File: id, Start: 6, End: 7}, LineCol{1, 7}, LineCol{2, 1}},
		{Span{File: id, Start: 11, End: 11}, LineCol{2, 5}, LineCol{2, 5}},
		// за концом файла - обрезаем
		{Span{File: id, Start: 40, End: 50}, LineCol{3, 1}, LineCol{3, 1}},
	}
	for _, tt := range tests {
		start, end := fs.Resolve(tt.span)
		if start != tt.start || end != tt.end {
			t.Errorf("Resolve(%v) = %+v..%+v, want %+v..%+v", tt.span, start, end, tt.start, tt.end)
		}
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	// α занимает 2 байта, колонки считаются в байтах
	id := fs.AddVirtual("t.seq", []byte("α\n"))
	start, end := fs.Resolve(Span{File: id, Start: 0, End: 1})
	if start != (LineCol{1, 1}) || end != (LineCol{1, 2}) {
		t.Errorf("unexpected %+v..%+v", start, end)
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("t.seq", []byte("title: x\n\nA -> B")))

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "title: x"},
		{2, ""},
		{3, "A -> B"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.Line(tt.line); got != tt.want {
			t.Errorf("Line(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.seq")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFA -> B\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "A -> B\n" {
		t.Errorf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags not recorded: %b", f.Flags)
	}
	if got := f.FormatPath("relative", fs.BaseDir()); got != "flow.seq" {
		t.Errorf("relative path = %q", got)
	}
	if got := f.FormatPath("basename", ""); got != "flow.seq" {
		t.Errorf("basename = %q", got)
	}

	if _, err := fs.Load(filepath.Join(dir, "missing.seq")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")

	got, err := RelativePath(filepath.Join(base, "nested", "a.seq"), base)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != "nested/a.seq" {
		t.Errorf("expected relative path, got %q", got)
	}

	// вне базы - абсолютный путь
	outside := filepath.Join(tmp, "other", "a.seq")
	got, err = RelativePath(outside, base)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != normalizePath(outside) {
		t.Errorf("expected absolute fallback %q, got %q", normalizePath(outside), got)
	}
}

func TestSpan(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 5}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 20}); got != a {
		t.Errorf("Cover across files must be a no-op, got %v", got)
	}
	if a.Len() != 4 || a.Empty() {
		t.Errorf("unexpected len/empty for %v", a)
	}
	if got := a.Clamp(6); got != (Span{File: 1, Start: 4, End: 6}) {
		t.Errorf("Clamp = %v", got)
	}
	if got := a.Clamp(2); !got.Empty() {
		t.Errorf("Clamp past start must be empty, got %v", got)
	}
	if a.String() != "1:4-8" {
		t.Errorf("String = %q", a.String())
	}
}
