package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages the diagram sources seen by one invocation.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir возвращает базовую директорию, по умолчанию текущую.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Len returns the number of stored file versions.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Add stores already normalized content and returns a new FileID, even when
// the path was added before.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(n)
	normalizedPath := normalizePath(path)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	// индекс всегда указывает на последнюю версию
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, normalizes it and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := normalize(content)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds in-memory text (stdin, tests) with the same normalization
// Load applies.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := normalize(content)
	return fileSet.Add(name, content, flags|FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions. Offsets past the
// end of the file are clamped.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fileSet.files[span.File]
	span = span.Clamp(uint32(len(f.Content))) // #nosec G115 -- проверено в Add
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Line возвращает строку с заданным номером (1-based) без '\n'.
// Если строки нет, возвращает пустую строку.
func (f *File) Line(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if lineNum > 1 {
		start = int(f.LineIdx[lineNum-2]) + 1
	}
	end := len(f.Content)
	if int(lineNum) <= len(f.LineIdx) {
		end = int(f.LineIdx[lineNum-1])
	}
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath форматирует путь к файлу: "absolute", "relative", "basename",
// иначе путь как есть.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if f.Flags&FileVirtual != 0 {
			return f.Path
		}
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	}
	return f.Path
}
