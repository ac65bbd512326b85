package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 16 << 10 // 16 KiB, ограничение для тестового корпуса
	maxFuzzInput = 4 << 10
)

// handSeeds covers the grammar corners: comments, both delay positions,
// every arrow kind, keywords used as names and broken lines.
var handSeeds = []string{
	"",
	"\n\n",
	"title: T\n",
	"A -> B\n",
	"A->B",
	"A --> B\nA ---> B\nA ->> B\nA -->> B\nA --->> B\n",
	"A ->(3) B\nB -> A (50)\nA -> B (1e9)\nA -> B (-1)\nA -> B (NaN)\n",
	"A -> A\nlabel: self\n",
	"participant: title\ntitle -> label\nlabel: participant\n",
	"# only a comment\nA -> B # trailing\n",
	"A -> B\nlabel:\n",
	"A - B\n",
	"A -> \n",
	"A -> B (\n",
	"title: x\ntitle: y\n",
	"participant: A\nparticipant:\n",
	"\tA\t->\tB\t\n",
	"Ünïcode -> B\n",
	"A -> B\nlabel: 日本語のラベル\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range handSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.seq файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".seq" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
