package source

import (
	"bytes"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// normalize applies BOM removal, CRLF folding and NFC in that order.
func normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	content, hadNFC := normalizeNFC(content)
	if hadNFC {
		flags |= FileNormalizedNFC
	}
	return content, flags
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		return content[3:], true
	}
	return content, false
}

// normalizeNFC приводит составные символы к одной форме, чтобы ширина подписей
// не зависела от того, как редактор сохранил текст.
func normalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- длина файла проверяется в Add
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// количество переводов строк строго до off
	line, _ := slices.BinarySearch(lineIdx, off)
	if line == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	startOff := lineIdx[line-1] + 1
	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1} // #nosec G115
}
