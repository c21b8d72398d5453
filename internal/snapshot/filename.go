// Package snapshot writes composed images to disk and manages the
// auto-incrementing save target.
package snapshot

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// NextName returns path with the rightmost run of digits in the base name
// incremented and zero-padded to its original width. A base name without
// digits gets "_001" before its extension.
func NextName(path string) string {
	dir, file := filepath.Split(path)
	ext := filepath.Ext(file)
	stem := strings.TrimSuffix(file, ext)

	end := strings.LastIndexFunc(stem, isDigit) + 1
	if end == 0 {
		return dir + stem + "_001" + ext
	}
	start := end
	for start > 0 && isDigit(rune(stem[start-1])) {
		start--
	}

	digits := stem[start:end]
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		// Longer than uint64; treat as a plain name.
		return dir + stem + "_001" + ext
	}
	next := fmt.Sprintf("%0*d", len(digits), n+1)
	return dir + stem[:start] + next + stem[end:] + ext
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
