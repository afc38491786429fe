package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var monthAbbr = [...]string{"ENE", "FEB", "MAR", "ABR", "MAY", "JUN", "JUL", "AGO", "SEP", "OCT", "NOV", "DIC"}

// Stamp formats t as "14NOV25 - 10_35"
func Stamp(t time.Time) string {
	return fmt.Sprintf("%02d%s%02d - %02d_%02d",
		t.Day(), monthAbbr[t.Month()-1], t.Year()%100, t.Hour(), t.Minute())
}

// OutputName derives the file name of an updated inventory from the name of
// the original one. The result is always an .xlsx file.
func OutputName(inventoryPath string, t time.Time) string {
	base := filepath.Base(inventoryPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s %s%s", base, Stamp(t), ExtXLSX)
}

// UniquePath returns path, or path with a " (n)" suffix when a file by that
// name already exists.
func UniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
