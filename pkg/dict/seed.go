package dict

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// LoadTSV merges a tab-separated seed file into the corpus. Each line is
//
//	field<TAB>term[<TAB>scope[<TAB>count]]
//
// Blank lines and lines starting with # are skipped; a malformed count
// drops the line with a warning rather than aborting the whole seed.
// Returns how many lines were merged.
func (d *Dict) LoadTSV(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	loaded := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) < 2 || strings.TrimSpace(cols[0]) == "" || strings.TrimSpace(cols[1]) == "" {
			log.Warnf("seed line %d: want field<TAB>term, skipping", lineNo)
			continue
		}
		field := strings.TrimSpace(cols[0])
		term := cols[1]
		scope := ""
		if len(cols) >= 3 {
			scope = strings.TrimSpace(cols[2])
		}
		count := 1
		if len(cols) >= 4 {
			n, err := strconv.Atoi(strings.TrimSpace(cols[3]))
			if err != nil || n <= 0 {
				log.Warnf("seed line %d: bad count %q, skipping", lineNo, cols[3])
				continue
			}
			count = n
		}

		d.AddCount(field, scope, term, count)
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("dict: reading seed: %w", err)
	}
	return loaded, nil
}

// LoadTSVFile merges a seed file from disk.
func (d *Dict) LoadTSVFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("dict: opening seed: %w", err)
	}
	defer f.Close()
	return d.LoadTSV(f)
}
