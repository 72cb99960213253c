package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/cesargomez89/sparkify/internal/constants"
)

// ReadRecords returns the non-blank lines of a line-delimited JSON file.
// Each returned slice is an independent copy.
func ReadRecords(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), constants.MaxRecordBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		records = append(records, bytes.Clone(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}
