package mailvet

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// emailColumn is the header name the CSV reader looks for. When absent, the
// first column of each row is used.
const emailColumn = "email"

// ValidInputExtension reports whether the input path has one of the two
// accepted extensions (.csv, .txt).
func ValidInputExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return true
	default:
		return false
	}
}

// forEachAddress streams candidate addresses from the input file to fn,
// trimmed of surrounding whitespace. CSV inputs must carry a header row;
// plain text inputs are one address per line.
func forEachAddress(path string, fn func(address string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return eachCSVAddress(f, fn)
	}
	return eachLineAddress(f, fn)
}

func eachCSVAddress(r io.Reader, fn func(string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read input header: %w", err)
	}

	idx := 0
	for i, name := range header {
		if name == emailColumn {
			idx = i
			break
		}
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input row: %w", err)
		}
		if len(row) == 0 || idx >= len(row) {
			continue
		}
		if err := fn(strings.TrimSpace(row[idx])); err != nil {
			return err
		}
	}
}

func eachLineAddress(r io.Reader, fn func(string) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := fn(strings.TrimSpace(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
