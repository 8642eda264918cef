package interval

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
)

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		// Plain loops beat the strings/bytes split helpers for the three leading
		// BED columns.
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

var (
	browserPrefix = []byte("browser")
	trackPrefix   = []byte("track")
)

// isIgnoredBEDLine returns true for blank, comment and UCSC browser/track
// header lines.
func isIgnoredBEDLine(line []byte) bool {
	line = bytes.TrimSpace(line)
	return len(line) == 0 || line[0] == '#' ||
		bytes.HasPrefix(line, browserPrefix) || bytes.HasPrefix(line, trackPrefix)
}

// bedInterval converts the first three BED columns (0-based start, exclusive
// end) to a 1-based inclusive Interval.
func bedInterval(tokens [3][]byte) (Interval, error) {
	if len(tokens[0]) == 0 {
		return Interval{}, errors.E(errors.Invalid, "interval: empty chromosome in BED record")
	}
	start0, err := strconv.Atoi(gunsafe.BytesToString(tokens[1]))
	if err != nil {
		return Interval{}, errors.E(errors.Invalid, err)
	}
	end, err := strconv.Atoi(gunsafe.BytesToString(tokens[2]))
	if err != nil {
		return Interval{}, errors.E(errors.Invalid, err)
	}
	if start0 < 0 {
		return Interval{}, errors.E(errors.Invalid, fmt.Sprintf("interval: negative start %d in BED record", start0))
	}
	if end < start0 {
		return Interval{}, errors.E(errors.Invalid, fmt.Sprintf("interval: start %d > end %d in BED record", start0, end))
	}
	// The contig name must be copied; tokens alias the scanner buffer.
	return Interval{Contig: string(tokens[0]), Start: start0 + 1, End: end}, nil
}

// ReadBED loads the intervals of a BED stream in file order.  Only the first
// three columns are read; extra columns are ignored.  Empty intervals (start ==
// end) are dropped, since they cover no base.
func ReadBED(reader io.Reader) ([]Interval, error) {
	scanner := bufio.NewScanner(reader)
	var (
		tokens    [3][]byte
		intervals []Interval
		nEmpty    int
		lineIdx   int
	)
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if isIgnoredBEDLine(curLine) {
			continue
		}
		if getTokens(tokens[:], curLine) != 3 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("interval.ReadBED: line %d has fewer tokens than expected", lineIdx))
		}
		iv, err := bedInterval(tokens)
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("interval.ReadBED: line %d", lineIdx))
		}
		if iv.Start > iv.End {
			nEmpty++
			continue
		}
		intervals = append(intervals, iv)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if nEmpty > 0 {
		log.Debug.Printf("interval.ReadBED: skipped %d empty interval(s)", nEmpty)
	}
	return intervals, nil
}

// ReadBEDFromPath is a wrapper for ReadBED that takes a path instead of an
// io.Reader.  Gzipped files are detected from the path suffix.
func ReadBEDFromPath(ctx context.Context, path string) (intervals []Interval, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, infile, &err)
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return
		}
		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		reader = gz
	}
	intervals, err = ReadBED(reader)
	if err == nil {
		log.Printf("interval.ReadBEDFromPath: %s: %d interval(s) loaded", path, len(intervals))
	}
	return
}
