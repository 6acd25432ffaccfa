package crawler

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"ppigraph/internal/logger"
	"ppigraph/internal/mitab"
)

// ScanStats counts lines seen by a scan, excluding the header.
type ScanStats struct {
	LinesRead int
	Malformed int
}

// Crawler streams decoded records out of a MITAB file.
type Crawler struct {
	maxLineBytes int
}

// NewCrawler creates a new crawler instance.
func NewCrawler() *Crawler {
	return &Crawler{maxLineBytes: 16 * 1024 * 1024}
}

// Scan validates the header, then decodes every following line and hands it
// to onRecord together with its 1-based line number. Malformed lines, and
// lines longer than the line limit, are counted and skipped. A header
// mismatch aborts before any record is emitted.
func (c *Crawler) Scan(r io.Reader, onRecord func(line int, rec *mitab.Record)) (ScanStats, error) {
	var stats ScanStats

	br := bufio.NewReaderSize(r, 64*1024)

	header, _, err := c.readLine(br)
	if err == io.EOF {
		return stats, fmt.Errorf("empty input: %w", mitab.ErrHeaderMismatch)
	}
	if err != nil {
		return stats, fmt.Errorf("failed to read header: %w", err)
	}
	if err := mitab.CheckHeader(header); err != nil {
		return stats, err
	}

	lineNum := 1
	for {
		line, tooLong, err := c.readLine(br)
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read line %d: %w", lineNum+1, err)
		}
		lineNum++
		stats.LinesRead++

		if tooLong {
			stats.Malformed++
			logger.Debug("skipping oversized line", "line", lineNum, "limit", c.maxLineBytes)
			continue
		}

		rec, err := mitab.Parse(line)
		if err != nil {
			if !errors.Is(err, mitab.ErrMalformedRecord) {
				return stats, err
			}
			stats.Malformed++
			logger.Debug("skipping malformed line", "line", lineNum, "err", err)
			continue
		}
		onRecord(lineNum, rec)
	}
}

// readLine returns the next line without its terminator. A line over
// maxLineBytes is consumed to its end and reported as tooLong with no text.
// io.EOF is returned only when no line is left.
func (c *Crawler) readLine(br *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	started := false
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			if err == io.EOF && started {
				return string(buf), tooLong, nil
			}
			return "", false, err
		}
		started = true
		if !tooLong {
			if len(buf)+len(frag) > c.maxLineBytes {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, frag...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}
