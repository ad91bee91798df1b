package workload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/inference-sim/teller-sim/sim"
	"github.com/sirupsen/logrus"
)

// ErrTruncatedRecord is returned when the input ends between an arrival time
// and its service duration.
var ErrTruncatedRecord = errors.New("arrival time without service duration")

// TextSource reads whitespace-separated input: an integer teller count, then
// (arrival, service) pairs of real numbers. Line breaks are not significant.
// It implements sim.Source.
type TextSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	name    string

	tellersRead bool
	tellers     int
	records     int
}

// NewTextSource reads from r. name labels error messages.
func NewTextSource(r io.Reader, name string) *TextSource {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &TextSource{scanner: sc, name: name}
}

// OpenFile opens path as a TextSource. Close releases the file.
func OpenFile(path string) (*TextSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	src := NewTextSource(f, path)
	src.closer = f
	return src, nil
}

// Close releases the underlying file, if any.
func (s *TextSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Tellers returns the teller count, reading it on first use.
func (s *TextSource) Tellers() (int, error) {
	if s.tellersRead {
		return s.tellers, nil
	}
	tok, err := s.token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%s: empty input", s.name)
		}
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%s: teller count %q: %w", s.name, tok, err)
	}
	s.tellersRead = true
	s.tellers = n
	logrus.Debugf("%s: %d tellers", s.name, n)
	return n, nil
}

// Next returns the next customer, or io.EOF at a clean end of input.
func (s *TextSource) Next() (sim.Customer, error) {
	if !s.tellersRead {
		if _, err := s.Tellers(); err != nil {
			return sim.Customer{}, err
		}
	}
	arrival, err := s.float("arrival time")
	if err != nil {
		return sim.Customer{}, err
	}
	service, err := s.float("service duration")
	if errors.Is(err, io.EOF) {
		return sim.Customer{}, fmt.Errorf("%s: record %d: %w", s.name, s.records+1, ErrTruncatedRecord)
	}
	if err != nil {
		return sim.Customer{}, err
	}
	if service < 0 {
		return sim.Customer{}, fmt.Errorf("%s: record %d: negative service duration %g", s.name, s.records+1, service)
	}
	s.records++
	return sim.Customer{ID: s.records, Arrival: arrival, Service: service}, nil
}

func (s *TextSource) float(what string) (float64, error) {
	tok, err := s.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: record %d: %s %q: %w", s.name, s.records+1, what, tok, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: record %d: %s must be finite, got %q", s.name, s.records+1, what, tok)
	}
	return v, nil
}

// token returns the next word, or io.EOF.
func (s *TextSource) token() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", s.name, err)
	}
	return "", io.EOF
}
