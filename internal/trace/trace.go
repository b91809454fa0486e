package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Row is one tick of a run.
type Row struct {
	Tick            uint64  `csv:"tick"`
	X               float64 `csv:"x"`
	Y               float64 `csv:"y"`
	Z               float64 `csv:"z"`
	DX              float64 `csv:"dx"`
	DY              float64 `csv:"dy"`
	DZ              float64 `csv:"dz"`
	Speed           float64 `csv:"speed"`
	Height          float64 `csv:"height"`
	Grounded        bool    `csv:"grounded"`
	Crouching       bool    `csv:"crouching"`
	SubmergedBody   bool    `csv:"submerged_body"`
	SubmergedCamera bool    `csv:"submerged_camera"`
	Grab            string  `csv:"grab"`
}

// Recorder appends rows as CSV. A nil Recorder discards everything, so
// callers need not check whether tracing is enabled.
type Recorder struct {
	w             io.Writer
	closer        io.Closer
	headerWritten bool
	rows          int
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Create opens path for writing. An empty path disables tracing and returns
// a nil Recorder.
func Create(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating trace directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}
	return &Recorder{w: f, closer: f}, nil
}

func (r *Recorder) Write(row Row) error {
	if r == nil {
		return nil
	}
	records := []Row{row}

	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	r.rows++
	return nil
}

func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}

func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Read parses a trace written by a Recorder.
func Read(rd io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(rd, &rows); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return rows, nil
}
