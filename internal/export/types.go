// Package export renders the city-hall KPI bulletin as HTML or PDF.
package export

import (
	"errors"
	"time"
)

// Format represents the export output format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// Count is one labelled bar of a chart.
type Count struct {
	Label string
	Value int
}

// CriticalReport is a high-priority report that is not resolved yet.
type CriticalReport struct {
	ID          string
	Description string
	Location    string
	Category    string
	Status      string
	Timestamp   time.Time
}

// Bulletin is everything printed on the KPI bulletin.
type Bulletin struct {
	AppName     string
	Slogan      string
	GeneratedAt time.Time
	Total       int
	Resolved    int
	Pending     int
	InProgress  int
	Efficiency  int
	Categories  []Count
	Statuses    []Count
	Critical    []CriticalReport
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
)
