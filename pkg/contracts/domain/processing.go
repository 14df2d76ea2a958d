package domain

import (
	"time"
)

// FileKind identifies how an uploaded file should be parsed.
type FileKind string

const (
	FileKindLedger      FileKind = "txt"
	FileKindTabular     FileKind = "csv"
	FileKindSpreadsheet FileKind = "xlsx"
)

// UploadedFile carries the content of one input file through a pipeline run.
type UploadedFile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Kind      FileKind  `json:"kind" validate:"required,oneof=txt csv xlsx"`
	Size      int64     `json:"size"`
	Content   string    `json:"content"`
	Encoding  string    `json:"encoding,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorSeverity distinguishes fatal-per-file errors from per-row warnings.
type ErrorSeverity string

const (
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// ProcessingError is a structured error or warning scoped to a file or a line.
type ProcessingError struct {
	File          string        `json:"file"`
	Line          int           `json:"line,omitempty"`
	Severity      ErrorSeverity `json:"severity"`
	Message       string        `json:"message"`
	Field         string        `json:"field,omitempty"`
	OriginalValue string        `json:"original_value,omitempty"`
}

// LineCounters tracks per-file line accounting during parsing.
type LineCounters struct {
	Total     int `json:"total"`
	Parsed    int `json:"parsed"`
	Discarded int `json:"discarded"`
	Corrected int `json:"corrected"`
}

// Add accumulates the counters of another file into this one.
func (c *LineCounters) Add(other LineCounters) {
	c.Total += other.Total
	c.Parsed += other.Parsed
	c.Discarded += other.Discarded
	c.Corrected += other.Corrected
}

// ProcessingStatistics aggregates the counters and structured errors of one
// pipeline run. Read-only after the run completes.
type ProcessingStatistics struct {
	TotalFiles     int               `json:"total_files"`
	TotalLines     int               `json:"total_lines"`
	ParsedLines    int               `json:"parsed_lines"`
	DiscardedLines int               `json:"discarded_lines"`
	CorrectedLines int               `json:"corrected_lines"`
	SalesGenerated int               `json:"sales_generated"`
	ItemsProcessed int               `json:"items_processed"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	Errors         []ProcessingError `json:"errors"`
	Warnings       []ProcessingError `json:"warnings"`
}

// PipelineResult is the complete output of one pipeline run: the deduplicated
// sale collection plus statistics and a human-readable log.
type PipelineResult struct {
	Sales      []Sale               `json:"sales"`
	Statistics ProcessingStatistics `json:"statistics"`
	Log        []string             `json:"log"`
	Timestamp  time.Time            `json:"timestamp"`
	Version    string               `json:"version"`
}

// SavedAnalysis is a named, persisted pipeline result.
type SavedAnalysis struct {
	ID         string         `json:"id"`
	Name       string         `json:"name" validate:"required,min=1,max=120"`
	Result     PipelineResult `json:"result"`
	DateFrom   time.Time      `json:"date_from"`
	DateTo     time.Time      `json:"date_to"`
	TotalSales int            `json:"total_sales"`
	TotalValue float64        `json:"total_value"`
	Timestamp  time.Time      `json:"timestamp"`
}
