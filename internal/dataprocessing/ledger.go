package dataprocessing

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"feiralens/internal/categorization"
	"feiralens/pkg/contracts/domain"
)

// LedgerLocation is the location stamped on every sale reconstructed from a
// free-text ledger.
const LedgerLocation = "FEIRA"

// dateMarker matches ledger date lines such as "Feira 23/08/25" or
// "feira 2.3.2025". Separators may be "." or "/"; two-digit years read as
// 2000+yy.
var dateMarker = regexp.MustCompile(`(?i)feira\s+(\d{1,2})[./](\d{1,2})[./](\d{2,4})`)

// pureNumber matches running-total lines that carry no product.
var pureNumber = regexp.MustCompile(`^\d+$`)

// nonProductPatterns is the closed set of administrative, signature and
// correction lines that are discarded without affecting parser state.
var nonProductPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Alianças`),
	regexp.MustCompile(`(?i)^Pedaço`),
	regexp.MustCompile(`(?i)^Chav pet`),
	regexp.MustCompile(`(?i)^\d+\s+chav\s*(et)?\s*$`),
	regexp.MustCompile(`(?i)^Encomend`),
	regexp.MustCompile(`^-\s*\d+`),
	regexp.MustCompile(`(?i)^Total`),
	regexp.MustCompile(`(?i)^N\d+`),
	regexp.MustCompile(`(?i)^\d+\s+(rodr|heloisio|riba|javier|nico)`),
}

// LedgerParser consumes whole free-text ledger documents and emits sale
// records grouped by fair date.
type LedgerParser struct {
	logger      *slog.Logger
	categorizer *categorization.Categorizer
	now         func() time.Time
}

// NewLedgerParser creates a ledger parser. A nil logger falls back to
// slog.Default; a nil categorizer uses the canonical rule tables.
func NewLedgerParser(logger *slog.Logger, categorizer *categorization.Categorizer) *LedgerParser {
	if logger == nil {
		logger = slog.Default()
	}
	if categorizer == nil {
		categorizer = categorization.New()
	}
	return &LedgerParser{logger: logger, categorizer: categorizer, now: time.Now}
}

// Parse runs the line state machine over the document and returns the
// finalized sale collection. The machine holds one piece of state, the
// current fair date: date marker lines update it, skip lines are discarded,
// and every other non-empty line is tokenized as a product line. Product
// lines seen before any date marker fall back to the current processing time;
// that fallback is lossy but matches the historical ledger behavior.
func (p *LedgerParser) Parse(content, sourceFile string) []domain.Sale {
	builder := newSaleBuilder(domain.SourceFreeText, sourceFile, LedgerLocation)

	var currentDate time.Time
	var haveDate bool

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}

		if date, ok := p.extractDate(line); ok {
			currentDate = date
			haveDate = true
			continue
		}

		if pureNumber.MatchString(line) || isNonProductLine(line) {
			continue
		}

		parsed := ParseLine(line)
		if parsed.Total <= 0 || parsed.Description == "" {
			continue
		}

		if !haveDate {
			currentDate = p.now()
			haveDate = true
			p.logger.Warn("product line before any date marker, falling back to now",
				slog.String("file", sourceFile),
				slog.String("line", line))
		}

		result := p.categorizer.Categorize(parsed.Description)
		item := domain.LineItem{
			ID:         uuid.NewString(),
			Name:       parsed.Description,
			Type:       result.Type,
			Category:   result.Category,
			Quantity:   parsed.Quantity,
			UnitPrice:  parsed.UnitValue,
			TotalValue: parsed.Total,
		}
		builder.add(currentDate, "", item)
	}

	sales := builder.finalize()
	p.logger.Debug("ledger parsed",
		slog.String("file", sourceFile),
		slog.Int("sales", len(sales)))
	return sales
}

// extractDate matches a date marker line and returns the fair date it names.
// Malformed dates are treated as non-matches and fall through to product-line
// handling.
func (p *LedgerParser) extractDate(line string) (time.Time, bool) {
	match := dateMarker.FindStringSubmatch(line)
	if match == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject normalized overflow such as 31/02.
	if date.Day() != day || int(date.Month()) != month {
		return time.Time{}, false
	}
	return date, true
}

func isNonProductLine(line string) bool {
	for _, pattern := range nonProductPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
