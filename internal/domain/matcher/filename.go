package matcher

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	amountPattern   = regexp.MustCompile(`^[-+]?\$[-+]?((?:\d{1,3}(?:,\d{3})+)|\d+)(\.\d{2})?$`)
	fullDatePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	monthDayPattern = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`)
	extPattern      = regexp.MustCompile(`^\.[A-Za-z][A-Za-z0-9]{0,5}$`)
)

// DateTerm is a date as written in a filename. Year is 0 for MM-DD terms.
type DateTerm struct {
	Year  int
	Month time.Month
	Day   int
}

// HasYear reports whether the term was written as YYYY-MM-DD.
func (d DateTerm) HasYear() bool { return d.Year != 0 }

// FilenameTerms is the classified, not yet resolved, content of a filename.
type FilenameTerms struct {
	Date     *DateTerm
	Amount   *decimal.Decimal
	Payee    string
	Category string
	Memo     string
}

// ParseFilename strips a file extension and parses the rest, resolving
// partial dates relative to now.
func ParseFilename(filename string, now time.Time) ParsedFilename {
	return Parse(StripExtension(filename), now)
}

// StripExtension removes a trailing file extension such as ".pdf". A suffix
// that is not extension-shaped (".00" in "$25.00") is left alone.
func StripExtension(filename string) string {
	base := filepath.Base(filename)
	if ext := filepath.Ext(base); extPattern.MatchString(ext) {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// Parse classifies the terms of an extension-less filename and resolves the
// date term against now. It never fails; unrecognised input yields absent fields.
func Parse(name string, now time.Time) ParsedFilename {
	terms := ParseTerms(name)

	parsed := ParsedFilename{
		Amount:   terms.Amount,
		Payee:    terms.Payee,
		Category: terms.Category,
		Memo:     terms.Memo,
	}

	if terms.Date != nil {
		var date time.Time
		if terms.Date.HasYear() {
			date = civilDate(terms.Date.Year, terms.Date.Month, terms.Date.Day)
		} else {
			date = InferDate(terms.Date.Month, terms.Date.Day, now)
		}
		parsed.Date = &date
	}

	return parsed
}

// ParseTerms splits name on whitespace and classifies each term.
//
// Amount, date and memo terms are recognised by shape wherever they appear.
// Of the remaining terms the first is the payee and the second the category;
// anything after that is ignored.
func ParseTerms(name string) FilenameTerms {
	var terms FilenameTerms
	plain := 0

	for _, term := range splitTerms(name) {
		if amount, ok := parseAmount(term); ok {
			if terms.Amount == nil {
				terms.Amount = &amount
			}
			continue
		}
		if date, ok := parseDateTerm(term); ok {
			if terms.Date == nil {
				terms.Date = &date
			}
			continue
		}
		if memo, ok := parseMemo(term); ok {
			if terms.Memo == "" {
				terms.Memo = memo
			}
			continue
		}

		switch plain {
		case 0:
			terms.Payee = readable(term)
		case 1:
			terms.Category = strings.ReplaceAll(readable(term), "-", ":")
		}
		plain++
	}

	return terms
}

// splitTerms splits on whitespace, keeping a parenthesised group together.
func splitTerms(s string) []string {
	var terms []string
	var cur strings.Builder
	inParens := false

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		term := cur.String()
		cur.Reset()
		if inParens {
			// Unclosed group: fall back to plain whitespace splitting.
			terms = append(terms, strings.Fields(term)...)
			inParens = false
			return
		}
		terms = append(terms, term)
	}

	for _, r := range s {
		switch {
		case r == '(' && cur.Len() == 0:
			inParens = true
			cur.WriteRune(r)
		case r == ')' && inParens:
			cur.WriteRune(r)
			inParens = false
		case unicode.IsSpace(r) && !inParens:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return terms
}

func parseAmount(term string) (decimal.Decimal, bool) {
	m := amountPattern.FindStringSubmatch(term)
	if m == nil {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "") + m[2])
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount.Abs(), true
}

func parseDateTerm(term string) (DateTerm, bool) {
	if m := fullDatePattern.FindStringSubmatch(term); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		// Year 0 would read as a month-day term.
		if year == 0 || !validDate(year, month, day) {
			return DateTerm{}, false
		}
		return DateTerm{Year: year, Month: time.Month(month), Day: day}, true
	}

	if m := monthDayPattern.FindStringSubmatch(term); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		// 2000 is a leap year, so 02-29 is accepted here and resolved later.
		if !validDate(2000, month, day) {
			return DateTerm{}, false
		}
		return DateTerm{Month: time.Month(month), Day: day}, true
	}

	return DateTerm{}, false
}

func parseMemo(term string) (string, bool) {
	if len(term) < 2 || term[0] != '(' || term[len(term)-1] != ')' {
		return "", false
	}
	memo := strings.TrimSpace(readable(term[1 : len(term)-1]))
	if memo == "" {
		return "", false
	}
	return memo, true
}

func readable(term string) string {
	return strings.ReplaceAll(term, "_", " ")
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := civilDate(year, time.Month(month), day)
	return t.Month() == time.Month(month) && t.Day() == day
}

// civilDate returns midnight UTC on the given day.
func civilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
