package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/offer-desk/internal/model"
)

var (
	importDatePattern  = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	importFieldPattern = regexp.MustCompile(`\t+| {2,}`)
)

// ImportFromText upserts dates from pasted text, one "D/M/YYYY [seats]" per
// line. Fields are separated by tabs or by two or more spaces, the way
// spreadsheet cells paste. Lines whose first field is not a valid date are
// skipped. A missing
// or non-numeric seat field falls back to the default seat count. It returns
// how many lines were imported; zero means nothing usable was found.
func (s *Selection) ImportFromText(raw string) (int, model.DateSelection) {
	imported := 0
	for _, line := range strings.Split(raw, "\n") {
		iso, seats, ok := parseImportLine(line, s.defaultSeats)
		if !ok {
			continue
		}
		if i := s.indexOf(iso); i >= 0 {
			s.state.List[i].Seats = seats
		} else {
			s.state.List = append(s.state.List, model.DateEntry{Date: iso, Seats: seats, Source: model.SourceImport})
		}
		imported++
	}

	if imported == 0 {
		return 0, s.State()
	}
	return imported, s.commit()
}

// parseImportLine converts one pasted line into an ISO date and seat count.
func parseImportLine(line string, defaultSeats int) (string, int, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", 0, false
	}

	fields := importFieldPattern.Split(line, -1)
	if !importDatePattern.MatchString(fields[0]) {
		return "", 0, false
	}

	parts := strings.Split(fields[0], "/")
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])

	iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if _, err := time.Parse(model.ISODateLayout, iso); err != nil {
		return "", 0, false
	}

	seats := defaultSeats
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n >= 1 {
			seats = n
		}
	}
	return iso, seats, true
}
