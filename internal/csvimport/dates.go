package csvimport

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// datePattern es un formato de fecha de broker. ymd indica el orden de los
// grupos capturados: año-mes-día (true) o día-mes-año (false).
type datePattern struct {
	re  *regexp.Regexp
	ymd bool
}

// Orden fijo: gana el primer patrón que encaja. Segundos y hora son opcionales.
var datePatterns = []datePattern{
	{regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`), true},
	{regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`), true},
	{regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`), false},
	{regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`), false},
}

// fallbackLayouts se prueban cuando ningún patrón de broker encaja.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"Jan 2, 2006 15:04",
	"02 Jan 2006 15:04",
}

// ParseBrokerTime convierte una fecha de export de broker a time.Time en loc.
// Devuelve el zero time si no se puede interpretar; el Validator lo rechaza.
func ParseBrokerTime(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if !p.ymd {
			year, day = day, year
		}
		hour, minute, sec := atoi(m[4]), atoi(m[5]), atoi(m[6])
		if !validClock(year, month, day, hour, minute, sec) {
			return time.Time{}
		}
		return time.Date(year, time.Month(month), day, hour, minute, sec, 0, loc)
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// validClock rechaza fechas como 2024.02.31 que time.Date normalizaría en silencio.
func validClock(year, month, day, hour, minute, sec int) bool {
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || sec > 59 {
		return false
	}
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return day <= lastDay
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
