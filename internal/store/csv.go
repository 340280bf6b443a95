package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"scrip-engine/internal/errors"
)

// scripInfoRow is one row of an exchange metadata dump.
type scripInfoRow struct {
	Scrip              string  `csv:"scrip"`
	Type               string  `csv:"type"`
	Exchange           string  `csv:"exchange"`
	Currency           string  `csv:"currency"`
	OpenTime           string  `csv:"open_time"`
	CloseTime          string  `csv:"close_time"`
	Timezone           string  `csv:"timezone"`
	FreeFloatMarketCap float64 `csv:"free_float_mcap"`
	Constituents       string  `csv:"constituents"`
}

// ImportScripInfoCSV loads a metadata CSV dump into the store and returns
// the number of rows imported. Malformed rows fail the import with a
// typed error rather than being skipped silently.
func (s *SQLiteStore) ImportScripInfoCSV(ctx context.Context, r io.Reader) (int, error) {
	var rows []scripInfoRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("decoding metadata CSV: %w", err)
	}

	imported := 0
	for _, row := range rows {
		info, err := row.toScripInfo()
		if err != nil {
			return imported, err
		}
		if err := s.SaveScripInfo(ctx, *info); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (r scripInfoRow) toScripInfo() (*ScripInfo, error) {
	if r.Scrip == "" {
		return nil, errors.NewParseError("scrip", "", "empty scrip name")
	}

	var scripType ScripType
	switch r.Type {
	case "cash":
		scripType = ScripTypeCash
	case "index":
		scripType = ScripTypeIndex
	default:
		return nil, errors.NewParseError("type", r.Type, "expected cash or index")
	}

	offset, err := ParseTimezoneOffset(r.Timezone)
	if err != nil {
		return nil, err
	}
	openTime, err := FormatSessionTime(r.OpenTime)
	if err != nil {
		return nil, err
	}
	closeTime, err := FormatSessionTime(r.CloseTime)
	if err != nil {
		return nil, err
	}

	constituents := map[string]float64{}
	if r.Constituents != "" {
		if err := json.Unmarshal([]byte(r.Constituents), &constituents); err != nil {
			return nil, errors.NewParseError("constituents", r.Constituents, "invalid constituents JSON")
		}
	}

	return &ScripInfo{
		Scrip:              r.Scrip,
		Type:               scripType,
		Exchange:           strings.ToUpper(r.Exchange),
		Currency:           strings.ToUpper(r.Currency),
		OpenTime:           openTime,
		CloseTime:          closeTime,
		TimezoneOffset:     offset,
		FreeFloatMarketCap: r.FreeFloatMarketCap,
		Constituents:       constituents,
	}, nil
}

// ParseTimezoneOffset decodes a "+05:30" style timezone into seconds east
// of UTC.
func ParseTimezoneOffset(tz string) (int, error) {
	if len(tz) != 6 || tz[3] != ':' {
		return 0, errors.NewParseError("timezone", tz, "expected +HH:MM or -HH:MM")
	}

	var sign int
	switch tz[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, errors.NewParseError("timezone", tz, "expected leading + or -")
	}

	var hours, minutes int
	if _, err := fmt.Sscanf(tz[1:], "%02d:%02d", &hours, &minutes); err != nil {
		return 0, errors.NewParseError("timezone", tz, "expected +HH:MM or -HH:MM")
	}
	if hours > 14 || minutes > 59 {
		return 0, errors.NewParseError("timezone", tz, "offset out of range")
	}
	return sign * (hours*60 + minutes) * 60, nil
}

// FormatSessionTime converts an exchange session time like "0915" into
// the stored "09.15" form.
func FormatSessionTime(t string) (string, error) {
	if len(t) != 4 {
		return "", errors.NewParseError("session_time", t, "expected HHMM")
	}
	var hours, minutes int
	if _, err := fmt.Sscanf(t, "%02d%02d", &hours, &minutes); err != nil {
		return "", errors.NewParseError("session_time", t, "expected HHMM")
	}
	if hours > 23 || minutes > 59 {
		return "", errors.NewParseError("session_time", t, "time out of range")
	}
	return fmt.Sprintf("%02d.%02d", hours, minutes), nil
}
