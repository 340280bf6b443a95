// Package models provides domain models for the scrip trading engine.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"scrip-engine/internal/errors"
)

// Exchange represents a stock exchange.
type Exchange string

const (
	NSE Exchange = "NSE"
	BSE Exchange = "BSE"
	MCX Exchange = "MCX"
)

// ParseExchange maps an exchange key to an Exchange.
func ParseExchange(s string) (Exchange, error) {
	switch s {
	case "NSE":
		return NSE, nil
	case "BSE":
		return BSE, nil
	case "MCX":
		return MCX, nil
	default:
		return "", errors.NewParseError("exchange", s, "exchange not mapped")
	}
}

// Segment represents an exchange segment.
type Segment string

const (
	SegmentCash    Segment = "C"
	SegmentIndex   Segment = "I"
	SegmentOptions Segment = "O"
	SegmentFutures Segment = "F"
)

// ParseSegment maps a segment key to a Segment.
func ParseSegment(s string) (Segment, error) {
	switch s {
	case "C":
		return SegmentCash, nil
	case "I":
		return SegmentIndex, nil
	case "O":
		return SegmentOptions, nil
	case "F":
		return SegmentFutures, nil
	default:
		return "", errors.NewParseError("segment", s, "segment not mapped")
	}
}

// ScripKind discriminates the closed set of scrip variants.
type ScripKind string

const (
	ScripStock  ScripKind = "STOCK"
	ScripIndex  ScripKind = "INDEX"
	ScripOption ScripKind = "OPTION"
)

// OptionType represents the option contract type.
type OptionType string

const (
	OptionCall OptionType = "CE"
	OptionPut  OptionType = "PE"
)

// ExpiryFormat is the wire format for option expiry dates in scrip keys.
const ExpiryFormat = "02/01/2006"

// Scrip identifies a tradeable entity: a stock, an index, or an option
// contract. Identity is defined entirely by the canonical key string, so
// two values with the same Key are the same scrip regardless of how they
// were constructed. Scrips are plain values and safe to copy.
type Scrip struct {
	Kind     ScripKind
	Name     string
	Exchange Exchange
	Segment  Segment

	// Option fields, zero for stocks and indices.
	Strike     int64
	OptionType OptionType
	Expiry     time.Time

	// Underlying is informational only; an option does not own its
	// underlying scrip.
	Underlying *Scrip
}

// NewStockScrip creates a cash-segment stock scrip.
func NewStockScrip(name string, exchange Exchange) Scrip {
	return Scrip{
		Kind:     ScripStock,
		Name:     name,
		Exchange: exchange,
		Segment:  SegmentCash,
	}
}

// NewIndexScrip creates an index scrip.
func NewIndexScrip(name string, exchange Exchange) Scrip {
	return Scrip{
		Kind:     ScripIndex,
		Name:     name,
		Exchange: exchange,
		Segment:  SegmentIndex,
	}
}

// NewOptionScrip creates an option scrip. The underlying may be nil.
func NewOptionScrip(name string, exchange Exchange, expiry time.Time, strike int64, optType OptionType, underlying *Scrip) Scrip {
	return Scrip{
		Kind:       ScripOption,
		Name:       name,
		Exchange:   exchange,
		Segment:    SegmentOptions,
		Strike:     strike,
		OptionType: optType,
		Expiry:     expiry,
		Underlying: underlying,
	}
}

// Key returns the canonical key encoding for the scrip.
// Stocks and indices encode as NAME:EXCHANGE:SEGMENT; options as
// NAME:EXCHANGE:O:DD/MM/YYYY:STRIKE:CE|PE.
func (s Scrip) Key() string {
	switch s.Kind {
	case ScripOption:
		return fmt.Sprintf("%s:%s:%s:%s:%d:%s",
			s.Name, s.Exchange, s.Segment,
			s.Expiry.Format(ExpiryFormat), s.Strike, s.OptionType)
	default:
		return fmt.Sprintf("%s:%s:%s", s.Name, s.Exchange, s.Segment)
	}
}

// Equal reports whether two scrips denote the same instrument.
func (s Scrip) Equal(other Scrip) bool {
	return s.Key() == other.Key()
}

func (s Scrip) String() string {
	return s.Key()
}

// ParseScripKey decodes a canonical scrip key back into a Scrip.
// Malformed keys produce a ParseError, never a panic.
func ParseScripKey(key string) (Scrip, error) {
	parts := strings.Split(key, ":")
	if len(parts) != 3 && len(parts) != 6 {
		return Scrip{}, errors.NewParseError("scrip_key", key, "expected 3 or 6 colon-separated parts")
	}

	name := parts[0]
	if name == "" {
		return Scrip{}, errors.NewParseError("scrip_key", key, "empty scrip name")
	}
	exchange, err := ParseExchange(parts[1])
	if err != nil {
		return Scrip{}, err
	}
	segment, err := ParseSegment(parts[2])
	if err != nil {
		return Scrip{}, err
	}

	if len(parts) == 3 {
		switch segment {
		case SegmentCash:
			return NewStockScrip(name, exchange), nil
		case SegmentIndex:
			return NewIndexScrip(name, exchange), nil
		default:
			return Scrip{}, errors.NewParseError("scrip_key", key, "derivative key missing contract parts")
		}
	}

	if segment != SegmentOptions {
		return Scrip{}, errors.NewParseError("scrip_key", key, "six-part key must be an options key")
	}

	expiry, err := time.Parse(ExpiryFormat, parts[3])
	if err != nil {
		return Scrip{}, errors.NewParseError("expiry", parts[3], "expected DD/MM/YYYY")
	}
	strike, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil || strike <= 0 {
		return Scrip{}, errors.NewParseError("strike", parts[4], "expected positive integer")
	}

	var optType OptionType
	switch parts[5] {
	case "CE":
		optType = OptionCall
	case "PE":
		optType = OptionPut
	default:
		return Scrip{}, errors.NewParseError("option_type", parts[5], "expected CE or PE")
	}

	return NewOptionScrip(name, exchange, expiry, strike, optType, nil), nil
}
