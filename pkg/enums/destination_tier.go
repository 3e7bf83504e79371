package enums

import (
	"fmt"
	"strings"
)

// DestinationTier is the shipping zone a customer selects at checkout.
type DestinationTier string

const (
	DestinationDomestic      DestinationTier = "domestic"
	DestinationRegional      DestinationTier = "regional"
	DestinationInternational DestinationTier = "international"
)

var validDestinationTiers = []DestinationTier{
	DestinationDomestic,
	DestinationRegional,
	DestinationInternational,
}

func (d DestinationTier) String() string {
	return string(d)
}

func (d DestinationTier) IsValid() bool {
	for _, candidate := range validDestinationTiers {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDestinationTier accepts the tier name in any case.
func ParseDestinationTier(value string) (DestinationTier, error) {
	normalized := DestinationTier(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid destination tier %q", value)
}
