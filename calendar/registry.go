package calendar

import (
	"fmt"
	"strings"

	"github.com/uyouii/doy-percentiles/common"
)

var (
	NoLeap = &Calendar{
		name:    "noleap",
		aliases: []string{"no_leap", "days_365", "days365", "365_day", "365day"},
		kind:    FixedNoLeap,
		isLeap:  func(int) bool { return false },
	}
	Days360 = &Calendar{
		name:    "360_day",
		aliases: []string{"days_360", "360day", "days360"},
		kind:    Fixed360,
		isLeap:  func(int) bool { return false },
	}
	AllLeap = &Calendar{
		name:    "all_leap",
		aliases: []string{"allleap", "days_366", "days366", "366_day", "366day"},
		kind:    FixedAllLeap,
		isLeap:  func(int) bool { return true },
	}
	ProlepticGregorian = &Calendar{
		name:    "proleptic_gregorian",
		aliases: []string{"prolepticgregorian"},
		kind:    VariableLeap,
		isLeap:  prolepticGregorianLeap,
	}
	Julian = &Calendar{
		name:   "julian",
		kind:   VariableLeap,
		isLeap: julianLeap,
	}
	Standard = &Calendar{
		name:    "standard",
		aliases: []string{"gregorian"},
		kind:    VariableLeap,
		isLeap:  standardLeap,
	}
	// None is used when a dataset declares calendar "none", it follows the
	// standard leap rule.
	None = &Calendar{
		name:   "none",
		kind:   VariableLeap,
		isLeap: standardLeap,
	}
)

var registry = []*Calendar{NoLeap, Days360, AllLeap, ProlepticGregorian, Julian, Standard, None}

// All returns every registered calendar.
func All() []*Calendar {
	return append([]*Calendar(nil), registry...)
}

// Lookup resolves a calendar name or alias, case-insensitively. An empty name
// is the CF default, the standard calendar.
func Lookup(name string) (*Calendar, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return Standard, nil
	}
	for _, c := range registry {
		if c.name == query {
			return c, nil
		}
		for _, alias := range c.aliases {
			if alias == query {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no calendar found for %q", common.ErrorInvalidCalendar, name)
}

func prolepticGregorianLeap(year int) bool {
	return year%400 == 0 || (year%100 != 0 && year%4 == 0)
}

func julianLeap(year int) bool {
	return year%4 == 0
}

func standardLeap(year int) bool {
	if year < gregorianReformYear {
		return julianLeap(year)
	}
	return prolepticGregorianLeap(year)
}
