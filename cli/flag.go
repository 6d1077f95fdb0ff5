package cli

import (
	"strconv"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/openarch"
	"github.com/spf13/pflag"
)

// sortFlag maps symbolic sort names onto the numeric sort modes the
// civil-records source expects
type sortFlag struct {
	Value int
}

var sortModes = map[string]int{
	"name":  openarch.SortByName,
	"role":  openarch.SortByRole,
	"event": openarch.SortByEvent,
	"date":  openarch.SortByDate,
}

// String implements pflag.Value.
func (s *sortFlag) String() string {
	for name, mode := range sortModes {
		if mode == s.Value {
			return name
		}
	}
	return strconv.Itoa(s.Value)
}

func (s *sortFlag) Set(value string) error {
	if mode, ok := sortModes[value]; ok {
		s.Value = mode
		return nil
	}
	if mode, err := strconv.Atoi(value); err == nil && mode >= openarch.SortByName && mode <= openarch.SortByDate {
		s.Value = mode
		return nil
	}
	return failure.New(InvalidArguments,
		failure.Message("Sort mode must be one of name, role, event, date"),
		failure.Context{"value": value},
	)
}

func (s *sortFlag) Type() string {
	return "sort"
}

var _ pflag.Value = &sortFlag{}
