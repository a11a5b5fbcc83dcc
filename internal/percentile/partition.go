package percentile

import (
	"fmt"
	"strings"
)

type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

type AgeBracket string

const (
	Infant AgeBracket = "0_2" // 0 <= age <= 2
	Child  AgeBracket = "2_5" // 2 < age <= 5
)

// Partition selects one of the four reference tables.
type Partition struct {
	Sex     Sex
	Bracket AgeBracket
}

func (p Partition) String() string { return string(p.Sex) + "_" + string(p.Bracket) }

// Partitions lists every table key in load order.
var Partitions = []Partition{
	{Male, Infant},
	{Male, Child},
	{Female, Infant},
	{Female, Child},
}

// ParseSex maps a caller sex code onto a table sex.
// H (hombre) and M (masculino) are male, F is female.
func ParseSex(code string) (Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "H", "M":
		return Male, nil
	case "F":
		return Female, nil
	default:
		return "", fmt.Errorf("%w: sex %q", ErrUnsupportedPartition, code)
	}
}

// BracketFor places an age in whole years into [0,2] or (2,5].
func BracketFor(age int) (AgeBracket, error) {
	switch {
	case age >= 0 && age <= 2:
		return Infant, nil
	case age > 2 && age <= 5:
		return Child, nil
	default:
		return "", fmt.Errorf("%w: age %d", ErrUnsupportedPartition, age)
	}
}

func PartitionFor(sex string, age int) (Partition, error) {
	s, err := ParseSex(sex)
	if err != nil {
		return Partition{}, err
	}
	b, err := BracketFor(age)
	if err != nil {
		return Partition{}, err
	}
	return Partition{Sex: s, Bracket: b}, nil
}

func (p Partition) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
