package fields

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Genre int

const (
	Action Genre = iota
	Comedy
	Drama
	Horror
	SciFi
	Thriller
	Romance
	Documentary
	Animation
	Fantasy
)

var genreNames = [...]string{
	Action:      "Action",
	Comedy:      "Comedy",
	Drama:       "Drama",
	Horror:      "Horror",
	SciFi:       "SciFi",
	Thriller:    "Thriller",
	Romance:     "Romance",
	Documentary: "Documentary",
	Animation:   "Animation",
	Fantasy:     "Fantasy",
}

var ErrUnknownGenre = errors.New("unknown genre")

// GenreNames returns the names of all genres in declaration order.
func GenreNames() []string {
	names := make([]string, len(genreNames))
	copy(names, genreNames[:])
	return names
}

func (g Genre) IsValid() bool {
	return g >= 0 && int(g) < len(genreNames)
}

func (g Genre) String() string {
	if !g.IsValid() {
		return "Genre(" + strconv.Itoa(int(g)) + ")"
	}
	return genreNames[g]
}

// ParseGenre matches name against the genre names ignoring case.
func ParseGenre(name string) (Genre, error) {
	for i, n := range genreNames {
		if strings.EqualFold(n, name) {
			return Genre(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGenre, name)
}

func (g Genre) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGenre, int(g))
	}
	return []byte(g.String()), nil
}

func (g *Genre) UnmarshalText(text []byte) error {
	parsed, err := ParseGenre(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Value stores the genre by name.
func (g Genre) Value() (driver.Value, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGenre, int(g))
	}
	return g.String(), nil
}

func (g *Genre) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return g.UnmarshalText([]byte(v))
	case []byte:
		return g.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Genre", src)
	}
}

const DateLayout = time.DateOnly

// Date is a calendar date without time of day, kept in UTC.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

func Today() Date {
	return DateOf(time.Now())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("date must be a string in YYYY-MM-DD format")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Date())
		return nil
	case string:
		// timestamp text such as "2021-10-22 00:00:00+00:00" keeps its date part
		if len(v) > len(DateLayout) {
			v = v[:len(DateLayout)]
		}
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}
