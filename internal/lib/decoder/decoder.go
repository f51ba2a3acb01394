package decoder

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gorilla/schema"
)

// URLDecoder fills structs tagged with `schema:"..."` from query values.
type URLDecoder struct {
	dec *schema.Decoder
}

func New() *URLDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	dec.ZeroEmpty(true)
	return &URLDecoder{dec: dec}
}

func (d *URLDecoder) IgnoreUnknownKeys(i bool) {
	d.dec.IgnoreUnknownKeys(i)
}

// Decode returns an error naming every parameter that could not be converted.
func (d *URLDecoder) Decode(dst any, src map[string][]string) error {
	err := d.dec.Decode(dst, src)
	if err == nil {
		return nil
	}
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return err
	}
	keys := make([]string, 0, len(multi))
	for key, e := range multi {
		var unknown schema.UnknownKeyError
		if errors.As(e, &unknown) {
			keys = append(keys, fmt.Sprintf("unknown query parameter %q", key))
			continue
		}
		keys = append(keys, fmt.Sprintf("invalid value for query parameter %q", key))
	}
	sort.Strings(keys)
	return errors.New(strings.Join(keys, "; "))
}
