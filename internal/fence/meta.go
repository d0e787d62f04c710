package fence

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/shlex"
)

// Meta holds key-value metadata parsed from a fence info string, e.g.
// ```hcl title="main.tf" skip=true or ```hcl {"title": "main.tf"}.
type Meta map[string]interface{}

// Get returns the metadata value for the given key as a string.
// It returns an empty string if the key is missing or the Meta is nil.
func (m Meta) Get(name string) string {
	if m == nil {
		return ""
	}

	value, has := m[name]
	if !has {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprint(value)
}

// String renders the metadata as sorted key=value pairs.
func (m Meta) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + m.Get(k)
	}

	return strings.Join(pairs, " ")
}

var (
	reInfo     = regexp.MustCompile(`^\s*([\w+#.-]+)\s*(.*?)\s*$`)
	reJSON     = regexp.MustCompile(`^\s*{\s*["}]`)
	reBrackets = regexp.MustCompile(`^\s*{(.*)}$`)
)

// ParseInfo splits a fence info string into its language tag and metadata.
func ParseInfo(info string) (string, Meta, error) {
	all := reInfo.FindStringSubmatch(info)
	if all == nil {
		return "", Meta{}, nil
	}

	meta, err := parseMeta(all[2])

	return all[1], meta, err
}

func parseMeta(input string) (Meta, error) {
	if len(input) == 0 {
		return Meta{}, nil
	}

	if reJSON.MatchString(input) {
		var meta Meta

		if err := json.Unmarshal([]byte(input), &meta); err != nil {
			return nil, err
		}

		return meta, nil
	}

	if subs := reBrackets.FindStringSubmatch(input); subs != nil {
		input = subs[1]
	}

	words, err := shlex.Split(input)
	if err != nil {
		return nil, err
	}

	dict := make(Meta)

	for _, word := range words {
		if k, v, ok := strings.Cut(word, "="); ok && len(k) != 0 {
			dict[k] = v
		}
	}

	return dict, nil
}
