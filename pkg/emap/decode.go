package emap

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Decode parses an emap string back into JSON-shaped Go values: map[string]any,
// []any, string, float64, bool and nil. Object member order is not preserved.
func Decode(s string) (any, error) {
	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	if len(toks) < 2 || toks[len(toks)-2] != lenLabel {
		return nil, eris.New("emap: missing length trailer")
	}
	n, err := strconv.Atoi(toks[len(toks)-1])
	if err != nil {
		return nil, eris.Wrap(err, "emap: parse length")
	}
	body := toks[:len(toks)-2]
	if len(body) != n*6 {
		return nil, eris.Errorf("emap: expected %d entries, found %d tokens", n, len(body))
	}

	var root any
	for i := 0; i < n; i++ {
		t := body[i*6 : i*6+6]
		idx := strconv.Itoa(i)
		if t[0] != "k"+idx || t[2] != "v"+idx || t[4] != "t"+idx {
			return nil, eris.Errorf("emap: malformed entry %d", i)
		}
		val, err := typedValue(t[3], t[5])
		if err != nil {
			return nil, eris.Wrapf(err, "emap: entry %d", i)
		}
		segs, err := parsePath(t[1])
		if err != nil {
			return nil, eris.Wrapf(err, "emap: entry %d", i)
		}
		if root, err = insert(root, segs, val); err != nil {
			return nil, eris.Wrapf(err, "emap: entry %d path %q", i, t[1])
		}
	}
	return root, nil
}

// tokenize splits on unescaped delimiters and removes the token escaping.
func tokenize(s string) ([]string, error) {
	if !strings.HasPrefix(s, delim) || !strings.HasSuffix(s, delim) {
		return nil, eris.New("emap: input must start and end with a delimiter")
	}
	var (
		toks []string
		cur  strings.Builder
	)
	rest := s[len(delim):]
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch {
		case c == '\\':
			if i+1 >= len(rest) {
				return nil, eris.New("emap: dangling escape")
			}
			i++
			cur.WriteByte(rest[i])
		case c == '$' && i+1 < len(rest) && rest[i+1] == '#':
			toks = append(toks, cur.String())
			cur.Reset()
			i++
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		return nil, eris.New("emap: trailing data after last delimiter")
	}
	return toks, nil
}

func typedValue(raw, typ string) (any, error) {
	switch typ {
	case typeString:
		return raw, nil
	case typeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, eris.Wrap(err, "parse number")
		}
		return f, nil
	case typeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, eris.Wrap(err, "parse bool")
		}
		return b, nil
	case typeNull:
		return nil, nil
	case typeObject:
		return map[string]any{}, nil
	case typeArray:
		return []any{}, nil
	}
	return nil, eris.Errorf("unknown type tag %q", typ)
}

type segment struct {
	key     string
	index   int
	isIndex bool
}

func parsePath(p string) ([]segment, error) {
	var segs []segment
	for i := 0; i < len(p); {
		switch p[i] {
		case '.':
			var key strings.Builder
			i++
			for i < len(p) && p[i] != '.' && p[i] != '[' {
				if p[i] == '\\' && i+1 < len(p) {
					i++
				}
				key.WriteByte(p[i])
				i++
			}
			segs = append(segs, segment{key: key.String()})
		case '[':
			end := strings.IndexByte(p[i:], ']')
			if end < 0 {
				return nil, eris.Errorf("unterminated index in path %q", p)
			}
			n, err := strconv.Atoi(p[i+1 : i+end])
			if err != nil || n < 0 {
				return nil, eris.Errorf("bad index in path %q", p)
			}
			segs = append(segs, segment{index: n, isIndex: true})
			i += end + 1
		default:
			return nil, eris.Errorf("unexpected %q in path %q", p[i], p)
		}
	}
	return segs, nil
}

func insert(node any, segs []segment, val any) (any, error) {
	if len(segs) == 0 {
		return val, nil
	}
	s := segs[0]

	if s.isIndex {
		arr, ok := node.([]any)
		if node != nil && !ok {
			return nil, eris.New("path indexes a non-array")
		}
		for len(arr) <= s.index {
			arr = append(arr, nil)
		}
		child, err := insert(arr[s.index], segs[1:], val)
		if err != nil {
			return nil, err
		}
		arr[s.index] = child
		return arr, nil
	}

	obj, ok := node.(map[string]any)
	if node != nil && !ok {
		return nil, eris.New("path keys into a non-object")
	}
	if obj == nil {
		obj = make(map[string]any)
	}
	child, err := insert(obj[s.key], segs[1:], val)
	if err != nil {
		return nil, err
	}
	obj[s.key] = child
	return obj, nil
}
