// Package emap encodes JSON values into a flat, ordered key/value string that
// consumers with no JSON parser can read field by field.
//
// Every leaf of the value becomes one entry made of a path, a value and a type
// tag. Entries are written as `$#`-delimited tokens:
//
//	$#k0$#<path>$#v0$#<value>$#t0$#<type>$#k1$#...$#len$#<n>$#
//
// Paths use `.key` for object members and `[i]` for array elements; the root
// path is empty. Literal `$` and `\` in paths and values are backslash-escaped,
// so an unescaped `$#` is always a delimiter.
package emap

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Type tags.
const (
	typeString = "string"
	typeNumber = "number"
	typeBool   = "bool"
	typeNull   = "null"
	typeObject = "object"
	typeArray  = "array"
)

const (
	delim    = "$#"
	lenLabel = "len"
)

type entry struct {
	path  string
	value string
	typ   string
}

// Encode flattens v into an emap string. v may be anything encoding/json can
// marshal; member order follows its JSON encoding.
func Encode(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", eris.Wrap(err, "emap: marshal value")
	}

	w := &walker{dec: json.NewDecoder(bytes.NewReader(raw))}
	w.dec.UseNumber()
	if err := w.walk(""); err != nil {
		return "", eris.Wrap(err, "emap: walk value")
	}

	var b strings.Builder
	for i, e := range w.entries {
		idx := strconv.Itoa(i)
		writeToken(&b, "k"+idx)
		writeToken(&b, escape(e.path))
		writeToken(&b, "v"+idx)
		writeToken(&b, escape(e.value))
		writeToken(&b, "t"+idx)
		writeToken(&b, e.typ)
	}
	writeToken(&b, lenLabel)
	writeToken(&b, strconv.Itoa(len(w.entries)))
	b.WriteString(delim)
	return b.String(), nil
}

func writeToken(b *strings.Builder, tok string) {
	b.WriteString(delim)
	b.WriteString(tok)
}

type walker struct {
	dec     *json.Decoder
	entries []entry
}

func (w *walker) add(path, value, typ string) {
	w.entries = append(w.entries, entry{path: path, value: value, typ: typ})
}

func (w *walker) walk(path string) error {
	tok, err := w.dec.Token()
	if err != nil {
		return err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n := 0
			for w.dec.More() {
				kt, err := w.dec.Token()
				if err != nil {
					return err
				}
				key, _ := kt.(string)
				if err := w.walk(path + "." + escapeKey(key)); err != nil {
					return err
				}
				n++
			}
			if _, err := w.dec.Token(); err != nil {
				return err
			}
			if n == 0 {
				w.add(path, "", typeObject)
			}
		case '[':
			n := 0
			for w.dec.More() {
				if err := w.walk(path + "[" + strconv.Itoa(n) + "]"); err != nil {
					return err
				}
				n++
			}
			if _, err := w.dec.Token(); err != nil {
				return err
			}
			if n == 0 {
				w.add(path, "", typeArray)
			}
		}
	case string:
		w.add(path, t, typeString)
	case json.Number:
		w.add(path, t.String(), typeNumber)
	case bool:
		w.add(path, strconv.FormatBool(t), typeBool)
	case nil:
		w.add(path, "", typeNull)
	}
	return nil
}

// escape protects '\' and '$' so values can never produce a delimiter.
func escape(s string) string {
	if !strings.ContainsAny(s, `\$`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\\' || r == '$' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeKey protects path syntax inside object keys.
func escapeKey(s string) string {
	if !strings.ContainsAny(s, `\.[]`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '.', '[', ']':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
