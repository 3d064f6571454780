// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package compact implements the low level helpers of the compact text
// encoding used in share links: bounded splitting of delimited lists and
// lenient integer parsing.
//
package compact

import "strings"

// DefaultMaxItems is the default limit on the number of items decoded from a
// single list.
//
const DefaultMaxItems = 1000

// Split slices s into the substrings separated by sep and returns at most
// limit of them. Unlike strings.SplitN, whatever follows the last returned
// substring is discarded, and no more than limit substrings are ever
// allocated.
//
// An empty s yields a single empty substring.
//
func Split(s, sep string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	if sep == "" {
		return strings.SplitN(s, "", limit)
	}
	var out []string
	for len(out) < limit {
		i := strings.Index(s, sep)
		if i < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:i])
		s = s[i+len(sep):]
	}
	return out
}

// ListOptions configures ParseList.
//
type ListOptions struct {
	// Delimiter between items. Defaults to ";".
	Delimiter string
	// MaxItems caps the number of decoded items. Defaults to DefaultMaxItems.
	MaxItems int
	// NoTrim disables trimming of white space around items.
	NoTrim bool
}

// ParseList decodes a delimited list. Each non-empty item is passed to parse;
// items for which parse returns false are skipped. Decoding stops once
// MaxItems items have been decoded.
//
func ParseList[T any](value string, opts ListOptions, parse func(item string) (T, bool)) []T {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	sep := opts.Delimiter
	if sep == "" {
		sep = ";"
	}
	max := opts.MaxItems
	if max <= 0 {
		max = DefaultMaxItems
	}

	var out []T
	for len(value) > 0 && len(out) < max {
		i := strings.Index(value, sep)
		var raw string
		if i < 0 {
			raw, value = value, ""
		} else {
			raw, value = value[:i], value[i+len(sep):]
		}
		if !opts.NoTrim {
			raw = strings.TrimSpace(raw)
		}
		if raw == "" {
			continue
		}
		if v, ok := parse(raw); ok {
			out = append(out, v)
		}
	}
	return out
}

// JoinList encodes items as a delimited list.
//
func JoinList[T any](items []T, sep string, encode func(T) string) string {
	if sep == "" {
		sep = ";"
	}
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(encode(it))
	}
	return b.String()
}

// Atoi parses the leading decimal integer of s, ignoring leading white space
// and anything after the digits: "12px" yields 12. It returns false if s does
// not start with an integer.
//
func Atoi(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for ; digits < len(s) && '0' <= s[digits] && s[digits] <= '9'; digits++ {
		if n < 1<<31 {
			n = n*10 + int(s[digits]-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
