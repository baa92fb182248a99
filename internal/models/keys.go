package models

import "strings"

// KeySeparator joins per-dimension labels into a composite column key.
const KeySeparator = '|'

const keyEscape = '\\'

// JoinColumnKey builds the composite key for a label sequence.
// Separators and escapes inside labels are backslash-escaped, so distinct
// sequences never share a key; plain labels yield the plain "a|b" form.
func JoinColumnKey(labels []string) string {
	var b strings.Builder
	for i, l := range labels {
		if i > 0 {
			b.WriteByte(KeySeparator)
		}
		if !strings.ContainsAny(l, `|\`) {
			b.WriteString(l)
			continue
		}
		for j := 0; j < len(l); j++ {
			if l[j] == KeySeparator || l[j] == keyEscape {
				b.WriteByte(keyEscape)
			}
			b.WriteByte(l[j])
		}
	}
	return b.String()
}

// SplitColumnKey reverses JoinColumnKey.
func SplitColumnKey(key string) []string {
	if !strings.ContainsRune(key, keyEscape) {
		return strings.Split(key, string(KeySeparator))
	}

	var labels []string
	var cur strings.Builder
	for i := 0; i < len(key); i++ {
		switch c := key[i]; {
		case c == keyEscape && i+1 < len(key):
			i++
			cur.WriteByte(key[i])
		case c == KeySeparator:
			labels = append(labels, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(labels, cur.String())
}
