package templates

import (
	"strconv"
	"strings"
)

func prefixedStrings(prefix string, count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.WriteString(prefix)
		sb.WriteString(strconv.Itoa(i))
		if i < count-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

// readerParams renders "c0 Reader[T0], c1 Reader[T1], ...".
func readerParams(count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		idx := strconv.Itoa(i)
		sb.WriteString("c" + idx + " Reader[T" + idx + "]")
		if i < count-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

// readerValues renders "c0.Value(), c1.Value(), ...".
func readerValues(count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.WriteString("c" + strconv.Itoa(i) + ".Value()")
		if i < count-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}
