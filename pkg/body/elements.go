package body

import "strings"

func isBlockFlushing(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li":
		return true
	}
	return false
}

func impliesItalic(tag string) bool {
	switch strings.ToLower(tag) {
	case "i", "em":
		return true
	}
	return false
}

func impliesBold(tag string) bool {
	switch strings.ToLower(tag) {
	case "b", "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func isLineBreaking(tag string) bool {
	switch strings.ToLower(tag) {
	case "br", "tr":
		return true
	}
	return false
}
