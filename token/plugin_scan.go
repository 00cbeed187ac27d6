// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package token

import "bytes"

func isNameByte(b byte) bool {
	return b == '_' || b == '-' || (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// tryBracket recognizes <<name body>> / <<<name body>>> style plugin and
// placeholder tokens, including their block forms where the opener and
// closer each stand alone on their own line.
func tryBracket(src []byte, open, close string, triple bool) (Token, bool) {
	i := len(open)
	nameStart := i
	for i < len(src) && isNameByte(src[i]) {
		i++
	}
	if i == nameStart {
		return Token{}, false
	}
	name := string(src[nameStart:i])

	// Skip a single separating space before the body/close.
	bodyStart := i
	if bodyStart < len(src) && src[bodyStart] == ' ' {
		bodyStart++
	}

	lineEnd := bytes.IndexByte(src[i:], '\n')
	var line []byte
	if lineEnd < 0 {
		line = src[i:]
	} else {
		line = src[i : i+lineEnd]
	}
	if idx := bytes.Index(line, []byte(close)); idx >= 0 {
		bodyEnd := i + idx
		body := bytes.TrimRight(src[bodyStart:bodyEnd], " \t")
		consumed := i + idx + len(close)
		kind := Plugin
		if triple {
			kind = Placeholder
		}
		return Token{Kind: kind, Name: name, Body: body, Len: consumed}, true
	}

	// No closer on the opener's line: this is only a block form if that
	// line has no further newline (so there is a following line to hold
	// the body and closer) and the rest of the opener's line is blank.
	if lineEnd < 0 {
		return Token{}, false
	}
	restOfLine := line[bodyStart-i:]
	if !isBlankRun(restOfLine) {
		return Token{}, false
	}

	bodyFrom := i + lineEnd + 1
	pos := bodyFrom
	for pos < len(src) {
		nl := bytes.IndexByte(src[pos:], '\n')
		var thisLine []byte
		var lineLenWithNL int
		if nl < 0 {
			thisLine = src[pos:]
			lineLenWithNL = len(thisLine)
		} else {
			thisLine = src[pos : pos+nl]
			lineLenWithNL = nl + 1
		}
		if bytes.Equal(bytes.TrimSpace(thisLine), []byte(close)) {
			body := src[bodyFrom:pos]
			consumed := pos + len(thisLine)
			if nl >= 0 {
				consumed = pos + lineLenWithNL
			}
			kind := PluginBlock
			if triple {
				kind = PlaceholderBlock
			}
			return Token{Kind: kind, Name: name, Body: body, Len: consumed}, true
		}
		pos += lineLenWithNL
		if nl < 0 {
			break
		}
	}
	return Token{}, false
}

func isBlankRun(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}
