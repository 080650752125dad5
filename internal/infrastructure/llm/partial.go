package llm

import "github.com/bytedance/sonic"

// completePartialJSON turns the growing prefix of a JSON document, as
// emitted token by token by the model, into the largest well-formed
// document it already contains. An open string is closed, open objects and
// arrays get their closers appended, and a dangling tail (a half-written
// key, a bare ':' or a truncated literal like `fal`) is cut back to the
// previous structural boundary until the result validates.
//
// Returns nil and false while the prefix holds no decodable document yet.
func completePartialJSON(raw []byte) ([]byte, bool) {
	for len(raw) > 0 {
		candidate := closeJSON(raw)
		if len(candidate) > 0 && sonic.Valid(candidate) {
			return candidate, true
		}
		cut := lastStructuralBoundary(raw)
		if cut < 0 {
			return nil, false
		}
		raw = raw[:cut]
	}
	return nil, false
}

// closeJSON appends the terminators implied by the open scopes of raw:
// a closing quote if a string is open, then one closer per unclosed
// object/array. A trailing ',' or ':' outside strings is stripped first.
func closeJSON(raw []byte) []byte {
	var stack []byte
	inString, escaped := false, false

	for _, b := range raw {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	out := make([]byte, len(raw), len(raw)+len(stack)+1)
	copy(out, raw)

	if inString {
		if escaped {
			// Drop a trailing lone backslash so the quote we add is not
			// swallowed as an escape.
			out = out[:len(out)-1]
		}
		out = append(out, '"')
	}

	// A trailing comma or colon would make the closers invalid.
	for len(out) > 0 {
		last := out[len(out)-1]
		if last == ' ' || last == '\t' || last == '\n' || last == '\r' || last == ',' {
			out = out[:len(out)-1]
			continue
		}
		break
	}

	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, stack[i])
	}
	return out
}

// lastStructuralBoundary finds the cut point for discarding an undecodable
// tail: just before the last top-level-visible ',' or just after the last
// '{'/'[' outside strings. Returns -1 when no boundary remains.
func lastStructuralBoundary(raw []byte) int {
	inString, escaped := false, false
	cut := -1

	for i, b := range raw {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case ',':
			cut = i
		case '{', '[':
			cut = i + 1
		}
	}

	if cut >= len(raw) {
		return -1
	}
	return cut
}
