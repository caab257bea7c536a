package extraction

import "strings"

// decodeContentText pulls the literal strings shown by Tj/TJ/' operators out
// of a decoded PDF content stream. It does not consult font encodings, so
// output is best-effort: correct for the simple WinAnsi/ASCII text the vast
// majority of contract PDFs use, garbage for subsetted CID fonts (in which
// case extraction fails upstream on the empty result).
func decodeContentText(stream []byte) string {
	var out strings.Builder
	var pending []string
	inArray := false

	i := 0
	for i < len(stream) {
		c := stream[i]
		switch {
		case c == '(':
			literal, next := parseLiteral(stream, i)
			pending = append(pending, literal)
			i = next
			continue
		case c == '[':
			inArray = true
			pending = pending[:0]
		case c == ']':
			inArray = false
		case c == 'T' && i+1 < len(stream):
			switch stream[i+1] {
			case 'j', 'J':
				for _, s := range pending {
					out.WriteString(s)
				}
				pending = pending[:0]
				i += 2
				continue
			case 'd', 'D':
				// Td/TD move to a new line; keep words separated.
				if !inArray {
					out.WriteByte('\n')
				}
				i += 2
				continue
			case '*':
				out.WriteByte('\n')
				i += 2
				continue
			}
		case c == '\'' || c == '"':
			out.WriteByte('\n')
			for _, s := range pending {
				out.WriteString(s)
			}
			pending = pending[:0]
		case !inArray && (c == '\n' || c == '\r'):
			// Operators not handled above flush nothing; drop any string
			// that was an operand of a non-text operator.
			pending = pending[:0]
		}
		i++
	}

	return collapseBlank(out.String())
}

// parseLiteral reads a PDF string literal starting at the '(' byte and
// returns the unescaped text plus the index after the closing ')'.
func parseLiteral(stream []byte, start int) (string, int) {
	var out strings.Builder
	depth := 0
	i := start
	for i < len(stream) {
		c := stream[i]
		switch c {
		case '\\':
			if i+1 < len(stream) {
				i++
				switch stream[i] {
				case 'n':
					out.WriteByte('\n')
				case 'r', 't', 'f', 'b':
					out.WriteByte(' ')
				case '(', ')', '\\':
					out.WriteByte(stream[i])
				default:
					// Octal escapes and anything else: skip. Without the
					// font's encoding table the mapped byte is unreliable.
				}
			}
		case '(':
			depth++
			if depth > 1 {
				out.WriteByte('(')
			}
		case ')':
			depth--
			if depth == 0 {
				return out.String(), i + 1
			}
			out.WriteByte(')')
		default:
			out.WriteByte(c)
		}
		i++
	}
	return out.String(), i
}

// collapseBlank trims runs of blank lines produced by positioning operators
func collapseBlank(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string
	blank := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
