package blocker

import (
	"strings"
)

// Markers delimit the managed section of the hosts file.
type Markers struct {
	Begin string
	End   string
}

type lineSpan struct {
	start int // first byte of the line
	end   int // end of the text, before the line ending
	next  int // first byte after the line ending
}

func splitLines(s string) []lineSpan {
	var lines []lineSpan
	for start := 0; start < len(s); {
		i := strings.IndexByte(s[start:], '\n')
		if i < 0 {
			lines = append(lines, lineSpan{start: start, end: trimCR(s, start, len(s)), next: len(s)})
			break
		}
		nl := start + i
		lines = append(lines, lineSpan{start: start, end: trimCR(s, start, nl), next: nl + 1})
		start = nl + 1
	}
	return lines
}

func trimCR(s string, start, end int) int {
	if end > start && s[end-1] == '\r' {
		return end - 1
	}
	return end
}

func (l lineSpan) is(s, marker string) bool {
	return strings.TrimSpace(s[l.start:l.end]) == marker
}

// lineEnding returns the line ending used by content: "\r\n" when its
// first line ends that way, "\n" otherwise.
func lineEnding(content string) string {
	i := strings.IndexByte(content, '\n')
	if i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// findSection locates the first managed section. from is where removal
// starts, to where it ends. A begin marker without an end marker extends
// the section to the end of the content.
func findSection(content string, m Markers) (from, to int, ok bool) {
	lines := splitLines(content)

	begin := -1
	for i, l := range lines {
		if l.is(content, m.Begin) {
			begin = i
			break
		}
	}
	if begin < 0 {
		return 0, 0, false
	}

	from = lines[begin].start
	for _, l := range lines[begin+1:] {
		if !l.is(content, m.End) {
			continue
		}
		to = l.next
		if l.next == l.end && from > 0 {
			// The section was appended without a trailing line ending;
			// the separator written before it goes too.
			from--
			if from > 0 && content[from-1] == '\r' {
				from--
			}
		}
		return from, to, true
	}
	return from, len(content), true
}

// StripSection removes every managed section from content, markers
// included. Everything outside the sections is returned byte for byte.
func StripSection(content string, m Markers) (string, bool) {
	found := false
	for {
		from, to, ok := findSection(content, m)
		if !ok {
			return content, found
		}
		found = true
		content = content[:from] + content[to:]
	}
}

// RenderSection returns the managed section for hosts without a trailing
// line ending.
func RenderSection(hosts []string, redirectIP string, m Markers, eol string) string {
	var b strings.Builder
	b.WriteString(m.Begin)
	for _, h := range hosts {
		b.WriteString(eol)
		b.WriteString(redirectIP)
		b.WriteByte(' ')
		b.WriteString(h)
	}
	b.WriteString(eol)
	b.WriteString(m.End)
	return b.String()
}

// ApplySection replaces any managed section in content with one listing
// hosts. Removing the section again with StripSection restores the
// original content exactly, including a missing final line ending.
func ApplySection(content string, hosts []string, redirectIP string, m Markers) string {
	base, _ := StripSection(content, m)
	eol := lineEnding(base)
	section := RenderSection(hosts, redirectIP, m, eol)

	switch {
	case base == "":
		return section + eol
	case strings.HasSuffix(base, "\n"):
		return base + section + eol
	default:
		return base + eol + section
	}
}

// ParseSection returns the host names listed in the managed section.
func ParseSection(content string, m Markers) ([]string, bool) {
	from, to, ok := findSection(content, m)
	if !ok {
		return nil, false
	}

	hosts := []string{}
	for _, l := range splitLines(content[from:to]) {
		line := strings.TrimSpace(content[from:to][l.start:l.end])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			hosts = append(hosts, fields[1:]...)
		}
	}
	return hosts, true
}
