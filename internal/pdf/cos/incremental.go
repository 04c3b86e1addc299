package cos

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// DocInfo is what an incremental update needs to know about the PDF it is
// appending to: the object number backing the document catalog (so a
// rewritten catalog reuses the same number, per PDF's indirect-reference
// model) and the next free object number.
type DocInfo struct {
	RootNum  int
	RootGen  int
	NextFree int
}

var (
	rootRefPattern = regexp.MustCompile(`/Root\s+(\d+)\s+(\d+)\s+R`)
	sizePattern    = regexp.MustCompile(`/Size\s+(\d+)`)
	objPattern     = regexp.MustCompile(`(?s)(\d+)\s+(\d+)\s+obj(.*?)endobj`)
)

// Inspect scans an existing PDF's trailing trailer/xref-stream dictionary
// for /Root and /Size. It works on both classic xref tables and xref
// streams: both contain a trailer-equivalent dictionary with these two keys.
// Inspect searches the whole file and takes the last /Root reference and
// the last /Size value it finds.
func Inspect(pdf []byte) (DocInfo, error) {
	rootMatch := lastMatch(rootRefPattern, pdf)
	if rootMatch == nil {
		return DocInfo{}, fmt.Errorf("cos: no /Root reference found")
	}
	sizeMatch := lastMatch(sizePattern, pdf)
	if sizeMatch == nil {
		return DocInfo{}, fmt.Errorf("cos: no /Size found")
	}
	rootNum, _ := strconv.Atoi(string(rootMatch[1]))
	rootGen, _ := strconv.Atoi(string(rootMatch[2]))
	size, _ := strconv.Atoi(string(sizeMatch[1]))
	return DocInfo{RootNum: rootNum, RootGen: rootGen, NextFree: size}, nil
}

func lastMatch(re *regexp.Regexp, data []byte) [][]byte {
	matches := re.FindAllSubmatch(data, -1)
	if len(matches) == 0 {
		return nil
	}
	return matches[len(matches)-1]
}

// FindObjectBody returns the raw "<< ... >>" (or other) body of an
// indirect object "num gen obj ... endobj" found anywhere in data. Used to
// recover an existing Catalog's entries before rewriting it with new keys.
//
// When an object number occurs more than once (an incremental update
// superseding an earlier generation of the same object), the last
// occurrence wins, matching how a PDF reader resolves indirect references
// by walking the xref chain from the most recent update backward.
func FindObjectBody(data []byte, num int) ([]byte, bool) {
	var found []byte
	ok := false
	for _, m := range objPattern.FindAllSubmatch(data, -1) {
		n, _ := strconv.Atoi(string(m[1]))
		if n == num {
			found = bytes.TrimSpace(m[3])
			ok = true
		}
	}
	return found, ok
}

// ParseDictEntries splits the top-level "/Key value" pairs out of a raw
// dictionary body (the text between the outermost << and >>), preserving
// each value's original source text. It does not interpret nested
// structures; it only needs to find where one value ends and the next key
// begins, which bracket balancing is sufficient for.
func ParseDictEntries(body []byte) map[string]string {
	s := bytes.TrimSpace(body)
	s = bytes.TrimPrefix(s, []byte("<<"))
	s = bytes.TrimSuffix(s, []byte(">>"))

	entries := map[string]string{}
	i := 0
	n := len(s)
	for i < n {
		for i < n && isSpace(s[i]) {
			i++
		}
		if i >= n || s[i] != '/' {
			i++
			continue
		}
		keyStart := i
		i++
		for i < n && !isSpace(s[i]) && s[i] != '/' && s[i] != '<' && s[i] != '[' && s[i] != '(' {
			i++
		}
		key := string(s[keyStart+1 : i])

		for i < n && isSpace(s[i]) {
			i++
		}
		valStart := i
		depth := 0
		for i < n {
			switch s[i] {
			case '<', '[', '(':
				depth++
			case '>', ']', ')':
				if depth > 0 {
					depth--
				}
			}
			i++
			if depth == 0 {
				if i < n && s[i] == '/' {
					break
				}
				if i >= n {
					break
				}
			}
		}
		entries[key] = string(bytes.TrimSpace(s[valStart:i]))
	}
	return entries
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\r' || b == '\t'
}

// AppendUpdate writes an incremental update onto an existing PDF: the
// original bytes are left untouched, then each of newObjects is appended
// at a known offset, followed by a fresh xref table and trailer whose
// /Prev points at the file's previous startxref. This is how real editors
// (and the original Rust implementation's lopdf-based embedder) add
// content to a PDF without risking the existing page tree.
func AppendUpdate(original []byte, newObjects []Object, info DocInfo) []byte {
	var out bytes.Buffer
	out.Write(original)
	if len(original) > 0 && original[len(original)-1] != '\n' {
		out.WriteByte('\n')
	}

	offsets := map[int]int{}
	for _, obj := range newObjects {
		offsets[obj.Ref.Num] = out.Len()
		out.Write(Encode(obj))
	}

	xrefOffset := out.Len()
	nums := make([]int, 0, len(newObjects))
	for _, obj := range newObjects {
		nums = append(nums, obj.Ref.Num)
	}
	sort.Ints(nums)

	out.WriteString("xref\n")
	for _, num := range nums {
		fmt.Fprintf(&out, "%d 1\n", num)
		fmt.Fprintf(&out, "%010d %05d n \n", offsets[num], 0)
	}

	maxNum := info.NextFree
	for _, num := range nums {
		if num+1 > maxNum {
			maxNum = num + 1
		}
	}

	prevOffset := lastStartxref(original)
	out.WriteString("trailer\n")
	out.WriteString("<<")
	fmt.Fprintf(&out, "/Size %d ", maxNum)
	fmt.Fprintf(&out, "/Root %d %d R ", info.RootNum, info.RootGen)
	if prevOffset >= 0 {
		fmt.Fprintf(&out, "/Prev %d ", prevOffset)
	}
	out.WriteString(">>\n")
	out.WriteString("startxref\n")
	fmt.Fprintf(&out, "%d\n", xrefOffset)
	out.WriteString("%%EOF\n")

	return out.Bytes()
}

var startxrefPattern = regexp.MustCompile(`startxref\s+(\d+)`)

func lastStartxref(data []byte) int {
	m := lastMatch(startxrefPattern, data)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return -1
	}
	return n
}
