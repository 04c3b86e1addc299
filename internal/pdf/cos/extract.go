package cos

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var refPattern = regexp.MustCompile(`(\d+)\s+(\d+)\s+R`)
var anchoredRefPattern = regexp.MustCompile(`^(\d+)\s+(\d+)\s+R`)

// refIn parses the first indirect reference found in a raw value fragment.
func refIn(raw string) (int, bool) {
	m := refPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	n, _ := strconv.Atoi(m[1])
	return n, true
}

// FindEmbeddedFile locates an embedded file stream by filename, first via
// the Catalog's Names/EmbeddedFiles name tree and then via its AF array,
// mirroring the two lookup strategies the original extractor tries in
// sequence. matchName is called with each candidate filename; the first
// match wins.
func FindEmbeddedFile(pdf []byte, matchName func(string) bool) ([]byte, error) {
	info, err := Inspect(pdf)
	if err != nil {
		return nil, err
	}
	catalogBody, ok := FindObjectBody(pdf, info.RootNum)
	if !ok {
		return nil, fmt.Errorf("cos: catalog object %d not found", info.RootNum)
	}
	catalog := ParseDictEntries(catalogBody)

	if data, err := findViaNames(pdf, catalog, matchName); err == nil {
		return data, nil
	}
	if data, err := findViaAF(pdf, catalog, matchName); err == nil {
		return data, nil
	}
	return nil, fmt.Errorf("cos: no embedded file matched")
}

func findViaNames(pdf []byte, catalog map[string]string, matchName func(string) bool) ([]byte, error) {
	namesRef, ok := refIn(catalog["Names"])
	if !ok {
		return nil, fmt.Errorf("cos: no /Names in catalog")
	}
	namesBody, ok := FindObjectBody(pdf, namesRef)
	if !ok {
		return nil, fmt.Errorf("cos: Names object not found")
	}
	namesDict := ParseDictEntries(namesBody)

	efRef, ok := refIn(namesDict["EmbeddedFiles"])
	if !ok {
		return nil, fmt.Errorf("cos: no /EmbeddedFiles in Names")
	}
	efBody, ok := FindObjectBody(pdf, efRef)
	if !ok {
		return nil, fmt.Errorf("cos: EmbeddedFiles object not found")
	}
	efDict := ParseDictEntries(efBody)

	pairs := splitNamesArray(efDict["Names"])
	for i := 0; i+1 < len(pairs); i += 2 {
		name := unquoteLiteral(pairs[i])
		if !matchName(name) {
			continue
		}
		fsRef, ok := refIn(pairs[i+1])
		if !ok {
			continue
		}
		return extractFromFilespec(pdf, fsRef)
	}
	return nil, fmt.Errorf("cos: filename not found in EmbeddedFiles")
}

func findViaAF(pdf []byte, catalog map[string]string, matchName func(string) bool) ([]byte, error) {
	afEntries := bytes.TrimSpace([]byte(catalog["AF"]))
	afEntries = bytes.TrimPrefix(afEntries, []byte("["))
	afEntries = bytes.TrimSuffix(afEntries, []byte("]"))
	for _, m := range refPattern.FindAllString(string(afEntries), -1) {
		n, _ := strconv.Atoi(strings.Fields(m)[0])
		fsBody, ok := FindObjectBody(pdf, n)
		if !ok {
			continue
		}
		fsDict := ParseDictEntries(fsBody)
		name := unquoteLiteral(fsDict["UF"])
		if name == "" {
			name = unquoteLiteral(fsDict["F"])
		}
		if matchName(name) {
			return extractFromFilespec(pdf, n)
		}
	}
	return nil, fmt.Errorf("cos: filename not found in AF array")
}

func extractFromFilespec(pdf []byte, filespecNum int) ([]byte, error) {
	fsBody, ok := FindObjectBody(pdf, filespecNum)
	if !ok {
		return nil, fmt.Errorf("cos: filespec object %d not found", filespecNum)
	}
	fsDict := ParseDictEntries(fsBody)
	var efDict map[string]string
	if efRaw := strings.TrimSpace(fsDict["EF"]); strings.HasPrefix(efRaw, "<<") {
		efDict = ParseDictEntries([]byte(efRaw))
	} else {
		efRef, ok := refIn(efRaw)
		if !ok {
			return nil, fmt.Errorf("cos: filespec has no /EF")
		}
		efBody, ok := FindObjectBody(pdf, efRef)
		if !ok {
			return nil, fmt.Errorf("cos: EF dict not found")
		}
		efDict = ParseDictEntries(efBody)
	}
	streamRef, ok := refIn(efDict["F"])
	if !ok {
		return nil, fmt.Errorf("cos: EF dict has no /F")
	}
	return readStreamData(pdf, streamRef)
}

func readStreamData(pdf []byte, num int) ([]byte, error) {
	body, ok := FindObjectBody(pdf, num)
	if !ok {
		return nil, fmt.Errorf("cos: stream object %d not found", num)
	}
	streamIdx := bytes.Index(body, []byte("stream"))
	if streamIdx < 0 {
		return nil, fmt.Errorf("cos: object %d has no stream", num)
	}
	dictEntries := ParseDictEntries(body[:streamIdx])

	data := body[streamIdx+len("stream"):]
	data = bytes.TrimPrefix(data, []byte("\r\n"))
	data = bytes.TrimPrefix(data, []byte("\n"))
	if end := bytes.LastIndex(data, []byte("endstream")); end >= 0 {
		data = data[:end]
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))

	if strings.Contains(dictEntries["Filter"], "FlateDecode") {
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return data, nil
		}
		defer r.Close()
		decoded, err := io.ReadAll(r)
		if err != nil {
			return data, nil
		}
		return decoded, nil
	}
	return data, nil
}

// splitNamesArray tokenizes a raw PDF array body into one entry per literal
// string or indirect reference, e.g. "[(a.xml) 3 0 R (b.xml) 5 0 R]" becomes
// ["(a.xml)", "3 0 R", "(b.xml)", "5 0 R"].
func splitNamesArray(raw string) []string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	var out []string
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}
		if s[i] == '(' {
			start := i
			i++
			for i < len(s) && s[i] != ')' {
				if s[i] == '\\' {
					i++
				}
				i++
			}
			i++
			out = append(out, s[start:i])
			continue
		}
		if m := anchoredRefPattern.FindString(s[i:]); m != "" {
			out = append(out, m)
			i += len(m)
			continue
		}
		start := i
		for i < len(s) && !isSpace(s[i]) && s[i] != '(' {
			i++
		}
		out = append(out, s[start:i])
	}
	return out
}

func unquoteLiteral(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	return s
}
