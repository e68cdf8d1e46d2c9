package registry

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

var (
	xpAbstractNums = xpath.MustCompile(`/*[local-name()='numbering']/*[local-name()='abstractNum']`)
	xpNums         = xpath.MustCompile(`/*[local-name()='numbering']/*[local-name()='num']`)
	xpLevels       = xpath.MustCompile(`*[local-name()='lvl']`)
	xpNumFmt       = xpath.MustCompile(`*[local-name()='numFmt']`)
	xpAbstractRef  = xpath.MustCompile(`*[local-name()='abstractNumId']`)
)

// Numbering is the parsed numbering.xml of a document together with the
// instances allocated for export.
type Numbering struct {
	raw []byte
	// abstract id -> level -> numFmt
	formats map[string]map[int]string
	// num id -> abstract id
	nums     map[string]string
	numOrder []string

	nextAbstract int
	nextNum      int
	addedAbs     []string
	addedNums    []string
}

// ParseNumbering parses numbering.xml. Empty input yields an empty table.
func ParseNumbering(data []byte) (*Numbering, error) {
	n := &Numbering{
		raw:     data,
		formats: make(map[string]map[int]string),
		nums:    make(map[string]string),
	}
	if len(bytes.TrimSpace(data)) == 0 {
		n.nextNum = 1
		return n, nil
	}

	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse numbering.xml: %w", err)
	}

	for _, abs := range xmlquery.QuerySelectorAll(root, xpAbstractNums) {
		id := attr(abs, "abstractNumId")
		levels := make(map[int]string)
		for _, lvl := range xmlquery.QuerySelectorAll(abs, xpLevels) {
			ilvl, err := strconv.Atoi(attr(lvl, "ilvl"))
			if err != nil {
				continue
			}
			if f := xmlquery.QuerySelector(lvl, xpNumFmt); f != nil {
				levels[ilvl] = attr(f, "val")
			}
		}
		n.formats[id] = levels
		if v, err := strconv.Atoi(id); err == nil && v >= n.nextAbstract {
			n.nextAbstract = v + 1
		}
	}

	for _, num := range xmlquery.QuerySelectorAll(root, xpNums) {
		id := attr(num, "numId")
		if id == "" {
			continue
		}
		if ref := xmlquery.QuerySelector(num, xpAbstractRef); ref != nil {
			n.nums[id] = attr(ref, "val")
		}
		n.numOrder = append(n.numOrder, id)
		if v, err := strconv.Atoi(id); err == nil && v >= n.nextNum {
			n.nextNum = v + 1
		}
	}
	if n.nextNum == 0 {
		n.nextNum = 1
	}
	return n, nil
}

// Format returns the numFmt of a numbering instance at a level.
func (n *Numbering) Format(numID string, ilvl int) (string, bool) {
	abs, ok := n.nums[numID]
	if !ok {
		return "", false
	}
	levels, ok := n.formats[abs]
	if !ok {
		return "", false
	}
	f, ok := levels[ilvl]
	if !ok && ilvl != 0 {
		f, ok = levels[0]
	}
	return f, ok
}

// Ordered reports whether a numbering instance produces numbers rather than
// bullets. found is false when numID is unknown.
func (n *Numbering) Ordered(numID string, ilvl int) (ordered, found bool) {
	f, ok := n.Format(numID, ilvl)
	if !ok {
		return false, false
	}
	return isOrderedFormat(f), true
}

func isOrderedFormat(f string) bool {
	switch f {
	case "bullet", "none", "":
		return false
	}
	return true
}

// Allocator hands out one numbering instance per exported list block.
// Existing instances are reused in document order before new definitions
// are appended.
type Allocator struct {
	n    *Numbering
	used map[string]bool
}

// NewAllocator starts a fresh allocation pass.
func (n *Numbering) NewAllocator() *Allocator {
	return &Allocator{n: n, used: make(map[string]bool)}
}

// Allocate returns a numId whose level 0 matches ordered and that has not
// been handed out during this pass.
func (a *Allocator) Allocate(ordered bool) string {
	for _, id := range a.n.numOrder {
		if a.used[id] {
			continue
		}
		if o, ok := a.n.Ordered(id, 0); ok && o == ordered {
			a.used[id] = true
			return id
		}
	}
	id := a.n.addInstance(ordered)
	a.used[id] = true
	return id
}

func (n *Numbering) addInstance(ordered bool) string {
	absID := strconv.Itoa(n.nextAbstract)
	n.nextAbstract++
	numID := strconv.Itoa(n.nextNum)
	n.nextNum++

	format, text := "bullet", "•"
	if ordered {
		format, text = "decimal", "%1."
	}
	n.formats[absID] = map[int]string{0: format}
	n.nums[numID] = absID
	n.numOrder = append(n.numOrder, numID)

	n.addedAbs = append(n.addedAbs, fmt.Sprintf(
		`<w:abstractNum w:abstractNumId="%s"><w:multiLevelType w:val="singleLevel"/>`+
			`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="%s"/><w:lvlText w:val="%s"/>`+
			`<w:lvlJc w:val="left"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum>`,
		absID, format, text))
	n.addedNums = append(n.addedNums, fmt.Sprintf(
		`<w:num w:numId="%s"><w:abstractNumId w:val="%s"/></w:num>`, numID, absID))
	return numID
}

// Modified reports whether definitions were appended since parsing.
func (n *Numbering) Modified() bool {
	return len(n.addedNums) > 0
}

// Empty reports whether the table has no instances at all.
func (n *Numbering) Empty() bool {
	return len(n.numOrder) == 0
}

// Bytes returns numbering.xml including appended definitions. Abstract
// definitions are placed ahead of the first w:num, as the schema orders them.
func (n *Numbering) Bytes() []byte {
	if !n.Modified() {
		return n.raw
	}
	abs := strings.Join(n.addedAbs, "")
	nums := strings.Join(n.addedNums, "")
	if len(bytes.TrimSpace(n.raw)) == 0 {
		return []byte(xmlHeader + `<w:numbering xmlns:w="` + wml.NamespaceW + `">` + abs + nums + `</w:numbering>`)
	}

	out := spliceBeforeClose(n.raw, "numbering", nums)
	idx := firstNumElement(out)
	if idx < 0 {
		return spliceBeforeClose(n.raw, "numbering", abs+nums)
	}
	res := make([]byte, 0, len(out)+len(abs))
	res = append(res, out[:idx]...)
	res = append(res, abs...)
	res = append(res, out[idx:]...)
	return res
}

// firstNumElement finds the first <x:num> or <x:num ...> start tag.
func firstNumElement(b []byte) int {
	for i := 0; i < len(b); i++ {
		j := bytes.Index(b[i:], []byte(":num"))
		if j < 0 {
			return -1
		}
		pos := i + j
		end := pos + len(":num")
		if end < len(b) && (b[end] == ' ' || b[end] == '>' || b[end] == '\t' || b[end] == '\n' || b[end] == '\r') {
			start := bytes.LastIndexByte(b[:pos], '<')
			if start >= 0 && !bytes.ContainsAny(b[start+1:pos], "/ >") {
				return start
			}
		}
		i = end - 1
	}
	return -1
}
