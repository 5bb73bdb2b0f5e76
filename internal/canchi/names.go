package canchi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tartampluch/go-amlich/internal/config"
	"golang.org/x/text/unicode/norm"
)

// ErrNamingGap marks a raw cyclical symbol missing from the naming table.
var ErrNamingGap = errors.New(config.ErrNamingGap)

// Stem is one of the 10 Heavenly Stems (Can).
type Stem int

// Heavenly Stems in cycle order.
const (
	Giap Stem = iota
	At
	Binh
	Dinh
	Mau
	Ky
	Canh
	Tan
	Nham
	Quy
)

// InvalidStem is carried by pairs whose raw symbol could not be named.
const InvalidStem Stem = -1

// Branch is one of the 12 Earthly Branches (Chi).
type Branch int

// Earthly Branches in cycle order. Ty is Tý (Rat), Ti is Tỵ (Snake).
const (
	Ty Branch = iota
	Suu
	Dan
	Mao
	Thin
	Ti
	Ngo
	Mui
	Than
	Dau
	Tuat
	Hoi
)

// InvalidBranch is carried by pairs whose raw symbol could not be named.
const InvalidBranch Branch = -1

// Element is one of the five Ngũ Hành elements.
type Element int

const (
	Moc Element = iota
	Hoa
	Tho
	Kim
	Thuy
)

// InvalidElement belongs to InvalidStem.
const InvalidElement Element = -1

var (
	stemNames    = []string{"Giáp", "Ất", "Bính", "Đinh", "Mậu", "Kỷ", "Canh", "Tân", "Nhâm", "Quý"}
	branchNames  = []string{"Tý", "Sửu", "Dần", "Mão", "Thìn", "Tỵ", "Ngọ", "Mùi", "Thân", "Dậu", "Tuất", "Hợi"}
	elementNames = []string{"Mộc", "Hỏa", "Thổ", "Kim", "Thủy"}

	zodiacAnimals = []string{"Chuột", "Trâu", "Hổ", "Mèo", "Rồng", "Rắn", "Ngựa", "Dê", "Khỉ", "Gà", "Chó", "Lợn"}
	zodiacEmojis  = []string{"🐀", "🐃", "🐅", "🐈", "🐉", "🐍", "🐎", "🐐", "🐒", "🐓", "🐕", "🐖"}
)

// Raw symbols as reported by conversion primitives.
var (
	rawStems = map[rune]Stem{
		'甲': Giap, '乙': At, '丙': Binh, '丁': Dinh, '戊': Mau,
		'己': Ky, '庚': Canh, '辛': Tan, '壬': Nham, '癸': Quy,
	}
	rawBranches = map[rune]Branch{
		'子': Ty, '丑': Suu, '寅': Dan, '卯': Mao, '辰': Thin, '巳': Ti,
		'午': Ngo, '未': Mui, '申': Than, '酉': Dau, '戌': Tuat, '亥': Hoi,
	}

	// Vietnamese names are accepted too, whatever their Unicode normal form.
	stemByName   = indexNames(stemNames)
	branchByName = indexNames(branchNames)
)

func indexNames(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[norm.NFC.String(n)] = i
	}
	return m
}

// Valid reports whether s is one of the 10 stems.
func (s Stem) Valid() bool { return s >= 0 && int(s) < config.StemCount }

func (s Stem) String() string {
	if !s.Valid() {
		return ""
	}
	return stemNames[s]
}

// Element returns the Ngũ Hành element of the stem (two stems per element).
func (s Stem) Element() Element {
	if !s.Valid() {
		return InvalidElement
	}
	return Element(int(s) / 2)
}

func (s Stem) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts a Vietnamese stem name; the empty string is InvalidStem.
func (s *Stem) UnmarshalText(text []byte) error {
	i, err := unmarshalName(stemByName, text)
	*s = Stem(i)
	return err
}

// Valid reports whether b is one of the 12 branches.
func (b Branch) Valid() bool { return b >= 0 && int(b) < config.BranchCount }

func (b Branch) String() string {
	if !b.Valid() {
		return ""
	}
	return branchNames[b]
}

func (b Branch) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText accepts a Vietnamese branch name; the empty string is InvalidBranch.
func (b *Branch) UnmarshalText(text []byte) error {
	i, err := unmarshalName(branchByName, text)
	*b = Branch(i)
	return err
}

// Valid reports whether e is one of the five elements.
func (e Element) Valid() bool { return e >= 0 && int(e) < config.ElementCount }

func (e Element) String() string {
	if !e.Valid() {
		return ""
	}
	return elementNames[e]
}

func (e Element) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Element) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*e = InvalidElement
		return nil
	}
	el, ok := ParseElement(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrNamingGap, text)
	}
	*e = el
	return nil
}

func unmarshalName(index map[string]int, text []byte) (int, error) {
	if len(text) == 0 {
		return -1, nil
	}
	i, ok := index[norm.NFC.String(string(text))]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrNamingGap, text)
	}
	return i, nil
}

// ElementOf returns the element of a stem.
func ElementOf(s Stem) Element { return s.Element() }

// ParseElement resolves a Vietnamese element name such as "Thủy".
func ParseElement(name string) (Element, bool) {
	name = norm.NFC.String(strings.TrimSpace(name))
	for i, n := range elementNames {
		if strings.EqualFold(n, name) {
			return Element(i), true
		}
	}
	return InvalidElement, false
}

// Translate re-expresses a raw cyclical symbol ("戊戌" or "Mậu Tuất") as a Pair.
// An unknown symbol comes back unchanged as the label, wrapped in ErrNamingGap.
func Translate(raw string) (Pair, error) {
	if s, b, ok := parseRaw(raw); ok {
		return NewPair(s, b), nil
	}
	if s, b, ok := parseName(raw); ok {
		return NewPair(s, b), nil
	}
	return Pair{
		Stem:    InvalidStem,
		Branch:  InvalidBranch,
		Label:   raw,
		Element: InvalidElement,
	}, fmt.Errorf("%w: %q", ErrNamingGap, raw)
}

func parseRaw(raw string) (Stem, Branch, bool) {
	runes := []rune(strings.TrimSpace(raw))
	if len(runes) != 2 {
		return 0, 0, false
	}
	s, okS := rawStems[runes[0]]
	b, okB := rawBranches[runes[1]]
	return s, b, okS && okB
}

func parseName(raw string) (Stem, Branch, bool) {
	fields := strings.Fields(norm.NFC.String(raw))
	if len(fields) != 2 {
		return 0, 0, false
	}
	s, okS := stemByName[fields[0]]
	b, okB := branchByName[fields[1]]
	return Stem(s), Branch(b), okS && okB
}
