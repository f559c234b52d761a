package analysis

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"math/big"
	"os"
	"regexp"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/serrors"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	DefaultMinLength = 8
	maxGenerateLen   = 1024

	// guesses per second for a throttled online attack (100 per hour)
	onlineGuessRate = 100.0 / 3600
	// guesses per second for an offline attack on a fast unsalted hash
	offlineGuessRate = 1e10

	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.<>/?~"
)

var (
	//go:embed data/common_passwords.txt
	commonPasswordsTxt string
	//go:embed data/words.txt
	wordsTxt string
)

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm", "1qaz2wsx3edc", "qazwsxedc"} //nolint: gochecknoglobals

// longestKeyboardRow bounds the length of a keyboard walk.
var longestKeyboardRow = func() int { //nolint: gochecknoglobals
	n := 0
	for _, row := range keyboardRows {
		n = max(n, utf8.RuneCountInString(row))
	}

	return n
}()

var yearRe = regexp.MustCompile(`(19|20)\d{2}`) //nolint: gochecknoglobals

var dateRe = regexp.MustCompile(`\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}`) //nolint: gochecknoglobals

// leetReplacer undoes common character substitutions.
var leetReplacer = strings.NewReplacer( //nolint: gochecknoglobals
	"4", "a", "@", "a", "8", "b", "3", "e", "1", "i", "!", "i",
	"0", "o", "$", "s", "5", "s", "7", "t", "+", "t",
)

// PasswordOptions configures a PasswordAnalyzer.
type PasswordOptions struct {
	// MinLength is the policy minimum length; defaults to 8.
	MinLength int
	// Wordlist adds common passwords to the embedded list.
	Wordlist []string
}

// PasswordAnalyzer estimates password strength.
type PasswordAnalyzer struct {
	minLength int
	common    map[string]struct{}
	words     []string
}

// NewPasswordAnalyzer creates a PasswordAnalyzer with the embedded common
// password and dictionary lists plus opts.Wordlist.
func NewPasswordAnalyzer(opts PasswordOptions) *PasswordAnalyzer {
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}

	a := &PasswordAnalyzer{
		minLength: opts.MinLength,
		common:    make(map[string]struct{}),
	}
	for _, p := range append(strings.Fields(commonPasswordsTxt), opts.Wordlist...) {
		a.common[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}

	for _, w := range strings.Fields(wordsTxt) {
		if len(w) >= 4 {
			a.words = append(a.words, w)
		}
	}

	// longest first so the most specific word wins
	slices.SortFunc(a.words, func(x, y string) int { return len(y) - len(x) })

	return a
}

// LoadWordlist reads one password per line from path, skipping blank lines
// and lines starting with #.
func LoadWordlist(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, serrors.Wrap(serrors.ErrNotFound, err, "wordlist %s not found", path)
	}

	if err != nil {
		return nil, fmt.Errorf("could not open wordlist: %w", err)
	}
	defer f.Close()

	return readWordlist(f)
}

func readWordlist(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		words = append(words, line)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("could not read wordlist: %w", err)
	}

	return words, nil
}

// span marks the rune range [start, end) of a detected pattern.
type span struct {
	start, end int
	// bits is the entropy the pattern contributes in place of its runes.
	bits float64
}

// Analyze reports the strength of pw. The password is NFKC normalized
// first, so visually equivalent inputs get the same result.
func (a *PasswordAnalyzer) Analyze(pw string) domain.PasswordReport {
	pw = norm.NFKC.String(pw)
	runes := []rune(pw)
	report := domain.PasswordReport{
		Length:         utf8.RuneCountInString(pw),
		ShannonEntropy: round2(ShannonEntropy(pw)),
	}
	if report.Length == 0 {
		report.Feedback = []string{"Enter a password"}

		return report
	}

	for _, r := range runes {
		switch {
		case r > unicode.MaxASCII:
			report.HasUnicode = true
		case unicode.IsLower(r):
			report.HasLower = true
		case unicode.IsUpper(r):
			report.HasUpper = true
		case unicode.IsDigit(r):
			report.HasDigit = true
		default:
			report.HasSymbol = true
		}
	}

	report.PoolSize = poolSize(report)
	perChar := math.Log2(float64(report.PoolSize))
	report.Entropy = round2(float64(report.Length) * perChar)

	lower := strings.ToLower(pw)
	_, isCommon := a.common[lower]

	var spans []span
	if isCommon {
		report.Patterns = append(report.Patterns, domain.PasswordPattern{Kind: "common"})
	} else {
		spans = a.findPatterns(runes, &report)
	}

	effective := effectiveEntropy(report.Length, perChar, spans)
	if isCommon {
		effective = math.Log2(float64(len(a.common)))
	}

	report.Score = scoreFor(effective)
	if report.Length < a.minLength && report.Score > domain.ScoreWeak {
		report.Score = domain.ScoreWeak
	}

	if isCommon {
		report.Score = domain.ScoreVeryWeak
	}

	// average case: half the key space
	guesses := math.Exp2(effective) / 2
	report.CrackTimeOnline = secondsToDuration(guesses / onlineGuessRate)
	report.CrackTimeOffline = secondsToDuration(guesses / offlineGuessRate)

	classes := 0
	for _, ok := range []bool{report.HasLower, report.HasUpper, report.HasDigit, report.HasSymbol || report.HasUnicode} {
		if ok {
			classes++
		}
	}

	report.MeetsPolicy = report.Length >= a.minLength && classes >= 3 && !isCommon
	report.Feedback = a.feedback(report, classes)

	return report
}

func poolSize(r domain.PasswordReport) int {
	pool := 0
	if r.HasLower {
		pool += 26
	}

	if r.HasUpper {
		pool += 26
	}

	if r.HasDigit {
		pool += 10
	}

	if r.HasSymbol {
		pool += 33
	}

	if r.HasUnicode {
		pool += 100
	}

	return pool
}

// findPatterns records weaknesses in report and returns the rune spans they cover.
func (a *PasswordAnalyzer) findPatterns(runes []rune, report *domain.PasswordReport) []span {
	var spans []span
	add := func(kind string, start, end int, bits float64) {
		report.Patterns = append(report.Patterns, domain.PasswordPattern{Kind: kind, Match: string(runes[start:end])})
		spans = append(spans, span{start: start, end: end, bits: bits})
	}

	lower := []rune(strings.ToLower(string(runes)))

	// dictionary words, also behind leet substitutions
	deleet := []rune(leetReplacer.Replace(string(lower)))
	used := make([]bool, len(deleet))
	for _, w := range a.words {
		for off := 0; ; {
			i := strings.Index(string(deleet[off:]), w)
			if i < 0 {
				break
			}

			start := off + utf8.RuneCountInString(string(deleet[off:])[:i])
			end := start + utf8.RuneCountInString(w)
			if !slices.Contains(used[start:end], true) {
				for k := start; k < end; k++ {
					used[k] = true
				}

				add("dictionary", start, end, math.Log2(float64(len(a.words)))+1)
			}

			off = end
		}
	}

	// sequences such as abc or 987
	for start := 0; start < len(lower); {
		end := start + 1
		if start+1 < len(lower) {
			step := lower[start+1] - lower[start]
			if step == 1 || step == -1 {
				for end < len(lower) && lower[end]-lower[end-1] == step {
					end++
				}
			}
		}

		if end-start >= 3 {
			add("sequence", start, end, math.Log2(float64(end-start))+2)
			start = end

			continue
		}

		start++
	}

	// keyboard walks of four or more keys
	for start := 0; start+4 <= len(lower); {
		end := start
		for n := min(len(lower), start+longestKeyboardRow); n >= start+4; n-- {
			if onKeyboard(string(lower[start:n])) {
				end = n

				break
			}
		}

		if end > start {
			add("keyboard", start, end, math.Log2(float64(end-start))+3)
			start = end

			continue
		}

		start++
	}

	// runs of the same character
	for start := 0; start < len(lower); {
		end := start + 1
		for end < len(lower) && lower[end] == lower[start] {
			end++
		}

		if end-start >= 3 {
			add("repeat", start, end, math.Log2(float64(end-start))+math.Log2(float64(report.PoolSize)))
		}

		start = end
	}

	// dates before bare years so a year inside a date is not counted twice
	s := string(runes)
	covered := make([]bool, len(s))
	for _, re := range []*regexp.Regexp{dateRe, yearRe} {
		for _, m := range re.FindAllStringIndex(s, -1) {
			if slices.Contains(covered[m[0]:m[1]], true) {
				continue
			}

			for k := m[0]; k < m[1]; k++ {
				covered[k] = true
			}

			start := utf8.RuneCountInString(s[:m[0]])
			add("date", start, start+utf8.RuneCountInString(s[m[0]:m[1]]), 13)
		}
	}

	return spans
}

func onKeyboard(s string) bool {
	rev := []rune(s)
	slices.Reverse(rev)
	for _, row := range keyboardRows {
		if strings.Contains(row, s) || strings.Contains(row, string(rev)) {
			return true
		}
	}

	return false
}

// effectiveEntropy charges perChar bits for every rune not covered by a
// pattern and the pattern's own cost for covered ranges. Overlapping spans
// are charged once, using the cheapest span.
func effectiveEntropy(length int, perChar float64, spans []span) float64 {
	cost := make([]float64, length)
	for i := range cost {
		cost[i] = perChar
	}

	owner := make([]int, length)
	for i := range owner {
		owner[i] = -1
	}

	slices.SortStableFunc(spans, func(x, y span) int {
		switch {
		case x.bits < y.bits:
			return -1
		case x.bits > y.bits:
			return 1
		default:
			return 0
		}
	})

	for idx, sp := range spans {
		if slices.ContainsFunc(owner[sp.start:sp.end], func(o int) bool { return o >= 0 }) {
			continue
		}

		for k := sp.start; k < sp.end; k++ {
			owner[k] = idx
			cost[k] = 0
		}

		cost[sp.start] = sp.bits
	}

	var total float64
	for _, c := range cost {
		total += c
	}

	return total
}

func scoreFor(bits float64) domain.PasswordScore {
	switch {
	case bits < 28:
		return domain.ScoreVeryWeak
	case bits < 36:
		return domain.ScoreWeak
	case bits < 60:
		return domain.ScoreFair
	case bits < 80:
		return domain.ScoreStrong
	default:
		return domain.ScoreVeryStrong
	}
}

func (a *PasswordAnalyzer) feedback(r domain.PasswordReport, classes int) []string {
	var out []string
	if r.Length < a.minLength {
		out = append(out, fmt.Sprintf("Use at least %d characters", a.minLength))
	}

	if classes < 3 {
		if !r.HasUpper {
			out = append(out, "Add uppercase letters")
		}

		if !r.HasLower {
			out = append(out, "Add lowercase letters")
		}

		if !r.HasDigit {
			out = append(out, "Add digits")
		}

		if !r.HasSymbol && !r.HasUnicode {
			out = append(out, "Add symbols")
		}
	}

	messages := map[string]string{
		"common":     "Avoid commonly used passwords",
		"dictionary": "Avoid dictionary words, even with character substitutions",
		"sequence":   "Avoid sequences like abc or 123",
		"keyboard":   "Avoid keyboard patterns like qwerty",
		"repeat":     "Avoid repeated characters",
		"date":       "Avoid dates and years",
	}
	seen := make(map[string]bool)
	for _, p := range r.Patterns {
		if !seen[p.Kind] {
			seen[p.Kind] = true
			out = append(out, messages[p.Kind])
		}
	}

	if r.Score < domain.ScoreStrong && len(out) == 0 {
		out = append(out, "Make the password longer")
	}

	return out
}

func secondsToDuration(s float64) time.Duration {
	if s >= float64(math.MaxInt64)/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(s * float64(time.Second))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Generate returns a random password of length characters with at least one
// lowercase letter, uppercase letter and digit, and a symbol when symbols is
// set. Lengths below 8 are rejected.
func Generate(length int, symbols bool) (string, error) {
	if length < DefaultMinLength || length > maxGenerateLen {
		return "", serrors.With(serrors.ErrBadRequest, "password length must be between %d and %d", DefaultMinLength, maxGenerateLen)
	}

	classes := []string{lowerChars, upperChars, digitChars}
	if symbols {
		classes = append(classes, symbolChars)
	}

	alphabet := strings.Join(classes, "")
	out := make([]byte, 0, length)
	for _, set := range classes {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}

		out = append(out, c)
	}

	for len(out) < length {
		c, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}

		out = append(out, c)
	}

	// Fisher-Yates so the guaranteed classes are not always first
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("could not read random: %w", err)
		}

		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}

	return string(out), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("could not read random: %w", err)
	}

	return set[n.Int64()], nil
}
