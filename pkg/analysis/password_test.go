package analysis_test

import (
	"os"
	"path/filepath"
	"sectoolkit/pkg/analysis"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/serrors"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/require"
)

func kinds(r domain.PasswordReport) []string {
	out := make([]string, 0, len(r.Patterns))
	for _, p := range r.Patterns {
		out = append(out, p.Kind)
	}

	return out
}

func TestPasswordAnalyzer_CommonPassword(t *testing.T) {
	a := analysis.NewPasswordAnalyzer(analysis.PasswordOptions{})

	for _, pw := range []string{"password", "Password1", "ｐａｓｓｗｏｒｄ", "qwerty123"} {
		r := a.Analyze(pw)
		require.Equal(t, domain.ScoreVeryWeak, r.Score, pw)
		require.Equal(t, []string{"common"}, kinds(r), pw)
		require.Empty(t, r.Patterns[0].Match)
		require.False(t, r.MeetsPolicy)
		require.Contains(t, r.Feedback, "Avoid commonly used passwords")
		require.Less(t, r.CrackTimeOnline, 24*time.Hour*30)
	}
}

func TestPasswordAnalyzer_CustomWordlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("# corporate leaks\nAcmeCorp!2026\n\n"), 0o600))

	words, err := analysis.LoadWordlist(path)
	require.NoError(t, err)
	require.Equal(t, []string{"AcmeCorp!2026"}, words)

	a := analysis.NewPasswordAnalyzer(analysis.PasswordOptions{Wordlist: words})
	require.Equal(t, domain.ScoreVeryWeak, a.Analyze("acmecorp!2026").Score)

	_, err = analysis.LoadWordlist(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestPasswordAnalyzer_Empty(t *testing.T) {
	r := analysis.NewPasswordAnalyzer(analysis.PasswordOptions{}).Analyze("")
	require.Zero(t, r.Length)
	require.Equal(t, domain.ScoreVeryWeak, r.Score)
	require.NotEmpty(t, r.Feedback)
}

func TestPasswordAnalyzer_Patterns(t *testing.T) {
	a := analysis.NewPasswordAnalyzer(analysis.PasswordOptions{})

	r := a.Analyze("Summer2024!")
	require.Contains(t, kinds(r), "dictionary")
	require.Contains(t, kinds(r), "date")
	require.LessOrEqual(t, r.Score, domain.ScoreWeak)
	require.True(t, r.HasUpper && r.HasLower && r.HasDigit && r.HasSymbol)
	require.Equal(t, 95, r.PoolSize)

	r = a.Analyze("xyzabc")
	require.Contains(t, kinds(r), "sequence")

	r = a.Analyze("zzzzzzz9")
	require.Contains(t, kinds(r), "repeat")
	require.Equal(t, domain.ScoreVeryWeak, r.Score)

	r = a.Analyze("asdfgh77")
	require.Contains(t, kinds(r), "keyboard")

	r = a.Analyze("m0nk3yb@n@n@")
	require.Contains(t, kinds(r), "dictionary")

	r = a.Analyze("born 12/05/1990")
	require.Equal(t, []domain.PasswordPattern{{Kind: "date", Match: "12/05/1990"}}, r.Patterns)
}

func TestPasswordAnalyzer_LongInput(t *testing.T) {
	a := analysis.NewPasswordAnalyzer(analysis.PasswordOptions{})

	for _, pw := range []string{
		strings.Repeat("Zx9!", 256),
		strings.Repeat("qwertyuiop", 102) + "1234",
		strings.Repeat("a", 1024),
	} {
		start := time.Now()
		r := a.Analyze(pw)
		require.Less(t, time.Since(start), 2*time.Second)
		require.Equal(t, 1024, r.Length)
	}

	r := a.Analyze("1qaz2wsx3edc")
	require.Contains(t, r.Patterns, domain.PasswordPattern{Kind: "keyboard", Match: "1qaz2wsx3edc"})
}

func TestPasswordAnalyzer_StrongPasswords(t *testing.T) {
	a := analysis.NewPasswordAnalyzer(analysis.PasswordOptions{MinLength: 12})

	r := a.Analyze("Xk9#mQ2$vL7!pR4@")
	require.Equal(t, domain.ScoreVeryStrong, r.Score)
	require.True(t, r.MeetsPolicy)
	require.InDelta(t, 16*6.57, r.Entropy, 0.1)
	require.Greater(t, r.ShannonEntropy, 3.9)
	require.Empty(t, r.Feedback)
	require.Greater(t, r.CrackTimeOffline, 365*24*time.Hour)

	r = a.Analyze("correct horse battery staple")
	require.GreaterOrEqual(t, r.Score, domain.ScoreStrong)
	require.Contains(t, kinds(r), "dictionary")
	require.False(t, r.MeetsPolicy, "only lowercase and spaces")
}

func TestPasswordAnalyzer_ShortPasswordCapped(t *testing.T) {
	a := analysis.NewPasswordAnalyzer(analysis.PasswordOptions{MinLength: 20})

	r := a.Analyze("Xk9#mQ2$vL7!")
	require.LessOrEqual(t, r.Score, domain.ScoreWeak)
	require.Contains(t, r.Feedback, "Use at least 20 characters")
}

func TestGenerate(t *testing.T) {
	pw, err := analysis.Generate(24, true)
	require.NoError(t, err)
	require.Len(t, pw, 24)
	require.True(t, strings.IndexFunc(pw, unicode.IsUpper) >= 0)
	require.True(t, strings.IndexFunc(pw, unicode.IsLower) >= 0)
	require.True(t, strings.IndexFunc(pw, unicode.IsDigit) >= 0)
	require.True(t, strings.ContainsAny(pw, "!@#$%^&*()-_=+[]{};:,.<>/?~"))

	pw, err = analysis.Generate(8, false)
	require.NoError(t, err)
	require.Len(t, pw, 8)
	require.False(t, strings.ContainsAny(pw, "!@#$%^&*()-_=+[]{};:,.<>/?~"))

	other, err := analysis.Generate(8, false)
	require.NoError(t, err)
	require.NotEqual(t, pw, other)

	_, err = analysis.Generate(7, true)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestShannonEntropy(t *testing.T) {
	require.Zero(t, analysis.ShannonEntropy(""))
	require.Zero(t, analysis.ShannonEntropy("aaaa"))
	require.InDelta(t, 1.0, analysis.ShannonEntropy("abab"), 1e-9)
	require.InDelta(t, 2.0, analysis.ShannonEntropy("abcd"), 1e-9)
}
