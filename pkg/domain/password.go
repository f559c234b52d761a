package domain

import "time"

// PasswordScore ranks password strength on a 0 to 4 scale.
type PasswordScore int

const (
	ScoreVeryWeak PasswordScore = iota
	ScoreWeak
	ScoreFair
	ScoreStrong
	ScoreVeryStrong
)

var scoreLabels = [...]string{"very weak", "weak", "fair", "strong", "very strong"} //nolint: gochecknoglobals

// String returns a human readable label for the score.
func (s PasswordScore) String() string {
	if s < ScoreVeryWeak || s > ScoreVeryStrong {
		return "unknown"
	}

	return scoreLabels[s]
}

// PasswordPattern is a weakness detected inside a password.
type PasswordPattern struct {
	// Kind is one of common, dictionary, sequence, keyboard, repeat, date.
	Kind string `json:"kind"`
	// Match is the matched substring. It is empty for common passwords so
	// reports never echo the full secret.
	Match string `json:"match,omitempty"`
}

// PasswordReport is the outcome of analyzing a single password.
type PasswordReport struct {
	Length         int               `json:"length"`
	HasLower       bool              `json:"hasLower"`
	HasUpper       bool              `json:"hasUpper"`
	HasDigit       bool              `json:"hasDigit"`
	HasSymbol      bool              `json:"hasSymbol"`
	HasUnicode     bool              `json:"hasUnicode"`
	PoolSize       int               `json:"poolSize"`
	Entropy        float64           `json:"entropy"`
	ShannonEntropy float64           `json:"shannonEntropy"`
	Score          PasswordScore     `json:"score"`
	Patterns       []PasswordPattern `json:"patterns,omitempty"`
	Feedback       []string          `json:"feedback,omitempty"`
	// CrackTimeOnline assumes a throttled online attack.
	CrackTimeOnline time.Duration `json:"crackTimeOnline"`
	// CrackTimeOffline assumes an offline attack against a fast hash.
	CrackTimeOffline time.Duration `json:"crackTimeOffline"`
	// MeetsPolicy reports whether the minimum length and class requirements hold.
	MeetsPolicy bool `json:"meetsPolicy"`
}
