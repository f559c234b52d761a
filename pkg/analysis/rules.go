package analysis

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"regexp"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/serrors"

	"gopkg.in/yaml.v3"
)

//go:embed data/rules.yaml
var defaultRulesYAML []byte

// Rule fields.
const (
	FieldPath      = "path"
	FieldUserAgent = "user_agent"
	FieldMessage   = "message"
	FieldAny       = "any"
)

// Rule is a signature matched against parsed log entries.
type Rule struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Severity    string `yaml:"severity"`
	// Field is one of path, user_agent, message or any; empty means any.
	Field   string `yaml:"field"`
	Pattern string `yaml:"pattern"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

type compiledRule struct {
	Rule
	severity domain.Severity
	re       *regexp.Regexp
}

// DefaultRules returns the embedded rule set.
func DefaultRules() []Rule {
	rules, err := parseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules are invalid: %v", err))
	}

	return rules
}

// LoadRules reads a YAML rule file with a top level rules list.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, serrors.Wrap(serrors.ErrNotFound, err, "rule file %s not found", path)
	}

	if err != nil {
		return nil, fmt.Errorf("could not read rule file: %w", err)
	}

	return parseRules(data)
}

func parseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid rule file")
	}

	return f.Rules, nil
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if r.ID == "" || r.Pattern == "" {
			return nil, serrors.With(serrors.ErrBadRequest, "rule %q needs an id and a pattern", r.ID)
		}

		sev, ok := domain.ParseSeverity(r.Severity)
		if !ok {
			return nil, serrors.With(serrors.ErrBadRequest, "rule %s has unknown severity %q", r.ID, r.Severity)
		}

		switch r.Field {
		case "", FieldAny, FieldPath, FieldUserAgent, FieldMessage:
		default:
			return nil, serrors.With(serrors.ErrBadRequest, "rule %s has unknown field %q", r.ID, r.Field)
		}

		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "rule %s has an invalid pattern", r.ID)
		}

		out = append(out, compiledRule{Rule: r, severity: sev, re: re})
	}

	return out, nil
}

// match returns the matched text of e, or "" when the rule does not apply.
func (r *compiledRule) match(e *domain.LogEntry) string {
	var subject string
	switch r.Field {
	case FieldPath:
		subject = e.Path
		if decoded, err := url.QueryUnescape(e.Path); err == nil && decoded != e.Path {
			if m := r.re.FindString(decoded); m != "" {
				return m
			}
		}
	case FieldUserAgent:
		subject = e.UserAgent
	case FieldMessage:
		subject = e.Message
	default:
		subject = e.Raw
	}

	if subject == "" {
		return ""
	}

	return r.re.FindString(subject)
}
