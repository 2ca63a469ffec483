package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// filePolicy is the on-disk shape of a policy definition file.
type filePolicy struct {
	Version string `yaml:"version"`

	PathRules []struct {
		ID      string `yaml:"id"`
		Pattern string `yaml:"pattern"`
		Grade   string `yaml:"grade"`
	} `yaml:"path_rules"`

	KeywordRules []struct {
		ID       string   `yaml:"id"`
		Keywords []string `yaml:"keywords"`
		Grade    string   `yaml:"grade"`
	} `yaml:"keyword_rules"`

	SourceTiers []struct {
		Name     string   `yaml:"name"`
		Weight   float64  `yaml:"weight"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"source_tiers"`

	UnknownSourceWeight *float64 `yaml:"unknown_source_weight"`
}

// LoadOptions tune definition loading.
type LoadOptions struct {
	// DefaultGrade applies when no rule matches a classification input.
	// Defaults to L2 (conservative).
	DefaultGrade RiskGrade
}

// LoadPolicies parses every *.yaml/*.yml file in dir into a single
// immutable Definition. A structurally invalid set fails with a LoadError
// and nothing is applied.
func LoadPolicies(dir string, opts LoadOptions) (*Definition, error) {
	if opts.DefaultGrade == "" {
		opts.DefaultGrade = GradeL2
	}
	if !opts.DefaultGrade.Valid() {
		return nil, NewLoadError(dir, []string{
			fmt.Sprintf("default grade %q is not one of L1, L2, L3", opts.DefaultGrade),
		})
	}

	files, contents, err := readPolicyFiles(dir)
	if err != nil {
		return nil, NewLoadIOError(dir, err)
	}
	if len(files) == 0 {
		return nil, NewLoadError(dir, []string{"no policy definition files found"})
	}

	var problems []string
	def := &Definition{
		DefaultGrade:        opts.DefaultGrade,
		UnknownSourceWeight: 0.2,
	}

	checksum := sha256.New()
	for i, file := range files {
		checksum.Write([]byte(filepath.Base(file)))
		checksum.Write(contents[i])

		var fp filePolicy
		dec := yaml.NewDecoder(strings.NewReader(string(contents[i])))
		dec.KnownFields(true)
		if err := dec.Decode(&fp); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", filepath.Base(file), err))
			continue
		}

		mergeFile(def, &fp, filepath.Base(file), &problems)
	}

	problems = append(problems, validateDefinition(def)...)
	if len(problems) > 0 {
		return nil, NewLoadError(dir, problems)
	}

	if def.Version == "" {
		def.Version = "unversioned"
	}
	def.Checksum = hex.EncodeToString(checksum.Sum(nil))

	// Most specific pattern wins: order path rules longest-first.
	sort.SliceStable(def.PathRules, func(i, j int) bool {
		return len(def.PathRules[i].Pattern) > len(def.PathRules[j].Pattern)
	})
	sort.SliceStable(def.SourceTiers, func(i, j int) bool {
		return def.SourceTiers[i].Weight > def.SourceTiers[j].Weight
	})

	return def, nil
}

// ValidateDefinitions performs a pure validation pass over dir. It never
// mutates state and is safe to run in a pre-deploy check.
func ValidateDefinitions(dir string, opts LoadOptions) *ValidationResult {
	_, err := LoadPolicies(dir, opts)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	if le, ok := err.(*LoadError); ok {
		errs := le.Problems
		if len(errs) == 0 {
			errs = []string{le.Error()}
		}
		return &ValidationResult{Valid: false, Errors: errs}
	}
	return &ValidationResult{Valid: false, Errors: []string{err.Error()}}
}

func readPolicyFiles(dir string) (files []string, contents [][]byte, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read policy directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		contents = append(contents, data)
	}
	return files, contents, nil
}

func mergeFile(def *Definition, fp *filePolicy, name string, problems *[]string) {
	if fp.Version != "" {
		if def.Version != "" && def.Version != fp.Version {
			*problems = append(*problems,
				fmt.Sprintf("%s: conflicting version %q (already %q)", name, fp.Version, def.Version))
		} else {
			def.Version = fp.Version
		}
	}

	for i, r := range fp.PathRules {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("%s/path[%d]", name, i)
		}
		def.PathRules = append(def.PathRules, PathRule{
			ID:      id,
			Pattern: r.Pattern,
			Grade:   RiskGrade(r.Grade),
		})
	}

	for i, r := range fp.KeywordRules {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("%s/keyword[%d]", name, i)
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			keywords = append(keywords, strings.ToLower(strings.TrimSpace(kw)))
		}
		def.KeywordRules = append(def.KeywordRules, KeywordRule{
			ID:       id,
			Keywords: keywords,
			Grade:    RiskGrade(r.Grade),
		})
	}

	for _, t := range fp.SourceTiers {
		patterns := make([]string, 0, len(t.Patterns))
		for _, p := range t.Patterns {
			patterns = append(patterns, strings.ToLower(strings.TrimSpace(p)))
		}
		def.SourceTiers = append(def.SourceTiers, SourceTier{
			Name:     t.Name,
			Weight:   t.Weight,
			Patterns: patterns,
		})
	}

	if fp.UnknownSourceWeight != nil {
		def.UnknownSourceWeight = *fp.UnknownSourceWeight
	}
}

func validateDefinition(def *Definition) []string {
	var problems []string

	for _, r := range def.PathRules {
		if r.Pattern == "" {
			problems = append(problems, fmt.Sprintf("path rule %s: empty pattern", r.ID))
		} else if !doublestar.ValidatePattern(r.Pattern) {
			problems = append(problems, fmt.Sprintf("path rule %s: invalid pattern %q", r.ID, r.Pattern))
		}
		if !r.Grade.Valid() {
			problems = append(problems, fmt.Sprintf("path rule %s: invalid grade %q", r.ID, r.Grade))
		}
	}

	for _, r := range def.KeywordRules {
		if len(r.Keywords) == 0 {
			problems = append(problems, fmt.Sprintf("keyword rule %s: no keywords", r.ID))
		}
		for _, kw := range r.Keywords {
			if kw == "" {
				problems = append(problems, fmt.Sprintf("keyword rule %s: empty keyword", r.ID))
			}
		}
		if !r.Grade.Valid() {
			problems = append(problems, fmt.Sprintf("keyword rule %s: invalid grade %q", r.ID, r.Grade))
		}
	}

	for _, t := range def.SourceTiers {
		if t.Name == "" {
			problems = append(problems, "source tier with empty name")
		}
		if t.Weight < 0 || t.Weight > 1 {
			problems = append(problems, fmt.Sprintf("source tier %s: weight %v outside [0, 1]", t.Name, t.Weight))
		}
		if len(t.Patterns) == 0 {
			problems = append(problems, fmt.Sprintf("source tier %s: no patterns", t.Name))
		}
	}

	if def.UnknownSourceWeight < 0 || def.UnknownSourceWeight > 1 {
		problems = append(problems, fmt.Sprintf("unknown_source_weight %v outside [0, 1]", def.UnknownSourceWeight))
	}

	return problems
}
