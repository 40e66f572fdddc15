package archiver

import (
	"strings"

	"github.com/rs/zerolog"
)

// maxInlineExcludes is the largest exclusion set passed as separate switches.
const maxInlineExcludes = 8

// argBuilder accumulates switches and logs each one as it is added.
type argBuilder struct {
	args  []string
	log   *zerolog.Logger
	level zerolog.Level
}

func newArgBuilder(log *zerolog.Logger, verbose bool) *argBuilder {
	level := zerolog.DebugLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	return &argBuilder{log: log, level: level}
}

// add appends tokens, skipping empty ones, and logs them with desc.
func (b *argBuilder) add(desc string, tokens ...string) {
	b.addShown(desc, strings.Join(tokens, " "), tokens...)
}

// addShown is add with a separate log rendering, used to mask passwords.
func (b *argBuilder) addShown(desc, shown string, tokens ...string) {
	n := len(b.args)
	for _, t := range tokens {
		if t != "" {
			b.args = append(b.args, t)
		}
	}
	if len(b.args) > n {
		b.log.WithLevel(b.level).Str("arg", shown).Msg(desc)
	}
}

func (b *argBuilder) result() []string {
	return b.args
}

// needsExcludeList reports whether patterns must go through a list file.
func needsExcludeList(patterns []string) bool {
	if len(patterns) > maxInlineExcludes {
		return true
	}
	for _, p := range patterns {
		if strings.ContainsAny(p, "\r\n\"") || strings.HasPrefix(p, "@") || strings.HasPrefix(p, "-") {
			return true
		}
	}
	return false
}

// isInlineSource reports whether sources can be passed as a single token.
func isInlineSource(sources []string) bool {
	if len(sources) != 1 {
		return false
	}
	s := sources[0]
	return !strings.ContainsAny(s, "*?") && !strings.HasPrefix(s, "@") && !strings.HasPrefix(s, "-")
}

func cleanPatterns(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// compressPlan is a validated compress request with absolute paths.
type compressPlan struct {
	dest     string
	sources  []string
	password string
	workDir  string
	verbose  bool
}
