package oracle

import (
	"context"
	"strings"

	"github.com/northbridge-support/triage/internal/engine"
)

// SkillExtractor derives critical/important/nice-to-have skill buckets
// from a ticket's text and category. Spec §1's Non-goals exclude
// "LLM-based skill extraction beyond a declared interface" — this is
// that declared interface; DefaultExtractor is a keyword-based
// implementation good enough to drive the engine end-to-end without a
// model dependency. Production deployments may supply an
// LLM/service-backed implementation instead.
type SkillExtractor interface {
	Extract(ctx context.Context, text, category string) (engine.SkillRequirements, error)
}

// categoryKeywords maps a ticket category to its presumed critical skill
// set; everything else falls back to scanning the free text.
var categoryKeywords = map[string][]string{
	"network":  {"networking", "vpn", "firewall"},
	"database": {"sql", "database", "backup"},
	"security": {"security", "iam", "encryption"},
	"storage":  {"storage", "s3", "backup"},
	"compute":  {"aws", "compute", "kubernetes"},
}

// textKeywords are important/nice-to-have skills inferred from free text
// regardless of category.
var textKeywords = []string{
	"aws", "azure", "gcp", "kubernetes", "docker", "networking", "vpn",
	"firewall", "sql", "database", "s3", "storage", "security", "iam",
	"encryption", "compute", "monitoring", "troubleshooting", "documentation",
	"backup", "dns",
}

// DefaultExtractor is a keyword-matching SkillExtractor: no external
// calls, deterministic, good for local development and tests.
type DefaultExtractor struct{}

func (DefaultExtractor) Extract(ctx context.Context, text, category string) (engine.SkillRequirements, error) {
	lowerText := strings.ToLower(text)
	lowerCategory := strings.ToLower(strings.TrimSpace(category))

	var req engine.SkillRequirements
	if critical, ok := categoryKeywords[lowerCategory]; ok {
		req.Critical = critical
	}

	seen := make(map[string]struct{}, len(req.Critical))
	for _, c := range req.Critical {
		seen[c] = struct{}{}
	}

	for _, kw := range textKeywords {
		if _, already := seen[kw]; already {
			continue
		}
		if strings.Contains(lowerText, kw) {
			if len(req.Important) < 3 {
				req.Important = append(req.Important, kw)
			} else {
				req.NiceToHave = append(req.NiceToHave, kw)
			}
		}
	}
	return req, nil
}
