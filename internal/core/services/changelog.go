package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
	"github.com/gooosetavo/dod-prohibited/internal/logger"
)

// Fixed section headers of the changelog document. The parser keys on
// these labels; anything else resets the current section so stray
// bullets are dropped rather than misfiled.
const (
	headerAdded   = "New Substances Added"
	headerUpdated = "Substances Modified"
	headerRemoved = "Substances Removed"
)

// defaultChangelogHeader opens a changelog created from scratch.
const defaultChangelogHeader = "# Changelog\n\n" +
	"All notable changes to the DoD prohibited substances list will be documented in this file.\n"

// ParsedChangelog is the set of (date, type, name) triples already
// recorded in the changelog document. It is the idempotence guard:
// a triple present here must never be written again.
type ParsedChangelog struct {
	byDate map[string]map[domain.ChangeType]map[string]struct{}
}

// NewParsedChangelog returns an empty parse result.
func NewParsedChangelog() *ParsedChangelog {
	return &ParsedChangelog{byDate: make(map[string]map[domain.ChangeType]map[string]struct{})}
}

func (p *ParsedChangelog) add(date string, t domain.ChangeType, name string) {
	types, ok := p.byDate[date]
	if !ok {
		types = make(map[domain.ChangeType]map[string]struct{})
		p.byDate[date] = types
	}
	names, ok := types[t]
	if !ok {
		names = make(map[string]struct{})
		types[t] = names
	}
	names[name] = struct{}{}
}

// Has reports whether the triple is already recorded.
func (p *ParsedChangelog) Has(date string, t domain.ChangeType, name string) bool {
	types, ok := p.byDate[date]
	if !ok {
		return false
	}
	_, ok = types[t][name]
	return ok
}

// Names returns the recorded names for a date and type, sorted.
func (p *ParsedChangelog) Names(date string, t domain.ChangeType) []string {
	names := make([]string, 0, len(p.byDate[date][t]))
	for name := range p.byDate[date][t] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dates returns all dates with at least one recorded entry, sorted
// descending.
func (p *ParsedChangelog) Dates() []string {
	dates := make([]string, 0, len(p.byDate))
	for date := range p.byDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// Total returns the number of recorded triples.
func (p *ParsedChangelog) Total() int {
	n := 0
	for _, types := range p.byDate {
		for _, names := range types {
			n += len(names)
		}
	}
	return n
}

// ParseChangelog reconstructs the recorded (date, type, name) triples
// from the document text. Parsing is tolerant: unrecognised lines are
// skipped, a malformed date header suspends collection until the next
// valid one, and an unknown section label drops subsequent bullets
// instead of misfiling them.
func ParseChangelog(text string) *ParsedChangelog {
	parsed := NewParsedChangelog()

	currentDate := ""
	currentSection := domain.ChangeType("")

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "### "):
			switch {
			case strings.Contains(line, headerAdded):
				currentSection = domain.ChangeAdded
			case strings.Contains(line, headerUpdated):
				currentSection = domain.ChangeUpdated
			case strings.Contains(line, headerRemoved):
				currentSection = domain.ChangeRemoved
			default:
				currentSection = ""
			}

		case strings.HasPrefix(line, "## "):
			date := strings.TrimSpace(line[3:])
			if _, err := time.Parse("2006-01-02", date); err == nil {
				currentDate = date
			} else {
				currentDate = ""
			}

		case strings.HasPrefix(line, "- **") && currentDate != "" && currentSection != "":
			if name, ok := bulletName(line); ok {
				parsed.add(currentDate, currentSection, name)
			}
		}
	}

	logger.Debug("Parsed %d existing changelog entries across %d dates",
		parsed.Total(), len(parsed.byDate))
	return parsed
}

// bulletName extracts the name from the first bold span of a bullet
// line, stripping trailing separator punctuation.
func bulletName(line string) (string, bool) {
	rest := strings.TrimPrefix(line, "- **")
	end := strings.Index(rest, "**")
	if end <= 0 {
		return "", false
	}
	name := strings.TrimSpace(rest[:end])
	name = strings.TrimSpace(strings.TrimRight(name, ":"))
	if name == "" {
		return "", false
	}
	return name, true
}

// MergeResult is the outcome of reconciling new changes with the
// existing document.
type MergeResult struct {
	// Document is the full regenerated text. Equal to the input when
	// Changed is false.
	Document string

	// Applied holds the changes that survived the idempotence filter
	// and were merged in.
	Applied []domain.Change

	// Changed reports whether the document content differs from the
	// input and must be written back.
	Changed bool
}

// MergeChangelog reconciles newly detected changes with the existing
// changelog document and regenerates it in full.
//
// Changes already recorded as a (date, type, name) triple are
// dropped, then empty date buckets are dropped. If nothing remains
// the document is returned untouched. Otherwise every date, newly
// changed or not, is rendered in strict descending order: merged
// buckets for dates with new changes, the original text verbatim for
// the rest. Rewriting the whole document from the structured model
// avoids the splice bugs of in-place patching.
func MergeChangelog(buckets map[string]*domain.DateBucket, existing *ParsedChangelog, text string) MergeResult {
	kept := make(map[string]*domain.DateBucket)
	var applied []domain.Change

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	for _, date := range dates {
		bucket := buckets[date]
		filtered := &domain.DateBucket{}
		for _, c := range append(append(append([]domain.Change{}, bucket.Added...), bucket.Updated...), bucket.Removed...) {
			if existing.Has(date, c.Type, c.Name) {
				logger.Debug("Skipping duplicate %s entry for %s on %s", c.Type, c.Name, date)
				continue
			}
			filtered.Add(c)
			applied = append(applied, c)
		}
		if filtered.HasChanges() {
			kept[date] = filtered
		}
	}

	if len(kept) == 0 {
		logger.Info("No new changelog entries needed - all changes already recorded")
		return MergeResult{Document: text}
	}

	doc := splitChangelog(text)

	allDates := make(map[string]struct{}, len(doc.order)+len(kept))
	for _, date := range doc.order {
		allDates[date] = struct{}{}
	}
	for date := range kept {
		allDates[date] = struct{}{}
	}
	sorted := make([]string, 0, len(allDates))
	for date := range allDates {
		sorted = append(sorted, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	var lines []string
	lines = append(lines, doc.header...)

	for _, date := range sorted {
		var content []string
		if bucket, ok := kept[date]; ok {
			logger.Info("Adding changelog entries for %s", date)
			content = renderDateBucket(date, mergeWithRecorded(date, existing, bucket))
		} else {
			content = doc.sections[date]
		}
		if len(content) == 0 {
			continue
		}
		lines = append(lines, "## "+date, "")
		lines = append(lines, content...)
		lines = append(lines, "")
	}

	document := strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
	return MergeResult{
		Document: document,
		Applied:  applied,
		Changed:  document != text,
	}
}

// mergeWithRecorded combines the already-recorded names for a date
// (as placeholder entries carrying no detail) with the newly kept
// changes, which keep their full detail.
func mergeWithRecorded(date string, existing *ParsedChangelog, bucket *domain.DateBucket) *domain.DateBucket {
	merged := &domain.DateBucket{}
	for _, t := range []domain.ChangeType{domain.ChangeAdded, domain.ChangeUpdated, domain.ChangeRemoved} {
		for _, name := range existing.Names(date, t) {
			merged.Add(domain.Change{Name: name, Type: t})
		}
	}
	merged.Added = append(merged.Added, bucket.Added...)
	merged.Updated = append(merged.Updated, bucket.Updated...)
	merged.Removed = append(merged.Removed, bucket.Removed...)
	return merged
}

// renderDateBucket renders the subsections of one date, bullets
// wrapped in a collapsible details admonition.
func renderDateBucket(date string, bucket *domain.DateBucket) []string {
	var lines []string

	if len(bucket.Added) > 0 {
		lines = append(lines,
			"### "+headerAdded,
			"",
			fmt.Sprintf("    %d new %s", len(bucket.Added), plural(len(bucket.Added), "substance", "substances")),
			"",
			`???+ info "Show details"`,
			"")
		for _, c := range bucket.Added {
			entry := "    - **" + c.Name + "**"
			if c.SourceDate != "" && c.SourceDate != date {
				entry += " (source date: " + c.SourceDate + ")"
			}
			lines = append(lines, entry)
		}
		lines = append(lines, "")
	}

	if len(bucket.Updated) > 0 {
		lines = append(lines,
			"### "+headerUpdated,
			"",
			fmt.Sprintf("*%d %s modified, detected through data comparison*",
				len(bucket.Updated), plural(len(bucket.Updated), "substance", "substances")),
			"",
			`???+ info "Show details"`,
			"")
		for _, c := range bucket.Updated {
			entry := "    - **" + c.Name + ":** Updated"
			if len(c.Fields) > 0 {
				quoted := make([]string, len(c.Fields))
				for i, f := range c.Fields {
					quoted[i] = "`" + f + "`"
				}
				entry += " " + strings.Join(quoted, ", ")
			}
			lines = append(lines, entry)
		}
		lines = append(lines, "")
	}

	if len(bucket.Removed) > 0 {
		lines = append(lines,
			"### "+headerRemoved,
			"",
			fmt.Sprintf("*%d %s, detected through data comparison*",
				len(bucket.Removed), plural(len(bucket.Removed), "substance removal", "substance removals")),
			"",
			`???+ info "Show details"`,
			"")
		for _, c := range bucket.Removed {
			lines = append(lines, "    - **"+c.Name+"**")
		}
		lines = append(lines, "")
	}

	return trimBlankEdges(lines)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// changelogDoc is the structural split of an existing document:
// header lines, then raw content per date section in document order.
type changelogDoc struct {
	header   []string
	order    []string
	sections map[string][]string
}

// splitChangelog separates the document into its header and date
// sections. The raw lines of each section are preserved so dates
// without new changes round-trip byte-for-byte. An empty document
// yields the default header.
func splitChangelog(text string) changelogDoc {
	doc := changelogDoc{sections: make(map[string][]string)}

	if strings.TrimSpace(text) == "" {
		doc.header = append(strings.Split(strings.TrimRight(defaultChangelogHeader, "\n"), "\n"), "")
		return doc
	}

	lines := strings.Split(text, "\n")
	current := ""

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "## ") && !strings.HasPrefix(line, "###") {
			current = strings.TrimSpace(line[3:])
			if _, seen := doc.sections[current]; !seen {
				doc.order = append(doc.order, current)
				doc.sections[current] = nil
			}
			continue
		}
		if current == "" {
			doc.header = append(doc.header, raw)
		} else {
			doc.sections[current] = append(doc.sections[current], raw)
		}
	}

	doc.header = trimBlankEdges(doc.header)
	doc.header = append(doc.header, "")
	for date, content := range doc.sections {
		doc.sections[date] = trimBlankEdges(content)
	}
	return doc
}

// trimBlankEdges removes leading and trailing blank lines.
func trimBlankEdges(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
