// Package extractor implements domain.ContractAnalyzer with tolerant,
// line-oriented extraction of interface, type-alias, and class
// declarations. It deliberately avoids a strict parser: lines that do not
// match the expected member shapes are skipped, never errors.
package extractor

import (
	"os"
	"regexp"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/contractor-dev/contractor/internal/domain"
)

var (
	interfaceRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?interface\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	typeAliasRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:declare\s+)?type\s+([A-Za-z_$][A-Za-z0-9_$]*)(?:<[^=>]*>)?\s*=`)
	classRe     = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

	identRe = regexp.MustCompile(`^[A-Za-z_$#][A-Za-z0-9_$]*$`)
)

const cacheSize = 256

type cacheEntry struct {
	modTime   time.Time
	size      int64
	contracts []domain.Contract
}

// Extractor analyzes source files, memoizing results per path so watch
// mode does not re-extract unchanged files.
type Extractor struct {
	cache *lru.Cache[string, cacheEntry]
}

// New creates an Extractor with a bounded memoization cache.
func New() *Extractor {
	cache, _ := lru.New[string, cacheEntry](cacheSize)
	return &Extractor{cache: cache}
}

// AnalyzeFile reads and extracts one source file. The returned contracts
// carry the given path as their source location.
func (e *Extractor) AnalyzeFile(path string) ([]domain.Contract, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if entry, ok := e.cache.Get(path); ok {
		if entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
			return entry.contracts, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	contracts := Extract(string(data), path)
	e.cache.Add(path, cacheEntry{modTime: info.ModTime(), size: info.Size(), contracts: contracts})
	return contracts, nil
}

// Extract scans file content line by line for declaration triggers and
// reconstructs a contract model for each. It never fails: malformed
// declarations yield contracts with empty member lists.
func Extract(content, path string) []domain.Contract {
	lines := strings.Split(content, "\n")
	var contracts []domain.Contract

	for i, line := range lines {
		name, kind := matchTrigger(line)
		if name == "" {
			continue
		}

		contract := domain.Contract{
			Name:       name,
			Kind:       kind,
			SourceFile: path,
			Line:       i + 1,
		}
		resolveMetadata(&contract, lines, i)

		body, bodyStart := extractBody(lines, i)
		parseMembers(&contract, body, bodyStart)

		contracts = append(contracts, contract)
	}
	return contracts
}

func matchTrigger(line string) (name, kind string) {
	if m := interfaceRe.FindStringSubmatch(line); m != nil {
		return m[1], domain.KindInterface
	}
	if m := typeAliasRe.FindStringSubmatch(line); m != nil {
		return m[1], domain.KindTypeAlias
	}
	if m := classRe.FindStringSubmatch(line); m != nil {
		return m[1], domain.KindClass
	}
	return "", ""
}

// extractBody collects the lines of the declaration body by tracking brace
// depth from the trigger line forward. A trigger with no opening brace
// before end of file, before a statement terminator, or before the next
// trigger, yields an empty body.
func extractBody(lines []string, triggerIdx int) (body []string, bodyStart int) {
	depth := 0
	seenOpen := false

	for j := triggerIdx; j < len(lines); j++ {
		line := lines[j]

		if !seenOpen {
			if j > triggerIdx {
				// A new trigger or a closed statement means the original
				// declaration never opened a body.
				if n, _ := matchTrigger(line); n != "" {
					return nil, 0
				}
			}
			if !strings.Contains(line, "{") {
				if strings.Contains(line, ";") {
					return nil, 0
				}
				continue
			}
			seenOpen = true
			bodyStart = j
		}

		for _, r := range line {
			switch r {
			case '{':
				depth++
			case '}':
				depth--
			}
		}

		if j > bodyStart {
			body = append(body, line)
		} else if idx := strings.Index(line, "{"); idx >= 0 && idx+1 < len(line) {
			// Content after the opening brace on the trigger line.
			body = append(body, line[idx+1:])
		} else {
			body = append(body, "")
		}

		if depth <= 0 {
			return body, bodyStart
		}
	}
	return body, bodyStart
}

// parseMembers classifies each top-level body line as a property, a
// method, or a comment feeding the next member's documentation. Anything
// else is skipped.
func parseMembers(contract *domain.Contract, body []string, bodyStart int) {
	depth := 1
	var pendingDoc []string

	props := make(map[string]int)
	methods := make(map[string]int)

	for _, raw := range body {
		lineDepth := depth
		for _, r := range raw {
			switch r {
			case '{':
				depth++
			case '}':
				depth--
			}
		}

		if lineDepth != 1 {
			continue
		}

		line := strings.TrimSpace(raw)
		switch {
		case line == "" || line == "}" || line == "};":
			pendingDoc = nil
			continue
		case isCommentLine(line):
			pendingDoc = append(pendingDoc, line)
			continue
		}

		doc := joinDoc(pendingDoc)
		pendingDoc = nil

		if strings.Contains(line, "(") && strings.Contains(line, ")") {
			if m, ok := parseMethod(line, doc, contract.Version); ok {
				// Duplicate names shadow: last write wins.
				if idx, dup := methods[m.Name]; dup {
					contract.Methods[idx] = m
				} else {
					methods[m.Name] = len(contract.Methods)
					contract.Methods = append(contract.Methods, m)
				}
			}
			continue
		}

		if strings.Contains(line, ":") {
			if p, ok := parseProperty(line, doc, contract.Version); ok {
				if idx, dup := props[p.Name]; dup {
					contract.Properties[idx] = p
				} else {
					props[p.Name] = len(contract.Properties)
					contract.Properties = append(contract.Properties, p)
				}
			}
		}
	}
}

var memberModifiers = map[string]bool{
	"public":    true,
	"protected": true,
	"static":    true,
	"readonly":  true,
	"abstract":  true,
	"async":     true,
	"override":  true,
	"get":       true,
	"set":       true,
}

func parseProperty(line, doc, contractVersion string) (domain.PropertyModel, bool) {
	namePart, typePart, ok := strings.Cut(line, ":")
	if !ok {
		return domain.PropertyModel{}, false
	}

	tokens := strings.Fields(strings.TrimSpace(namePart))
	if len(tokens) == 0 {
		return domain.PropertyModel{}, false
	}

	prop := domain.PropertyModel{Version: contractVersion}
	for _, tok := range tokens[:len(tokens)-1] {
		if tok == "private" {
			return domain.PropertyModel{}, false
		}
		if tok == "readonly" {
			prop.IsReadonly = true
			continue
		}
		if !memberModifiers[tok] {
			return domain.PropertyModel{}, false
		}
	}

	name := tokens[len(tokens)-1]
	if strings.HasSuffix(name, "?") {
		prop.IsOptional = true
		name = strings.TrimSuffix(name, "?")
	}
	if !identRe.MatchString(name) {
		return domain.PropertyModel{}, false
	}

	prop.Name = name
	prop.Type = cleanType(typePart)
	if prop.Type == "" {
		return domain.PropertyModel{}, false
	}
	applyMemberDoc(doc, &prop.Documentation, &prop.Version, &prop.Deprecated)
	prop.Constraints = parseConstraints(doc)
	return prop, true
}

func parseMethod(line, doc, contractVersion string) (domain.MethodModel, bool) {
	open := strings.Index(line, "(")
	if open <= 0 {
		return domain.MethodModel{}, false
	}

	closeIdx := matchingParen(line, open)
	if closeIdx < 0 {
		return domain.MethodModel{}, false
	}

	tokens := strings.Fields(line[:open])
	if len(tokens) == 0 {
		return domain.MethodModel{}, false
	}

	method := domain.MethodModel{Version: contractVersion, ReturnType: "void"}
	for _, tok := range tokens[:len(tokens)-1] {
		if tok == "private" {
			return domain.MethodModel{}, false
		}
		if tok == "async" {
			method.IsAsync = true
			continue
		}
		if !memberModifiers[tok] {
			return domain.MethodModel{}, false
		}
	}

	name := tokens[len(tokens)-1]
	if strings.HasSuffix(name, "?") {
		method.IsOptional = true
		name = strings.TrimSuffix(name, "?")
	}
	if !identRe.MatchString(name) {
		return domain.MethodModel{}, false
	}
	method.Name = name

	method.Parameters = parseParameters(line[open+1 : closeIdx])

	rest := strings.TrimSpace(line[closeIdx+1:])
	if strings.HasPrefix(rest, ":") {
		method.ReturnType = cleanType(rest[1:])
	}
	if strings.HasPrefix(method.ReturnType, "Promise<") {
		method.IsAsync = true
	}

	applyMemberDoc(doc, &method.Documentation, &method.Version, &method.Deprecated)
	method.SideEffects = parseSideEffects(doc)
	return method, true
}

// parseParameters splits the parenthesized parameter list on top-level
// commas and parses each as name[?][: type][= default]. Malformed entries
// are skipped.
func parseParameters(paramText string) []domain.ParameterModel {
	var params []domain.ParameterModel
	for _, part := range splitTopLevel(paramText, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		param := domain.ParameterModel{Type: "any"}
		if namePart, defaultPart, ok := strings.Cut(part, "="); ok {
			param.DefaultValue = strings.TrimSpace(defaultPart)
			param.IsOptional = true
			part = strings.TrimSpace(namePart)
		}
		if namePart, typePart, ok := strings.Cut(part, ":"); ok {
			param.Type = cleanType(typePart)
			part = strings.TrimSpace(namePart)
		}
		if strings.HasSuffix(part, "?") {
			param.IsOptional = true
			part = strings.TrimSuffix(part, "?")
		}
		part = strings.TrimPrefix(part, "...")
		if !identRe.MatchString(part) {
			continue
		}
		param.Name = part
		params = append(params, param)
	}
	return params
}

// splitTopLevel splits on sep, ignoring separators nested inside
// (), [], {}, or <>.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func matchingParen(line string, open int) int {
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// cleanType trims a raw type expression down to its declaration text,
// cutting at the first terminator outside any <>, (), [], or {} nesting.
// An unmatched closing brace terminates too, so single-line bodies like
// `{ x: number }` do not leak the brace into the type.
func cleanType(t string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "{")
	depth := 0
scan:
	for i, r := range t {
		switch r {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']':
			if depth > 0 {
				depth--
			}
		case '}':
			if depth == 0 {
				t = t[:i]
				break scan
			}
			depth--
		case ';', ',':
			if depth == 0 {
				t = t[:i]
				break scan
			}
		}
	}
	if idx := strings.Index(t, "//"); idx >= 0 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(line, "//") ||
		strings.HasPrefix(line, "/*") ||
		strings.HasPrefix(line, "*") ||
		strings.HasPrefix(line, "*/")
}
