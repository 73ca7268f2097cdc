package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/fatih/camelcase"
)

// ContractStore owns all per-run state: current contract models, version
// history per identity, the violation cache, and computed changesets.
// A store belongs to exactly one validation pass; create a fresh one per
// run and discard it at the end.
//
// All caches are keyed by identity (name + source file), so two files
// declaring the same contract name never share state. The name-based
// lookup methods resolve a bare name to the first matching identity in
// source-file order; they exist for caller convenience only.
type ContractStore struct {
	identities map[string]Identity
	current    map[string]Contract
	history    map[string][]Contract
	violations map[string][]Violation
	changesets map[string]Changeset
	order      []string
}

// NewContractStore creates an empty store.
func NewContractStore() *ContractStore {
	return &ContractStore{
		identities: make(map[string]Identity),
		current:    make(map[string]Contract),
		history:    make(map[string][]Contract),
		violations: make(map[string][]Violation),
		changesets: make(map[string]Changeset),
	}
}

func identityKey(c Contract) string {
	return c.Name + "@" + c.SourceFile
}

// Put registers a newly extracted contract. If the identity already has a
// current model, that model is appended to the version history before the
// new model supersedes it.
func (s *ContractStore) Put(c Contract, discoveredAt time.Time) Identity {
	id, ok := s.identities[identityKey(c)]
	if !ok {
		id = IdentityOf(c, discoveredAt)
		s.identities[id.Key()] = id
		s.order = append(s.order, id.Key())
	}
	if prev, exists := s.current[id.Key()]; exists {
		s.history[id.Key()] = append(s.history[id.Key()], prev)
	}
	s.current[id.Key()] = c
	return id
}

// Seed pre-loads a prior-run model into an identity's history without
// making it current. Used to replay the baseline before extraction.
func (s *ContractStore) Seed(c Contract, discoveredAt time.Time) {
	key := identityKey(c)
	if _, ok := s.identities[key]; !ok {
		s.identities[key] = IdentityOf(c, discoveredAt)
		s.order = append(s.order, key)
	}
	s.history[key] = append(s.history[key], c)
}

// Contracts returns all current models sorted by source file then name,
// so report output is deterministic regardless of extraction order.
func (s *ContractStore) Contracts() []Contract {
	keys := make([]string, 0, len(s.current))
	for key := range s.current {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s.current[keys[i]], s.current[keys[j]]
		if a.SourceFile != b.SourceFile {
			return a.SourceFile < b.SourceFile
		}
		return a.Name < b.Name
	})
	out := make([]Contract, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.current[key])
	}
	return out
}

// Get returns the current model for a contract name, matching any source file.
func (s *ContractStore) Get(name string) (Contract, bool) {
	for _, c := range s.Contracts() {
		if c.Name == name {
			return c, true
		}
	}
	return Contract{}, false
}

// PriorVersions returns the stored prior models for one identity, oldest
// first. The current model is not included.
func (s *ContractStore) PriorVersions(c Contract) []Contract {
	return s.history[identityKey(c)]
}

// HistoryFor returns the stored prior versions for a contract name, oldest
// first. The current model is not included.
func (s *ContractStore) HistoryFor(name string) []Contract {
	return s.history[s.keyFor(name)]
}

// VersionCount returns stored versions for an identity including the
// current model, or 0 when the contract is unknown.
func (s *ContractStore) VersionCount(name string) int {
	key := s.keyFor(name)
	if _, ok := s.identities[key]; !ok {
		return 0
	}
	n := len(s.history[key])
	if _, ok := s.current[key]; ok {
		n++
	}
	return n
}

// SetViolations records the violations computed for one contract.
func (s *ContractStore) SetViolations(c Contract, violations []Violation) {
	s.violations[identityKey(c)] = violations
}

// ViolationsFor returns the cached violations for a contract name.
func (s *ContractStore) ViolationsFor(name string) []Violation {
	return s.violations[s.keyFor(name)]
}

func (s *ContractStore) violationsOf(c Contract) []Violation {
	return s.violations[identityKey(c)]
}

// AllViolations returns every cached violation in deterministic contract order.
func (s *ContractStore) AllViolations() []Violation {
	var out []Violation
	for _, c := range s.Contracts() {
		out = append(out, s.violationsOf(c)...)
	}
	return out
}

// SetChangeset records the diff computed for one contract.
func (s *ContractStore) SetChangeset(c Contract, cs Changeset) {
	s.changesets[identityKey(c)] = cs
}

// ChangesetFor returns the diff for a contract name. Contracts seen for
// the first time have an empty changeset.
func (s *ContractStore) ChangesetFor(name string) Changeset {
	if cs, ok := s.changesets[s.keyFor(name)]; ok {
		return cs
	}
	return Changeset{ContractName: name}
}

func (s *ContractStore) changesetOf(c Contract) Changeset {
	if cs, ok := s.changesets[identityKey(c)]; ok {
		return cs
	}
	return Changeset{ContractName: c.Name}
}

// Changesets returns all non-empty changesets in deterministic order.
func (s *ContractStore) Changesets() []Changeset {
	var out []Changeset
	for _, c := range s.Contracts() {
		cs := s.changesetOf(c)
		if len(cs.Changes) > 0 {
			out = append(out, cs)
		}
	}
	return out
}

// BreakingChangesFor returns the breaking-change records for a contract:
// the diffed changeset entries plus any records declared on the model.
func (s *ContractStore) BreakingChangesFor(name string) []BreakingChangeRecord {
	c, ok := s.Get(name)
	if !ok {
		return nil
	}
	return s.breakingOf(c)
}

func (s *ContractStore) breakingOf(c Contract) []BreakingChangeRecord {
	out := append([]BreakingChangeRecord(nil), c.Metadata.BreakingChanges...)
	return append(out, s.changesetOf(c).Changes...)
}

// IsCompliant reports whether a contract has no critical or high violations.
func (s *ContractStore) IsCompliant(name string) bool {
	return noCriticalOrHigh(s.ViolationsFor(name))
}

func noCriticalOrHigh(violations []Violation) bool {
	for _, v := range violations {
		if SeverityRank(v.Severity) >= SeverityRank(SeverityHigh) {
			return false
		}
	}
	return true
}

// TopCritical returns the n contracts with the most critical violations,
// sorted descending. Contracts with zero critical violations are omitted.
func (s *ContractStore) TopCritical(n int) []string {
	type entry struct {
		name  string
		count int
	}
	var entries []entry
	for _, c := range s.Contracts() {
		count := 0
		for _, v := range s.violationsOf(c) {
			if v.Severity == SeverityCritical {
				count++
			}
		}
		if count > 0 {
			entries = append(entries, entry{c.Name, count})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Suggest generates free-text improvement advice for one contract based on
// the distinct violation types present.
func (s *ContractStore) Suggest(name string) []string {
	violations := s.ViolationsFor(name)
	if len(violations) == 0 {
		return nil
	}

	// Split PascalCase contract names into readable words for the advice
	// text, e.g. "UserProfile" -> "User Profile".
	readable := strings.Join(camelcase.Split(name), " ")

	seen := make(map[string]bool)
	var out []string
	for _, v := range violations {
		if seen[v.Type] {
			continue
		}
		seen[v.Type] = true
		switch v.Type {
		case ViolationDocumentation:
			out = append(out, "Document the "+readable+" contract and its members with doc comments")
		case ViolationVersioning:
			out = append(out, "Declare an explicit @version tag for "+readable+" and bump it on changes")
		case ViolationStability:
			out = append(out, "Add an explicit experimental warning to the "+readable+" documentation")
		case ViolationBreakingChange:
			out = append(out, "Write migration guides for the breaking changes recorded on "+readable)
		case ViolationCompatibility:
			out = append(out, "Name replacements for the deprecated members of "+readable)
		}
	}
	return out
}

// keyFor resolves a bare contract name to an identity key: the first
// current contract in source-file order, falling back to seeded-only
// identities in discovery order.
func (s *ContractStore) keyFor(name string) string {
	if c, ok := s.Get(name); ok {
		return identityKey(c)
	}
	for _, key := range s.order {
		if s.identities[key].Name == name {
			return key
		}
	}
	return name + "@"
}
