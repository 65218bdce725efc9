// Package pathset provides set operations over absolute filesystem paths.
//
// It is used for the expansion index, the selection, changed-path signals and
// the forbidden set of an operation. Ordering helpers sort paths component by
// component so that "/a/b" sorts before "/a-b".
package pathset

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Set is an unordered set of cleaned paths.
type Set map[string]struct{}

// New creates a Set containing the given paths, cleaned.
func New(paths ...string) Set {
	s := make(Set, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts a path.
func (s Set) Add(path string) {
	s[filepath.Clean(path)] = struct{}{}
}

// Remove deletes a path.
func (s Set) Remove(path string) {
	delete(s, filepath.Clean(path))
}

// Has reports whether path is a member. A nil Set has no members.
func (s Set) Has(path string) bool {
	_, ok := s[filepath.Clean(path)]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Union returns a new Set with the members of s and other.
func (s Set) Union(other Set) Set {
	out := s.Clone()
	for p := range other {
		out[p] = struct{}{}
	}
	return out
}

// Disjoint reports whether s and other share no members.
func (s Set) Disjoint(other Set) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for p := range small {
		if _, ok := large[p]; ok {
			return false
		}
	}
	return true
}

// Sorted returns the members ordered by Less.
func (s Set) Sorted() []string {
	out := lo.Keys(s)
	Sort(out)
	return out
}

// IsAncestor reports whether ancestor is a strict ancestor of path.
func IsAncestor(ancestor, path string) bool {
	ancestor, path = filepath.Clean(ancestor), filepath.Clean(path)
	if ancestor == path {
		return false
	}
	rel, err := filepath.Rel(ancestor, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Ancestors returns every strict ancestor of every given path, up to and
// including the filesystem root.
func Ancestors(paths ...string) Set {
	out := New()
	for _, p := range paths {
		p = filepath.Clean(p)
		for {
			parent := filepath.Dir(p)
			if parent == p {
				break
			}
			out[parent] = struct{}{}
			p = parent
		}
	}
	return out
}

// Unify collapses a selection so that no member lies inside another member.
func Unify(s Set) Set {
	out := New()
	members := lo.Keys(s)
	for p := range s {
		covered := lo.SomeBy(members, func(other string) bool {
			return IsAncestor(other, p)
		})
		if !covered {
			out[p] = struct{}{}
		}
	}
	return out
}

// Parents returns the parent directory of every given path.
func Parents(paths ...string) Set {
	return New(lo.Map(paths, func(p string, _ int) string {
		return filepath.Dir(filepath.Clean(p))
	})...)
}

func components(path string) []string {
	return strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
}

// Less orders paths component by component, case-folded first and then
// byte-wise for a stable tie break.
func Less(a, b string) bool {
	ca, cb := components(a), components(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if ca[i] == cb[i] {
			continue
		}
		la, lb := strings.ToLower(ca[i]), strings.ToLower(cb[i])
		if la != lb {
			return la < lb
		}
		return ca[i] < cb[i]
	}
	return len(ca) < len(cb)
}

// Sort orders paths in place using Less.
func Sort(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return Less(paths[i], paths[j])
	})
}
