// Package matching validates post category sets and computes, per read, which
// posts a viewer can help with.
package matching

import (
	"fmt"
	"slices"

	"watizat/internal/taxonomy"
	"watizat/pkg/types"
)

// MaxCategories is the largest category set a post may carry.
const MaxCategories = 3

// CategorySet is a validated, de-duplicated set of 1 to MaxCategories
// categories together with its primary member. The zero value is empty and
// must not be applied to a post; build one with Classify.
type CategorySet struct {
	primary types.Category
	members []types.Category
}

// Classify validates a post's primary category and category set.
//
// Every value must be a registry category. Duplicates are collapsed before
// the size check, so ["food","food"] is a one-member set. Checks run in a
// fixed order and nothing is returned on failure.
func Classify(primary string, categories []string) (CategorySet, error) {
	p, err := taxonomy.Parse(primary)
	if err != nil {
		return CategorySet{}, fmt.Errorf("primary category: %w", err)
	}

	parsed, err := taxonomy.ParseAll(categories)
	if err != nil {
		return CategorySet{}, err
	}

	members := taxonomy.Dedupe(parsed)

	if len(members) > MaxCategories {
		return CategorySet{}, fmt.Errorf("%w: %d given, at most %d allowed", types.ErrTooManyCategories, len(members), MaxCategories)
	}

	if len(members) == 0 {
		return CategorySet{}, types.ErrEmptyCategories
	}

	if !slices.Contains(members, p) {
		return CategorySet{}, fmt.Errorf("%w: %q", types.ErrPrimaryNotInSet, p)
	}

	return CategorySet{primary: p, members: members}, nil
}

func (s CategorySet) Primary() types.Category {
	return s.primary
}

// Members returns a copy of the set in first-occurrence order.
func (s CategorySet) Members() []types.Category {
	return slices.Clone(s.members)
}

func (s CategorySet) Len() int {
	return len(s.members)
}

func (s CategorySet) Contains(c types.Category) bool {
	return slices.Contains(s.members, c)
}

// Apply writes the primary category and the set onto a post.
func (s CategorySet) Apply(post *types.Post) {
	post.Category = s.primary
	post.Categories = s.Members()
}
