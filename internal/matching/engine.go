package matching

import (
	"fmt"

	"watizat/internal/taxonomy"
	"watizat/pkg/types"
)

// Posts handed to the functions below are expected to come from Classify
// (directly or through the store), so their category sets are not re-checked.

// FilterByCategory keeps the posts whose category set contains value. An empty
// value or types.CategoryAll returns posts unchanged. Membership is checked
// against the full set, not only the primary category.
func FilterByCategory(posts []*types.Post, value types.Category) ([]*types.Post, error) {
	if value == "" || value == types.CategoryAll {
		return posts, nil
	}

	if !taxonomy.IsValid(string(value)) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidCategory, value)
	}

	out := make([]*types.Post, 0, len(posts))
	for _, post := range posts {
		for _, c := range post.Categories {
			if c == value {
				out = append(out, post)
				break
			}
		}
	}

	return out, nil
}

// capability is a volunteer's help categories prepared for lookups. It is
// empty for every other role.
type capability map[types.Category]bool

func capabilityOf(viewer types.Viewer) capability {
	if viewer.Role != types.RoleVolunteer {
		return nil
	}

	c := make(capability, len(viewer.HelpCategories))
	for _, hc := range viewer.HelpCategories {
		c[hc] = true
	}
	return c
}

func (c capability) covers(post *types.Post) bool {
	for _, pc := range post.Categories {
		if c[pc] {
			return true
		}
	}
	return false
}

// CanHelp reports whether viewer is a volunteer whose help categories share
// at least one category with the post. Non-volunteers, admins included, and
// volunteers without help categories can help with nothing.
func CanHelp(viewer types.Viewer, post *types.Post) bool {
	return capabilityOf(viewer).covers(post)
}

// AnnotateCanHelp pairs every post with its can-help flag for viewer. The
// flag is always set, false for non-volunteers.
func AnnotateCanHelp(posts []*types.Post, viewer types.Viewer) []types.PostView {
	c := capabilityOf(viewer)

	out := make([]types.PostView, len(posts))
	for i, post := range posts {
		out[i] = types.PostView{Post: post, CanHelp: c.covers(post)}
	}

	return out
}

// View filters posts by category and then annotates the remainder for viewer.
func View(posts []*types.Post, value types.Category, viewer types.Viewer) ([]types.PostView, error) {
	filtered, err := FilterByCategory(posts, value)
	if err != nil {
		return nil, err
	}

	return AnnotateCanHelp(filtered, viewer), nil
}

// Helpable keeps only the views flagged as helpable.
func Helpable(views []types.PostView) []types.PostView {
	out := make([]types.PostView, 0, len(views))
	for _, v := range views {
		if v.CanHelp {
			out = append(out, v)
		}
	}
	return out
}
