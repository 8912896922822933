package seed

import (
	"context"
	"fmt"
	"math/rand"

	"watizat/internal/matching"
	"watizat/internal/taxonomy"
	"watizat/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// TitlePrefix marks seeded posts so a reset only removes them.
const TitlePrefix = "[seed] "

const postsTable = "watizat.posts"

type PostWriter interface {
	CreatePost(ctx context.Context, post *types.Post) error
}

type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

var titles = map[types.Category][]string{
	types.CategoryFood:      {"Looking for a food bank near Gare du Nord", "Can share meals on weekends"},
	types.CategoryHealth:    {"Need a doctor who accepts AME", "Help getting to a PASS consultation"},
	types.CategoryLegal:     {"Questions about my asylum appointment", "Need help preparing an OFPRA interview"},
	types.CategoryHousing:   {"Looking for emergency accommodation", "Spare room available for a few weeks"},
	types.CategoryClothes:   {"Winter coat and shoes needed", "Giving away children's clothes"},
	types.CategorySocial:    {"Looking for a French conversation group", "Walks and coffee to meet people"},
	types.CategoryEducation: {"Want to validate my engineering diploma", "Free French lessons twice a week"},
	types.CategoryWork:      {"Help writing a CV in French", "Can review job applications"},
}

var descriptions = []string{
	"Arrived recently and still learning how things work here.",
	"Any advice or contact would already help a lot.",
	"Available most afternoons, can meet in central Paris or Lyon.",
	"I speak some French and English.",
	"Happy to explain the paperwork step by step.",
}

// generatePosts builds count posts with random category sets of one to
// three members. Needs are written by migrants and offers by volunteers.
func generatePosts(rng *rand.Rand, count int) ([]*types.Post, error) {
	migrants := userIDsByRole(types.RoleMigrant)
	volunteers := userIDsByRole(types.RoleVolunteer)
	values := taxonomy.Values()

	posts := make([]*types.Post, 0, count)
	for i := 0; i < count; i++ {
		postType := types.PostTypeNeed
		authors := migrants
		if rng.Intn(100) < 30 {
			postType = types.PostTypeOffer
			authors = volunteers
		}

		primary := values[rng.Intn(len(values))]
		categories := []string{string(primary)}
		for j := rng.Intn(matching.MaxCategories); j > 0; j-- {
			categories = append(categories, string(values[rng.Intn(len(values))]))
		}

		set, err := matching.Classify(string(primary), categories)
		if err != nil {
			return nil, fmt.Errorf("failed to classify seed post %d: %w", i+1, err)
		}

		options := titles[primary]
		author := authors[rng.Intn(len(authors))]

		post := &types.Post{
			UserID:      author,
			AuthorName:  nameOf(author),
			Type:        postType,
			Title:       TitlePrefix + options[rng.Intn(len(options))],
			Description: descriptions[rng.Intn(len(descriptions))],
		}
		set.Apply(post)

		posts = append(posts, post)
	}

	return posts, nil
}

// resetQuery deletes the posts created by earlier seed runs.
func resetQuery() sq.DeleteBuilder {
	return sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Delete(postsTable).
		Where(sq.Like{"title": TitlePrefix + "%"})
}

// SeedPosts creates count demo posts. With reset, earlier seeded posts are
// removed first.
func SeedPosts(ctx context.Context, db Execer, posts PostWriter, rng *rand.Rand, count int, reset bool) error {
	if reset {
		query, args, err := resetQuery().ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate reset query: %w", err)
		}

		tag, err := db.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to reset seeded posts: %w", err)
		}
		logrus.WithField("deleted", tag.RowsAffected()).Info("seeded posts reset")
	}

	if count <= 0 {
		logrus.Info("skipping post seed because count <= 0")
		return nil
	}

	generated, err := generatePosts(rng, count)
	if err != nil {
		return err
	}

	for _, post := range generated {
		if err := posts.CreatePost(ctx, post); err != nil {
			return fmt.Errorf("failed to create seed post %q: %w", post.Title, err)
		}
	}

	logrus.WithField("count", len(generated)).Info("demo posts seeded")
	return nil
}
