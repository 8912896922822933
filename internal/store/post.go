package store

import (
	"context"
	"fmt"
	"time"

	"watizat/internal/utils"
	"watizat/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postTableName = "watizat.posts"

// postRecord mirrors the posts table. Category sets are stored as text[].
type postRecord struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Type        string    `db:"type"`
	Category    string    `db:"category"`
	Categories  []string  `db:"categories"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type postRow struct {
	postRecord
	AuthorName string `db:"author_name"`
}

var (
	postColumns       = utils.Columns(postRecord{})
	postSelectColumns = append(utils.PrefixColumns("p", postColumns), "u.name AS author_name")
)

func newPostRecord(post *types.Post) postRecord {
	return postRecord{
		ID:          post.ID,
		UserID:      post.UserID,
		Type:        string(post.Type),
		Category:    string(post.Category),
		Categories:  categoriesToText(post.Categories),
		Title:       post.Title,
		Description: post.Description,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

func (r *postRow) toPost() *types.Post {
	return &types.Post{
		ID:          r.ID,
		UserID:      r.UserID,
		AuthorName:  r.AuthorName,
		Type:        types.PostType(r.Type),
		Category:    types.Category(r.Category),
		Categories:  categoriesFromText(r.Categories),
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func selectPosts() sq.SelectBuilder {
	return psql().
		Select(postSelectColumns...).
		From(postTableName + " p").
		Join(userTableName + " u ON u.id = p.user_id")
}

// postsQuery lists posts newest first, narrowed by the non-zero fields of
// filter. The category test is set containment so it can use the GIN index.
func postsQuery(filter types.PostFilter) sq.SelectBuilder {
	q := selectPosts()

	if filter.Category != "" && filter.Category != types.CategoryAll {
		q = q.Where(sq.Expr("p.categories @> ARRAY[?]::text[]", string(filter.Category)))
	}

	if filter.Type != "" {
		q = q.Where(sq.Eq{"p.type": string(filter.Type)})
	}

	if filter.UserID != "" {
		q = q.Where(sq.Eq{"p.user_id": filter.UserID})
	}

	q = q.OrderBy("p.created_at DESC", "p.id ASC")

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	return q
}

func (r *PostRepository) Post(ctx context.Context, postID string) (*types.Post, error) {
	query, args, err := selectPosts().
		Where(sq.Eq{"p.id": postID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate post query: %w", err)
	}

	var row postRow
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("%w: %q", types.ErrPostNotFound, postID)
		}
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}

	return row.toPost(), nil
}

func (r *PostRepository) Posts(ctx context.Context, filter types.PostFilter) ([]*types.Post, error) {
	query, args, err := postsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate posts query: %w", err)
	}

	var rows []*postRow
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	posts := make([]*types.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}

	return posts, nil
}

// CreatePost assigns the post an id and timestamps before inserting it.
func (r *PostRepository) CreatePost(ctx context.Context, post *types.Post) error {
	now := time.Now().UTC()
	post.ID = utils.PrefixedID("post")
	post.CreatedAt = now
	post.UpdatedAt = now

	query, args, err := psql().
		Insert(postTableName).
		SetMap(utils.ColumnValues(newPostRecord(post))).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert post query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create post")
}

// UpdatePost rewrites the editable fields of a post. Author and creation
// time never change.
func (r *PostRepository) UpdatePost(ctx context.Context, post *types.Post) error {
	post.UpdatedAt = time.Now().UTC()

	query, args, err := updatePostQuery(post).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update post query for post %s: %w", post.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", types.ErrPostNotFound, post.ID)
	}

	return nil
}

func updatePostQuery(post *types.Post) sq.UpdateBuilder {
	rec := newPostRecord(post)
	return psql().
		Update(postTableName).
		SetMap(map[string]any{
			"type":        rec.Type,
			"category":    rec.Category,
			"categories":  rec.Categories,
			"title":       rec.Title,
			"description": rec.Description,
			"updated_at":  rec.UpdatedAt,
		}).
		Where(sq.Eq{"id": post.ID})
}
