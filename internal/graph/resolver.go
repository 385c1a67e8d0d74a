// Package graph provides the GraphQL resolvers for the Hacker News clone API.
package graph

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	graphql "github.com/graph-gophers/graphql-go"
	"gorm.io/gorm"

	"github.com/hackernews-clone/backend/internal/auth"
	"github.com/hackernews-clone/backend/internal/models"
	"github.com/hackernews-clone/backend/internal/pubsub"
)

// linkOrders maps the LinkOrderByInput enum onto ORDER BY clauses.
var linkOrders = map[string]string{
	"description_ASC":  "description asc",
	"description_DESC": "description desc",
	"url_ASC":          "url asc",
	"url_DESC":         "url desc",
	"createdAt_ASC":    "created_at asc",
	"createdAt_DESC":   "created_at desc",
}

// Resolver is the root resolver for queries, mutations and subscriptions.
type Resolver struct {
	db       *gorm.DB
	newLinks *pubsub.Topic[models.Link]
	newVotes *pubsub.Topic[models.Vote]
}

// NewResolver creates a root resolver with the given database handle.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{
		db:       db,
		newLinks: pubsub.NewTopic[models.Link](),
		newVotes: pubsub.NewTopic[models.Vote](),
	}
}

func (r *Resolver) Info() string {
	return "This is the API of a Hacker News clone"
}

type FeedArgs struct {
	Filter  *string
	Skip    *int32
	First   *int32
	OrderBy *string
}

// feedQuery builds the shared predicate for the link list and its count.
func (r *Resolver) feedQuery(ctx context.Context, filter *string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Link{})
	if filter != nil && *filter != "" {
		pattern := "%" + *filter + "%"
		q = q.Where("description LIKE ? OR url LIKE ?", pattern, pattern)
	}
	return q
}

func (r *Resolver) Feed(ctx context.Context, args FeedArgs) (*FeedResolver, error) {
	var count int64
	if err := r.feedQuery(ctx, args.Filter).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count links: %w", err)
	}

	q := r.feedQuery(ctx, args.Filter)
	if args.OrderBy != nil {
		q = q.Order(linkOrders[*args.OrderBy])
	} else {
		q = q.Order("id") // insertion order
	}
	if args.Skip != nil {
		q = q.Offset(int(*args.Skip))
	}
	if args.First != nil {
		q = q.Limit(int(*args.First))
	}

	var links []models.Link
	if err := q.Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	return &FeedResolver{db: r.db, links: links, count: int32(count)}, nil
}

func (r *Resolver) Post(ctx context.Context, args struct{ URL, Description string }) (*LinkResolver, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errUnauthenticated("not authenticated")
	}

	link := models.Link{
		URL:         args.URL,
		Description: args.Description,
		PostedByID:  &userID,
	}
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}

	r.newLinks.Publish(link)

	return &LinkResolver{db: r.db, link: link}, nil
}

func (r *Resolver) Signup(ctx context.Context, args struct{ Email, Password, Name string }) (*AuthPayloadResolver, error) {
	hashed, err := auth.HashPassword(args.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:     args.Name,
		Email:    args.Email,
		Password: hashed,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthPayloadResolver{db: r.db, payload: models.AuthPayload{Token: token, User: user}}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct{ Email, Password string }) (*AuthPayloadResolver, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", args.Email).First(&user).Error; err != nil {
		return nil, errUnauthenticated("invalid credentials")
	}

	if err := auth.CheckPassword(user.Password, args.Password); err != nil {
		return nil, errUnauthenticated("invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthPayloadResolver{db: r.db, payload: models.AuthPayload{Token: token, User: user}}, nil
}

func (r *Resolver) Vote(ctx context.Context, args struct{ LinkID graphql.ID }) (*VoteResolver, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errUnauthenticated("not authenticated")
	}

	linkID, err := strconv.Atoi(string(args.LinkID))
	if err != nil {
		return nil, errNotFound(fmt.Sprintf("no link with id %s", args.LinkID))
	}

	var link models.Link
	if err := r.db.WithContext(ctx).First(&link, linkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound(fmt.Sprintf("no link with id %s", args.LinkID))
		}
		return nil, fmt.Errorf("load link: %w", err)
	}

	var existing models.Vote
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND link_id = ?", userID, linkID).
		First(&existing).Error
	if err == nil {
		return nil, errConflict(fmt.Sprintf("already voted for link %s", args.LinkID))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check vote: %w", err)
	}

	vote := models.Vote{UserID: userID, LinkID: linkID}
	if err := r.db.WithContext(ctx).Create(&vote).Error; err != nil {
		// The unique index backstops the pre-check: a concurrent duplicate
		// surfaces here instead of racing through.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errConflict(fmt.Sprintf("already voted for link %s", args.LinkID))
		}
		return nil, fmt.Errorf("create vote: %w", err)
	}

	r.newVotes.Publish(vote)

	return &VoteResolver{db: r.db, vote: vote}, nil
}

func (r *Resolver) NewLink(ctx context.Context) <-chan *LinkResolver {
	return pipe(ctx, r.newLinks, func(l models.Link) *LinkResolver {
		return &LinkResolver{db: r.db, link: l}
	})
}

func (r *Resolver) NewVote(ctx context.Context) <-chan *VoteResolver {
	return pipe(ctx, r.newVotes, func(v models.Vote) *VoteResolver {
		return &VoteResolver{db: r.db, vote: v}
	})
}

// pipe bridges a pubsub topic into a resolver channel, closing it when the
// subscription's context ends.
func pipe[T any, R any](ctx context.Context, topic *pubsub.Topic[T], wrap func(T) R) <-chan R {
	events := topic.Subscribe(ctx)
	out := make(chan R)
	go func() {
		defer close(out)
		for event := range events {
			select {
			case out <- wrap(event):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
