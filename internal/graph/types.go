package graph

import (
	"context"
	"fmt"
	"strconv"

	graphql "github.com/graph-gophers/graphql-go"
	"gorm.io/gorm"

	"github.com/hackernews-clone/backend/internal/models"
)

type FeedResolver struct {
	db    *gorm.DB
	links []models.Link
	count int32
}

func (r *FeedResolver) Links() []*LinkResolver {
	resolvers := make([]*LinkResolver, 0, len(r.links))
	for _, link := range r.links {
		resolvers = append(resolvers, &LinkResolver{db: r.db, link: link})
	}
	return resolvers
}

func (r *FeedResolver) Count() int32 {
	return r.count
}

type LinkResolver struct {
	db   *gorm.DB
	link models.Link
}

func (r *LinkResolver) ID() graphql.ID {
	return graphql.ID(strconv.Itoa(r.link.ID))
}

func (r *LinkResolver) CreatedAt() graphql.Time {
	return graphql.Time{Time: r.link.CreatedAt}
}

func (r *LinkResolver) Description() string {
	return r.link.Description
}

func (r *LinkResolver) URL() string {
	return r.link.URL
}

func (r *LinkResolver) PostedBy(ctx context.Context) (*UserResolver, error) {
	if r.link.PostedByID == nil {
		return nil, nil
	}
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, *r.link.PostedByID).Error; err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &UserResolver{db: r.db, user: user}, nil
}

func (r *LinkResolver) Votes(ctx context.Context) ([]*VoteResolver, error) {
	var votes []models.Vote
	if err := r.db.WithContext(ctx).Where("link_id = ?", r.link.ID).Order("id").Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}
	resolvers := make([]*VoteResolver, 0, len(votes))
	for _, vote := range votes {
		resolvers = append(resolvers, &VoteResolver{db: r.db, vote: vote})
	}
	return resolvers, nil
}

type UserResolver struct {
	db   *gorm.DB
	user models.User
}

func (r *UserResolver) ID() graphql.ID {
	return graphql.ID(strconv.Itoa(r.user.ID))
}

func (r *UserResolver) Name() string {
	return r.user.Name
}

func (r *UserResolver) Email() string {
	return r.user.Email
}

func (r *UserResolver) Links(ctx context.Context) ([]*LinkResolver, error) {
	var links []models.Link
	if err := r.db.WithContext(ctx).Where("posted_by_id = ?", r.user.ID).Order("id").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}
	resolvers := make([]*LinkResolver, 0, len(links))
	for _, link := range links {
		resolvers = append(resolvers, &LinkResolver{db: r.db, link: link})
	}
	return resolvers, nil
}

type VoteResolver struct {
	db   *gorm.DB
	vote models.Vote
}

func (r *VoteResolver) ID() graphql.ID {
	return graphql.ID(strconv.Itoa(r.vote.ID))
}

func (r *VoteResolver) Link(ctx context.Context) (*LinkResolver, error) {
	var link models.Link
	if err := r.db.WithContext(ctx).First(&link, r.vote.LinkID).Error; err != nil {
		return nil, fmt.Errorf("load link: %w", err)
	}
	return &LinkResolver{db: r.db, link: link}, nil
}

func (r *VoteResolver) User(ctx context.Context) (*UserResolver, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, r.vote.UserID).Error; err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &UserResolver{db: r.db, user: user}, nil
}

type AuthPayloadResolver struct {
	db      *gorm.DB
	payload models.AuthPayload
}

func (r *AuthPayloadResolver) Token() *string {
	return &r.payload.Token
}

func (r *AuthPayloadResolver) User() *UserResolver {
	return &UserResolver{db: r.db, user: r.payload.User}
}
