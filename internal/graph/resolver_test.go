package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	graphql "github.com/graph-gophers/graphql-go"
	qerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hackernews-clone/backend/internal/auth"
	"github.com/hackernews-clone/backend/internal/database"
	"github.com/hackernews-clone/backend/internal/models"
)

func newTestSchema(t *testing.T) (*graphql.Schema, *gorm.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return graphql.MustParseSchema(Schema, NewResolver(db)), db
}

func execQuery(t *testing.T, ctx context.Context, schema *graphql.Schema, query string) (map[string]interface{}, []*qerrors.QueryError) {
	t.Helper()
	resp := schema.Exec(ctx, query, "", nil)
	var data map[string]interface{}
	if len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, &data))
	}
	return data, resp.Errors
}

func createUser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()
	hashed, err := auth.HashPassword("secret42")
	require.NoError(t, err)
	user := models.User{Name: name, Email: email, Password: hashed}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func authedContext(user models.User) context.Context {
	return auth.WithUserID(context.Background(), user.ID)
}

func postLink(t *testing.T, ctx context.Context, schema *graphql.Schema, url, description string) string {
	t.Helper()
	query := fmt.Sprintf(`mutation { post(url: %q, description: %q) { id } }`, url, description)
	data, errs := execQuery(t, ctx, schema, query)
	require.Empty(t, errs)
	return data["post"].(map[string]interface{})["id"].(string)
}

func TestInfo(t *testing.T) {
	schema, _ := newTestSchema(t)
	data, errs := execQuery(t, context.Background(), schema, `{ info }`)
	require.Empty(t, errs)
	require.NotEmpty(t, data["info"])
}

func TestFeedReturnsLinksInInsertionOrder(t *testing.T) {
	schema, db := newTestSchema(t)
	user := createUser(t, db, "alice", "alice@example.com")
	ctx := authedContext(user)

	postLink(t, ctx, schema, "https://howtographql.com", "Fullstack tutorial for GraphQL")
	postLink(t, ctx, schema, "https://graphql.org", "GraphQL official website")
	postLink(t, ctx, schema, "https://news.ycombinator.com", "Hacker News")

	data, errs := execQuery(t, context.Background(), schema, `{ feed { count links { url } } }`)
	require.Empty(t, errs)

	feed := data["feed"].(map[string]interface{})
	require.EqualValues(t, 3, feed["count"])

	links := feed["links"].([]interface{})
	require.Len(t, links, 3)
	require.Equal(t, "https://howtographql.com", links[0].(map[string]interface{})["url"])
	require.Equal(t, "https://graphql.org", links[1].(map[string]interface{})["url"])
	require.Equal(t, "https://news.ycombinator.com", links[2].(map[string]interface{})["url"])
}

func TestFeedFilterMatchesDescriptionOrURL(t *testing.T) {
	schema, db := newTestSchema(t)
	user := createUser(t, db, "alice", "alice@example.com")
	ctx := authedContext(user)

	postLink(t, ctx, schema, "https://howtographql.com", "Fullstack tutorial")
	postLink(t, ctx, schema, "https://example.com", "Nothing to see, about graphql")
	postLink(t, ctx, schema, "https://golang.org", "The Go website")

	data, errs := execQuery(t, context.Background(), schema, `{ feed(filter: "graphql") { count links { url } } }`)
	require.Empty(t, errs)

	feed := data["feed"].(map[string]interface{})
	require.EqualValues(t, 2, feed["count"])

	links := feed["links"].([]interface{})
	require.Len(t, links, 2)
	require.Equal(t, "https://howtographql.com", links[0].(map[string]interface{})["url"])
	require.Equal(t, "https://example.com", links[1].(map[string]interface{})["url"])
}

func TestFeedPagination(t *testing.T) {
	schema, db := newTestSchema(t)
	user := createUser(t, db, "alice", "alice@example.com")
	ctx := authedContext(user)

	postLink(t, ctx, schema, "https://one.example.com", "one")
	postLink(t, ctx, schema, "https://two.example.com", "two")
	postLink(t, ctx, schema, "https://three.example.com", "three")

	data, errs := execQuery(t, context.Background(), schema, `{ feed(first: 1, skip: 1) { count links { description } } }`)
	require.Empty(t, errs)

	feed := data["feed"].(map[string]interface{})
	links := feed["links"].([]interface{})
	require.Len(t, links, 1)
	require.Equal(t, "two", links[0].(map[string]interface{})["description"])

	// count covers the whole feed, not the page
	require.EqualValues(t, 3, feed["count"])
}

func TestFeedOrderBy(t *testing.T) {
	schema, db := newTestSchema(t)
	user := createUser(t, db, "alice", "alice@example.com")
	ctx := authedContext(user)

	postLink(t, ctx, schema, "https://b.example.com", "banana")
	postLink(t, ctx, schema, "https://a.example.com", "apple")
	postLink(t, ctx, schema, "https://c.example.com", "cherry")

	data, errs := execQuery(t, context.Background(), schema, `{ feed(orderBy: description_ASC) { links { description } } }`)
	require.Empty(t, errs)

	links := data["feed"].(map[string]interface{})["links"].([]interface{})
	require.Len(t, links, 3)
	require.Equal(t, "apple", links[0].(map[string]interface{})["description"])
	require.Equal(t, "banana", links[1].(map[string]interface{})["description"])
	require.Equal(t, "cherry", links[2].(map[string]interface{})["description"])

	data, errs = execQuery(t, context.Background(), schema, `{ feed(orderBy: url_DESC) { links { url } } }`)
	require.Empty(t, errs)

	links = data["feed"].(map[string]interface{})["links"].([]interface{})
	require.Equal(t, "https://c.example.com", links[0].(map[string]interface{})["url"])
}

func TestPostRequiresAuthentication(t *testing.T) {
	schema, db := newTestSchema(t)

	_, errs := execQuery(t, context.Background(), schema,
		`mutation { post(url: "https://example.com", description: "no auth") { id } }`)
	require.NotEmpty(t, errs)
	require.Equal(t, "UNAUTHENTICATED", errs[0].Extensions["code"])

	// the failed mutation must not have written anything
	var count int64
	require.NoError(t, db.Model(&models.Link{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPostConnectsLinkToUser(t *testing.T) {
	schema, db := newTestSchema(t)
	user := createUser(t, db, "alice", "alice@example.com")
	ctx := authedContext(user)

	query := `mutation { post(url: "https://example.com", description: "hello") { id url description postedBy { name email } } }`
	data, errs := execQuery(t, ctx, schema, query)
	require.Empty(t, errs)

	post := data["post"].(map[string]interface{})
	require.Equal(t, "https://example.com", post["url"])
	require.Equal(t, "hello", post["description"])

	postedBy := post["postedBy"].(map[string]interface{})
	require.Equal(t, "alice", postedBy["name"])
	require.Equal(t, "alice@example.com", postedBy["email"])
}

func TestVote(t *testing.T) {
	schema, db := newTestSchema(t)
	alice := createUser(t, db, "alice", "alice@example.com")
	bob := createUser(t, db, "bob", "bob@example.com")

	linkID := postLink(t, authedContext(alice), schema, "https://example.com", "a link")
	voteQuery := fmt.Sprintf(`mutation { vote(linkId: %q) { id user { name } link { url } } }`, linkID)

	// first vote succeeds
	data, errs := execQuery(t, authedContext(bob), schema, voteQuery)
	require.Empty(t, errs)
	vote := data["vote"].(map[string]interface{})
	require.Equal(t, "bob", vote["user"].(map[string]interface{})["name"])
	require.Equal(t, "https://example.com", vote["link"].(map[string]interface{})["url"])

	// second vote by the same user conflicts
	_, errs = execQuery(t, authedContext(bob), schema, voteQuery)
	require.NotEmpty(t, errs)
	require.Equal(t, "CONFLICT", errs[0].Extensions["code"])

	// a different user can still vote
	_, errs = execQuery(t, authedContext(alice), schema, voteQuery)
	require.Empty(t, errs)
}

func TestVoteRequiresAuthentication(t *testing.T) {
	schema, db := newTestSchema(t)
	alice := createUser(t, db, "alice", "alice@example.com")
	linkID := postLink(t, authedContext(alice), schema, "https://example.com", "a link")

	_, errs := execQuery(t, context.Background(), schema,
		fmt.Sprintf(`mutation { vote(linkId: %q) { id } }`, linkID))
	require.NotEmpty(t, errs)
	require.Equal(t, "UNAUTHENTICATED", errs[0].Extensions["code"])
}

func TestVoteOnMissingLink(t *testing.T) {
	schema, db := newTestSchema(t)
	alice := createUser(t, db, "alice", "alice@example.com")

	_, errs := execQuery(t, authedContext(alice), schema, `mutation { vote(linkId: "999") { id } }`)
	require.NotEmpty(t, errs)
	require.Equal(t, "NOT_FOUND", errs[0].Extensions["code"])
}

func TestSignupLoginRoundTrip(t *testing.T) {
	schema, _ := newTestSchema(t)

	data, errs := execQuery(t, context.Background(), schema,
		`mutation { signup(email: "alice@example.com", password: "secret42", name: "alice") { token user { id name } } }`)
	require.Empty(t, errs)

	payload := data["signup"].(map[string]interface{})
	signupToken := payload["token"].(string)
	userID := payload["user"].(map[string]interface{})["id"].(string)

	data, errs = execQuery(t, context.Background(), schema,
		`mutation { login(email: "alice@example.com", password: "secret42") { token user { id } } }`)
	require.Empty(t, errs)

	loginPayload := data["login"].(map[string]interface{})
	loginToken := loginPayload["token"].(string)
	require.Equal(t, userID, loginPayload["user"].(map[string]interface{})["id"])

	// both tokens decode back to the same user id
	signupID, err := auth.ParseToken(signupToken)
	require.NoError(t, err)
	loginID, err := auth.ParseToken(loginToken)
	require.NoError(t, err)
	require.Equal(t, signupID, loginID)
	require.Equal(t, fmt.Sprint(signupID), userID)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	schema, db := newTestSchema(t)

	signup := `mutation { signup(email: "alice@example.com", password: "secret42", name: "alice") { token } }`
	_, errs := execQuery(t, context.Background(), schema, signup)
	require.Empty(t, errs)

	// the unique constraint on email propagates through the mutation
	_, errs = execQuery(t, context.Background(), schema, signup)
	require.NotEmpty(t, errs)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	schema, db := newTestSchema(t)
	createUser(t, db, "alice", "alice@example.com") // password secret42

	_, errs := execQuery(t, context.Background(), schema,
		`mutation { login(email: "alice@example.com", password: "wrong") { token } }`)
	require.NotEmpty(t, errs)
	require.Equal(t, "UNAUTHENTICATED", errs[0].Extensions["code"])

	_, errs = execQuery(t, context.Background(), schema,
		`mutation { login(email: "nobody@example.com", password: "secret42") { token } }`)
	require.NotEmpty(t, errs)
	require.Equal(t, "UNAUTHENTICATED", errs[0].Extensions["code"])
}

func TestUserLinksRelation(t *testing.T) {
	schema, db := newTestSchema(t)
	alice := createUser(t, db, "alice", "alice@example.com")
	bob := createUser(t, db, "bob", "bob@example.com")

	postLink(t, authedContext(alice), schema, "https://a.example.com", "by alice")
	postLink(t, authedContext(bob), schema, "https://b.example.com", "by bob")

	data, errs := execQuery(t, context.Background(), schema,
		`{ feed { links { description postedBy { links { description } } } } }`)
	require.Empty(t, errs)

	links := data["feed"].(map[string]interface{})["links"].([]interface{})
	require.Len(t, links, 2)

	aliceLinks := links[0].(map[string]interface{})["postedBy"].(map[string]interface{})["links"].([]interface{})
	require.Len(t, aliceLinks, 1)
	require.Equal(t, "by alice", aliceLinks[0].(map[string]interface{})["description"])
}

func TestLinkVotesRelation(t *testing.T) {
	schema, db := newTestSchema(t)
	alice := createUser(t, db, "alice", "alice@example.com")
	bob := createUser(t, db, "bob", "bob@example.com")

	linkID := postLink(t, authedContext(alice), schema, "https://example.com", "a link")
	voteQuery := fmt.Sprintf(`mutation { vote(linkId: %q) { id } }`, linkID)
	_, errs := execQuery(t, authedContext(alice), schema, voteQuery)
	require.Empty(t, errs)
	_, errs = execQuery(t, authedContext(bob), schema, voteQuery)
	require.Empty(t, errs)

	data, errs := execQuery(t, context.Background(), schema, `{ feed { links { votes { user { name } } } } }`)
	require.Empty(t, errs)

	links := data["feed"].(map[string]interface{})["links"].([]interface{})
	votes := links[0].(map[string]interface{})["votes"].([]interface{})
	require.Len(t, votes, 2)
	require.Equal(t, "alice", votes[0].(map[string]interface{})["user"].(map[string]interface{})["name"])
	require.Equal(t, "bob", votes[1].(map[string]interface{})["user"].(map[string]interface{})["name"])
}
