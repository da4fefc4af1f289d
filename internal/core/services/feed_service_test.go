package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
	"github.com/jupiterclapton/pictogram/internal/core/ports"
)

type feedFixture struct {
	posts    *fakePostRepo
	comments *fakeCommentRepo
	likes    *fakeLikeSet
	users    *fakeUserRepo
	graph    *fakeGraph
}

func newFeedFixture() *feedFixture {
	return &feedFixture{
		posts:    newFakePostRepo(),
		comments: newFakeCommentRepo(),
		likes:    newFakeLikeSet(),
		users:    newFakeUserRepo(),
		graph:    newFakeGraph(),
	}
}

func (fx *feedFixture) service() ports.FeedService {
	return NewFeedService(fx.posts, fx.comments, fx.likes, fx.users, fx.graph)
}

// seedAt insère un post avec un CreatedAt contrôlé pour tester l'ordre.
func (fx *feedFixture) seedAt(t *testing.T, authorID, caption string, at time.Time) *domain.Post {
	t.Helper()
	post, err := domain.NewPost(authorID, caption, "")
	require.NoError(t, err)
	post.CreatedAt = at
	require.NoError(t, fx.posts.Save(context.Background(), post))
	return post
}

func TestFeedService_GlobalFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("Plus récents d'abord, tie-break par ordre d'insertion", func(t *testing.T) {
		fx := newFeedFixture()
		alice := mustUser(fx.users, "alice")

		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		old := fx.seedAt(t, alice.ID, "ancien", base.Add(-time.Hour))
		twinA := fx.seedAt(t, alice.ID, "jumeau A", base)
		twinB := fx.seedAt(t, alice.ID, "jumeau B", base) // même instant, seq supérieur

		feed, err := fx.service().GlobalFeed(ctx)
		require.NoError(t, err)
		require.Len(t, feed, 3)
		// À CreatedAt égal, l'ordre d'insertion départage : deux lectures du
		// même état rendent la même séquence.
		assert.Equal(t, twinA.ID, feed[0].ID)
		assert.Equal(t, twinB.ID, feed[1].ID)
		assert.Equal(t, old.ID, feed[2].ID)
	})

	t.Run("Hydratation: auteur, likes et commentaires", func(t *testing.T) {
		fx := newFeedFixture()
		alice := mustUser(fx.users, "alice")
		bob := mustUser(fx.users, "bob")

		post := fx.seedAt(t, alice.ID, "hydrate-moi", time.Now().UTC())

		_, err := fx.likes.Add(ctx, post.ID, bob.ID)
		require.NoError(t, err)
		comment, err := domain.NewComment(bob.ID, post.ID, "joli")
		require.NoError(t, err)
		require.NoError(t, fx.comments.Save(ctx, comment))

		feed, err := fx.service().GlobalFeed(ctx)
		require.NoError(t, err)
		require.Len(t, feed, 1)

		got := feed[0]
		assert.Equal(t, "alice", got.Author.Username)
		assert.Equal(t, []string{bob.ID}, got.Likes)
		require.Len(t, got.Comments, 1)
		assert.Equal(t, "joli", got.Comments[0].Text)
		assert.Equal(t, "bob", got.Comments[0].Author.Username)
	})

	t.Run("Post sans like: liste vide, jamais nil", func(t *testing.T) {
		fx := newFeedFixture()
		alice := mustUser(fx.users, "alice")
		fx.seedAt(t, alice.ID, "solo", time.Now().UTC())

		feed, err := fx.service().GlobalFeed(ctx)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.NotNil(t, feed[0].Likes)
		assert.Empty(t, feed[0].Likes)
	})
}

func TestFeedService_FollowingFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("Seuls les posts des suivis apparaissent", func(t *testing.T) {
		fx := newFeedFixture()
		alice := mustUser(fx.users, "alice")
		bob := mustUser(fx.users, "bob")
		carol := mustUser(fx.users, "carol")

		_, err := fx.graph.ToggleRelation(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		fx.seedAt(t, bob.ID, "de bob", time.Now().UTC())
		fx.seedAt(t, carol.ID, "de carol", time.Now().UTC())

		feed, err := fx.service().FollowingFeed(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, bob.ID, feed[0].AuthorID)
	})

	t.Run("Ne suit personne: feed vide, pas d'erreur", func(t *testing.T) {
		fx := newFeedFixture()
		alice := mustUser(fx.users, "alice")
		bob := mustUser(fx.users, "bob")
		fx.seedAt(t, bob.ID, "invisible", time.Now().UTC())

		feed, err := fx.service().FollowingFeed(ctx, alice.ID)
		require.NoError(t, err)
		assert.NotNil(t, feed)
		assert.Empty(t, feed)
	})

	t.Run("Utilisateur inconnu", func(t *testing.T) {
		fx := newFeedFixture()
		_, err := fx.service().FollowingFeed(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("Follow puis unfollow: le feed suit l'état de l'arête", func(t *testing.T) {
		fx := newFeedFixture()
		alice := mustUser(fx.users, "alice")
		bob := mustUser(fx.users, "bob")
		fx.seedAt(t, bob.ID, "de bob", time.Now().UTC())

		graphSvc := NewGraphService(fx.graph, fx.users, newFakePublisher())

		state, err := graphSvc.ToggleFollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StateFollowed, state)
		feed, err := fx.service().FollowingFeed(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, feed, 1)

		state, err = graphSvc.ToggleFollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StateUnfollowed, state)
		feed, err = fx.service().FollowingFeed(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, feed)
	})
}

func TestFeedService_UserPosts(t *testing.T) {
	ctx := context.Background()
	fx := newFeedFixture()
	alice := mustUser(fx.users, "alice")
	bob := mustUser(fx.users, "bob")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := fx.seedAt(t, alice.ID, "un", base)
	second := fx.seedAt(t, alice.ID, "deux", base.Add(time.Minute))
	fx.seedAt(t, bob.ID, "pas elle", base)

	// Ordre naturel du store (insertion), PAS de tri anti-chronologique.
	feed, err := fx.service().UserPosts(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, first.ID, feed[0].ID)
	assert.Equal(t, second.ID, feed[1].ID)
}
