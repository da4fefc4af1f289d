package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

// Doublures en mémoire des ports secondaires. Elles respectent les mêmes
// contrats que les adapters réels (erreurs sentinelles, ordres de tri,
// primitives set atomiques) pour que les services soient testés contre la
// sémantique, pas contre un driver.

// --- USERS ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetProfiles(_ context.Context, ids []string) (map[string]domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.Profile, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u.AsProfile()
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListSuggested(_ context.Context, excludeID string) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.User
	for _, u := range f.users {
		if u.ID == excludeID {
			continue
		}
		cp := *u
		cp.PasswordHash = ""
		out = append(out, &cp)
	}
	return out, nil
}

// --- POSTS & COMMENTS ---

type fakePostRepo struct {
	mu    sync.Mutex
	posts []*domain.Post
	seq   int64

	// Cibles de cascade sur Delete, comme les FK ON DELETE CASCADE du store.
	comments  *fakeCommentRepo
	likes     *fakeLikeSet
	bookmarks *fakeBookmarkSet
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{}
}

func (f *fakePostRepo) Save(_ context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	post.Seq = f.seq
	f.posts = append(f.posts, post)
	return nil
}

func (f *fakePostRepo) FindByID(_ context.Context, postID string) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == postID {
			return p, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (f *fakePostRepo) Delete(ctx context.Context, postID string) error {
	f.mu.Lock()
	found := false
	kept := f.posts[:0]
	for _, p := range f.posts {
		if p.ID == postID {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	f.posts = kept
	f.mu.Unlock()
	if !found {
		return domain.ErrPostNotFound
	}
	if f.comments != nil {
		f.comments.deleteForPost(postID)
	}
	if f.likes != nil {
		f.likes.deleteOwner(postID)
	}
	if f.bookmarks != nil {
		f.bookmarks.deleteMember(postID)
	}
	return nil
}

func sortRecent(posts []*domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].Seq < posts[j].Seq
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func (f *fakePostRepo) ListRecent(_ context.Context) ([]*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Post, len(f.posts))
	copy(out, f.posts)
	sortRecent(out)
	return out, nil
}

func (f *fakePostRepo) ListByAuthors(_ context.Context, authorIDs []string) ([]*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	allowed := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		allowed[id] = true
	}
	var out []*domain.Post
	for _, p := range f.posts {
		if allowed[p.AuthorID] {
			out = append(out, p)
		}
	}
	sortRecent(out)
	return out, nil
}

func (f *fakePostRepo) ListByAuthor(_ context.Context, authorID string) ([]*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Ordre naturel du store : ordre d'insertion, aucun tri.
	var out []*domain.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []domain.Comment
	seq      int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (f *fakeCommentRepo) Save(_ context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	comment.Seq = f.seq
	f.comments = append(f.comments, *comment)
	return nil
}

func sortComments(cs []domain.Comment) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].Seq < cs[j].Seq
		}
		return cs[i].CreatedAt.After(cs[j].CreatedAt)
	})
}

func (f *fakeCommentRepo) ListForPost(_ context.Context, postID string) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sortComments(out)
	return out, nil
}

func (f *fakeCommentRepo) ListForPosts(_ context.Context, postIDs []string) (map[string][]domain.Comment, error) {
	out := make(map[string][]domain.Comment, len(postIDs))
	for _, id := range postIDs {
		cs, _ := f.ListForPost(context.Background(), id)
		if len(cs) > 0 {
			out[id] = cs
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) deleteForPost(postID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.comments[:0]
	for _, c := range f.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	f.comments = kept
}

// --- SETS (LIKES / BOOKMARKS) ---

type setEntry struct {
	owner, member string
}

type fakeSet struct {
	mu      sync.Mutex
	entries []setEntry // ordre d'insertion, comme l'ordre created_at du store
}

func (f *fakeSet) Add(_ context.Context, ownerID, memberID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.owner == ownerID && e.member == memberID {
			return false, nil
		}
	}
	f.entries = append(f.entries, setEntry{ownerID, memberID})
	return true, nil
}

func (f *fakeSet) Remove(_ context.Context, ownerID, memberID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.owner == ownerID && e.member == memberID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSet) Contains(_ context.Context, ownerID, memberID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.owner == ownerID && e.member == memberID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSet) deleteOwner(ownerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.owner != ownerID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
}

func (f *fakeSet) deleteMember(memberID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.member != memberID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
}

type fakeLikeSet struct{ fakeSet }

func newFakeLikeSet() *fakeLikeSet { return &fakeLikeSet{} }

func (f *fakeLikeSet) ForPosts(_ context.Context, postIDs []string) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	allowed := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		allowed[id] = true
	}
	out := make(map[string][]string)
	for _, e := range f.entries {
		if allowed[e.owner] {
			out[e.owner] = append(out[e.owner], e.member)
		}
	}
	return out, nil
}

type fakeBookmarkSet struct{ fakeSet }

func newFakeBookmarkSet() *fakeBookmarkSet { return &fakeBookmarkSet{} }

// --- GRAPHE SOCIAL ---

type fakeGraph struct {
	mu    sync.Mutex
	edges []setEntry // owner = actor (suiveur), member = target (suivi)
}

func newFakeGraph() *fakeGraph { return &fakeGraph{} }

func (f *fakeGraph) EnsureSchema(_ context.Context) error { return nil }

func (f *fakeGraph) has(actorID, targetID string) bool {
	for _, e := range f.edges {
		if e.owner == actorID && e.member == targetID {
			return true
		}
	}
	return false
}

func (f *fakeGraph) ToggleRelation(_ context.Context, actorID, targetID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.edges {
		if e.owner == actorID && e.member == targetID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return false, nil
		}
	}
	f.edges = append(f.edges, setEntry{actorID, targetID})
	return true, nil
}

func (f *fakeGraph) RelationStatus(_ context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &domain.RelationStatus{
		IsFollowing:  f.has(actorID, targetID),
		IsFollowedBy: f.has(targetID, actorID),
	}, nil
}

func (f *fakeGraph) Following(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.edges {
		if e.owner == userID {
			out = append(out, e.member)
		}
	}
	return out, nil
}

func (f *fakeGraph) StreamFollowers(_ context.Context, userID string, batchSize int, yield func([]string) error) error {
	f.mu.Lock()
	var followers []string
	for _, e := range f.edges {
		if e.member == userID {
			followers = append(followers, e.owner)
		}
	}
	f.mu.Unlock()
	for start := 0; start < len(followers); start += batchSize {
		end := start + batchSize
		if end > len(followers) {
			end = len(followers)
		}
		if err := yield(followers[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// --- CONVERSATIONS ---

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*domain.Conversation // clé = "userA|userB" canonique
	messages      []domain.Message
	seq           int64
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[string]*domain.Conversation)}
}

func pairKey(a, b string) string {
	userA, userB := domain.CanonicalPair(a, b)
	return userA + "|" + userB
}

func (f *fakeConversationRepo) GetOrCreate(_ context.Context, userA, userB string) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey(userA, userB)
	if conv, ok := f.conversations[key]; ok {
		return conv, nil
	}
	conv := domain.NewConversation(userA, userB)
	f.conversations[key] = conv
	return conv, nil
}

func (f *fakeConversationRepo) Find(_ context.Context, userA, userB string) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if conv, ok := f.conversations[pairKey(userA, userB)]; ok {
		return conv, nil
	}
	return nil, domain.ErrConversationNotFound
}

func (f *fakeConversationRepo) AppendMessage(_ context.Context, msg *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	msg.Seq = f.seq
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeConversationRepo) ListMessages(_ context.Context, conversationID string) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeConversationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conversations)
}

// --- BROKER ---

type fakePublisher struct {
	mu     sync.Mutex
	events []string
	err    error // simule un broker en panne
}

func newFakePublisher() *fakePublisher { return &fakePublisher{} }

func (f *fakePublisher) record(event string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) PublishUserRegistered(_ context.Context, userID, _ string) error {
	return f.record("user.registered:" + userID)
}

func (f *fakePublisher) PublishFollowToggled(_ context.Context, actorID, targetID string, following bool) error {
	return f.record(fmt.Sprintf("follow:%s->%s:%t", actorID, targetID, following))
}

func (f *fakePublisher) PublishPostCreated(_ context.Context, post *domain.Post) error {
	return f.record("post.created:" + post.ID)
}

func (f *fakePublisher) PublishPostDeleted(_ context.Context, postID string) error {
	return f.record("post.deleted:" + postID)
}

func (f *fakePublisher) PublishMessageCreated(_ context.Context, msg *domain.Message) error {
	return f.record("message.created:" + msg.ID)
}

// --- SÉCURITÉ ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(encodedHash, password string) error {
	if encodedHash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateTokens(user *domain.User) (string, string, error) {
	return "acc|" + user.ID, "ref|" + user.ID, nil
}

func (fakeTokens) Validate(token string) (string, error) {
	userID, ok := strings.CutPrefix(token, "acc|")
	if !ok {
		userID, ok = strings.CutPrefix(token, "ref|")
	}
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return userID, nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: make(map[string]bool)}
}

func (f *fakeRevoker) Revoke(_ context.Context, token string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = true
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[token], nil
}

// mustUser crée et persiste un utilisateur de test.
func mustUser(f *fakeUserRepo, username string) *domain.User {
	u, err := domain.NewUser(username+"@example.com", username, "hashed:secret123", domain.GenderFemale)
	if err != nil {
		panic(err)
	}
	_ = f.Save(context.Background(), u)
	return u
}
