package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/dbx"
	"github.com/dmitrijs2005/photofeed/internal/server/graph"
	"github.com/dmitrijs2005/photofeed/internal/server/metrics"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/comments"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/feeds"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/follows"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/hashtags"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/likes"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/messages"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// memDB is an in-memory stand-in for the Postgres schema. Every repository
// below is a view on it.
type memDB struct {
	mu sync.Mutex

	seq      int64
	users    map[string]*models.User
	tokens   map[string]*models.RefreshToken
	posts    map[string]*models.Post
	follows  map[[2]string]int64
	likes    map[[2]string]int64
	tags     map[string]map[string]struct{}
	feeds    map[string]map[string]models.FeedEntry
	notifs   []*models.Notification
	comments []*models.Comment
	messages []*models.Message
	resets   map[string]*models.PasswordReset

	failFeedAdd     error
	failLikesDelete error
	failPostDelete  error
}

func newMemDB() *memDB {
	return &memDB{
		users:   map[string]*models.User{},
		tokens:  map[string]*models.RefreshToken{},
		posts:   map[string]*models.Post{},
		follows: map[[2]string]int64{},
		likes:   map[[2]string]int64{},
		tags:    map[string]map[string]struct{}{},
		feeds:   map[string]map[string]models.FeedEntry{},
		resets:  map[string]*models.PasswordReset{},
	}
}

func (m *memDB) next() int64 {
	m.seq++
	return m.seq
}

// --- users ---

type memUsers struct{ *memDB }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.users {
		if other.Email == u.Email || other.Username == u.Username {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r memUsers) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return common.ErrorNotFound
	}
	for _, other := range r.users {
		if other.ID != u.ID && (other.Email == u.Email || other.Username == u.Username) {
			return common.ErrorAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r memUsers) SetDeviceToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.DeviceToken = token
	return nil
}

func (r memUsers) SetPasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r memUsers) Search(_ context.Context, prefix string, limit int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if strings.HasPrefix(u.Username, prefix) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- refresh tokens ---

type memTokens struct{ *memDB }

func (r memTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r memTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTokens) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r memTokens) DeleteForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

// --- password resets ---

type memResets struct{ *memDB }

func (r memResets) Create(_ context.Context, userID, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets[token] = &models.PasswordReset{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r memResets) Find(_ context.Context, token string) (*models.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.resets[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *pr
	return &cp, nil
}

func (r memResets) DeleteForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, pr := range r.resets {
		if pr.UserID == userID {
			delete(r.resets, k)
		}
	}
	return nil
}

// --- posts ---

type memPosts struct{ *memDB }

func (r memPosts) Create(_ context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[p.OwnerID]; !ok {
		return common.ErrorNotFound
	}
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r memPosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPosts) ListByOwner(_ context.Context, ownerID string) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for _, p := range r.posts {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// Delete mirrors the ON DELETE CASCADE foreign keys of the schema.
func (r memPosts) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPostDelete != nil {
		return r.failPostDelete
	}
	if _, ok := r.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.posts, id)
	for k := range r.likes {
		if k[0] == id {
			delete(r.likes, k)
		}
	}
	for _, set := range r.tags {
		delete(set, id)
	}
	return nil
}

func (r memPosts) AdjustLikes(_ context.Context, id string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	p.Likes += delta
	return p.Likes, nil
}

func (r memPosts) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.posts {
		if p.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// --- follows ---

type memFollows struct{ *memDB }

func (r memFollows) Create(_ context.Context, follower, followee string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := [2]string{follower, followee}
	if _, ok := r.follows[k]; ok {
		return false, nil
	}
	r.follows[k] = r.next()
	return true, nil
}

func (r memFollows) Delete(_ context.Context, follower, followee string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := [2]string{follower, followee}
	if _, ok := r.follows[k]; !ok {
		return false, nil
	}
	delete(r.follows, k)
	return true, nil
}

func (r memFollows) Exists(_ context.Context, follower, followee string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.follows[[2]string{follower, followee}]
	return ok, nil
}

func (r memFollows) Followers(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for k := range r.follows {
		if k[1] == userID {
			out = append(out, k[0])
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r memFollows) Following(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for k := range r.follows {
		if k[0] == userID {
			out = append(out, k[1])
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r memFollows) Counts(ctx context.Context, userID string) (int64, int64, error) {
	in, _ := r.Followers(ctx, userID)
	out, _ := r.Following(ctx, userID)
	return int64(len(in)), int64(len(out)), nil
}

// --- likes ---

type memLikes struct{ *memDB }

func (r memLikes) Add(_ context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[postID]; !ok {
		return false, common.ErrorNotFound
	}
	k := [2]string{postID, userID}
	if _, ok := r.likes[k]; ok {
		return false, nil
	}
	r.likes[k] = r.next()
	return true, nil
}

func (r memLikes) Remove(_ context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := [2]string{postID, userID}
	if _, ok := r.likes[k]; !ok {
		return false, nil
	}
	delete(r.likes, k)
	return true, nil
}

func (r memLikes) Exists(_ context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[[2]string{postID, userID}]
	return ok, nil
}

func (r memLikes) list(match func(k [2]string) (string, bool)) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	type hit struct {
		id  string
		seq int64
	}
	var hits []hit
	for k, seq := range r.likes {
		if id, ok := match(k); ok {
			hits = append(hits, hit{id, seq})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].seq > hits[j].seq })
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}

func (r memLikes) ListUsers(_ context.Context, postID string) ([]string, error) {
	return r.list(func(k [2]string) (string, bool) { return k[1], k[0] == postID }), nil
}

func (r memLikes) ListPosts(_ context.Context, userID string) ([]string, error) {
	return r.list(func(k [2]string) (string, bool) { return k[0], k[1] == userID }), nil
}

func (r memLikes) DeleteForPost(_ context.Context, postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLikesDelete != nil {
		return 0, r.failLikesDelete
	}
	var n int64
	for k := range r.likes {
		if k[0] == postID {
			delete(r.likes, k)
			n++
		}
	}
	return n, nil
}

// --- hashtags ---

type memHashtags struct{ *memDB }

func (r memHashtags) Add(_ context.Context, postID string, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tags {
		if r.tags[t] == nil {
			r.tags[t] = map[string]struct{}{}
		}
		r.tags[t][postID] = struct{}{}
	}
	return nil
}

func (r memHashtags) ListPosts(_ context.Context, tag string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for id := range r.tags[tag] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r memHashtags) DeleteForPost(_ context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, set := range r.tags {
		delete(set, postID)
	}
	return nil
}

func (r memHashtags) count(tag, postID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tags[tag][postID]; ok {
		return 1
	}
	return 0
}

// --- feeds ---

type memFeeds struct{ *memDB }

func (r memFeeds) Add(_ context.Context, userIDs []string, e models.FeedEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFeedAdd != nil {
		return r.failFeedAdd
	}
	for _, uid := range userIDs {
		if r.feeds[uid] == nil {
			r.feeds[uid] = map[string]models.FeedEntry{}
		}
		r.feeds[uid][e.PostID] = e
	}
	return nil
}

func (r memFeeds) AddMany(_ context.Context, userID string, entries []models.FeedEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFeedAdd != nil {
		return r.failFeedAdd
	}
	for _, e := range entries {
		if r.feeds[userID] == nil {
			r.feeds[userID] = map[string]models.FeedEntry{}
		}
		r.feeds[userID][e.PostID] = e
	}
	return nil
}

func (r memFeeds) Remove(_ context.Context, userIDs []string, e models.FeedEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, uid := range userIDs {
		delete(r.feeds[uid], e.PostID)
	}
	return nil
}

func (r memFeeds) RemoveAuthor(_ context.Context, userID, authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.feeds[userID] {
		if e.AuthorID == authorID {
			delete(r.feeds[userID], id)
		}
	}
	return nil
}

func (r memFeeds) List(_ context.Context, userID string, limit, offset int) ([]models.FeedEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.FeedEntry
	for _, e := range r.feeds[userID] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memFeeds) contains(userID, postID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.feeds[userID][postID]
	return ok
}

// --- notifications ---

type memNotifications struct{ *memDB }

func (r memNotifications) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.notifs = append(r.notifs, &cp)
	return nil
}

func (r memNotifications) deleteWhere(match func(*models.Notification) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifs[:0]
	var n int64
	for _, x := range r.notifs {
		if match(x) {
			n++
			continue
		}
		kept = append(kept, x)
	}
	r.notifs = kept
	return n
}

func (r memNotifications) DeleteMatching(_ context.Context, recipient, actor string, typ models.NotificationType, postID string) (int64, error) {
	return r.deleteWhere(func(x *models.Notification) bool {
		return x.RecipientID == recipient && x.ActorID == actor && x.Type == typ && (postID == "" || x.PostID == postID)
	}), nil
}

func (r memNotifications) DeleteForPost(_ context.Context, postID string) (int64, error) {
	return r.deleteWhere(func(x *models.Notification) bool { return x.PostID == postID }), nil
}

func (r memNotifications) ListForRecipient(_ context.Context, recipient string, limit int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for i := len(r.notifs) - 1; i >= 0 && len(out) < limit; i-- {
		if r.notifs[i].RecipientID == recipient {
			cp := *r.notifs[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memNotifications) all() []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Notification(nil), r.notifs...)
}

// --- comments ---

type memComments struct{ *memDB }

func (r memComments) Create(_ context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[c.PostID]; !ok {
		return common.ErrorNotFound
	}
	cp := *c
	r.comments = append(r.comments, &cp)
	return nil
}

func (r memComments) ListForPost(_ context.Context, postID string) ([]*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Comment
	for i := len(r.comments) - 1; i >= 0; i-- {
		if r.comments[i].PostID == postID {
			cp := *r.comments[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- messages ---

type memMessages struct{ *memDB }

func (r memMessages) Create(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[m.FromID]; !ok {
		return common.ErrorNotFound
	}
	if _, ok := r.users[m.ToID]; !ok {
		return common.ErrorNotFound
	}
	cp := *m
	r.messages = append(r.messages, &cp)
	return nil
}

// newestFirst walks messages from the latest insert backwards.
func (r memMessages) newestFirst(keep func(*models.Message) bool) []*models.Message {
	var out []*models.Message
	for i := len(r.messages) - 1; i >= 0; i-- {
		if keep(r.messages[i]) {
			cp := *r.messages[i]
			out = append(out, &cp)
		}
	}
	return out
}

func (r memMessages) ListConversation(_ context.Context, a, b string, limit, offset int) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.newestFirst(func(m *models.Message) bool {
		return (m.FromID == a && m.ToID == b) || (m.FromID == b && m.ToID == a)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memMessages) ListConversations(_ context.Context, userID string, limit int) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	out := r.newestFirst(func(m *models.Message) bool {
		if m.FromID != userID && m.ToID != userID {
			return false
		}
		partner := m.PartnerID(userID)
		if seen[partner] {
			return false
		}
		seen[partner] = true
		return true
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- manager, runner and collaborators ---

type memManager struct{ db *memDB }

func (m memManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m memManager) Users(dbx.DBTX) users.Repository                 { return memUsers{m.db} }
func (m memManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return memTokens{m.db} }
func (m memManager) Posts(dbx.DBTX) posts.Repository                 { return memPosts{m.db} }
func (m memManager) Follows(dbx.DBTX) follows.Repository             { return memFollows{m.db} }
func (m memManager) Feeds(dbx.DBTX) feeds.Repository                 { return memFeeds{m.db} }
func (m memManager) Likes(dbx.DBTX) likes.Repository                 { return memLikes{m.db} }
func (m memManager) Hashtags(dbx.DBTX) hashtags.Repository           { return memHashtags{m.db} }
func (m memManager) Notifications(dbx.DBTX) notifications.Repository { return memNotifications{m.db} }
func (m memManager) Comments(dbx.DBTX) comments.Repository           { return memComments{m.db} }
func (m memManager) Messages(dbx.DBTX) messages.Repository           { return memMessages{m.db} }
func (m memManager) PasswordResets(dbx.DBTX) passwordresets.Repository {
	return memResets{m.db}
}

// directRunner runs transactional closures without a transaction.
type directRunner struct{}

func (directRunner) Conn() dbx.DBTX { return nil }
func (directRunner) InTx(ctx context.Context, fn func(context.Context, dbx.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeStore struct {
	mu      sync.Mutex
	err     error
	uploads int
}

func (s *fakeStore) Upload(_ context.Context, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if len(data) == 0 {
		return "", common.ErrValidation
	}
	s.uploads++
	return fmt.Sprintf("https://cdn.example/images/%d", s.uploads), nil
}

type published struct {
	subject string
	payload any
}

type recordingBus struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (b *recordingBus) Publish(_ context.Context, subject string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, published{subject, payload})
	return nil
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) subjects() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.subject
	}
	return out
}

// env wires every service over one memDB.
type env struct {
	db      *memDB
	store   *fakeStore
	bus     *recordingBus
	metrics *metrics.Metrics

	users    *UserService
	graph    *GraphService
	posts    *PostService
	notifs   *NotificationService
	comments *CommentService
	messages *MessageService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := newMemDB()
	e := &env{db: db, store: &fakeStore{}, bus: &recordingBus{}, metrics: metrics.New()}

	d := Deps{
		DB:      directRunner{},
		Repos:   memManager{db},
		Graph:   graph.NewPostgresStore(memFollows{db}),
		Feeds:   memFeeds{db},
		Store:   e.store,
		Bus:     e.bus,
		Metrics: e.metrics,
	}
	e.notifs = NewNotificationService(d)
	e.users = NewUserService(d, testHasher, testConfig())
	e.graph = NewGraphService(d, e.notifs)
	e.posts = NewPostService(d, e.notifs, FanoutOptions{BatchSize: 2, Concurrency: 3})
	e.comments = NewCommentService(d, e.notifs)
	e.messages = NewMessageService(d)
	return e
}

// addUser inserts a user directly, bypassing registration.
func (e *env) addUser(t *testing.T, id string) *models.User {
	t.Helper()
	u := &models.User{ID: id, Email: id + "@example.com", Username: id, CreatedAt: time.Now().UTC()}
	_, err := memUsers{e.db}.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func (e *env) follow(t *testing.T, follower, followee string) {
	t.Helper()
	require.NoError(t, e.graph.Follow(context.Background(), follower, followee))
}

func (e *env) post(t *testing.T, owner, text string) *models.Post {
	t.Helper()
	p, err := e.posts.CreatePost(context.Background(), owner, []byte("\x89PNG..."), "image/png", text)
	require.NoError(t, err)
	return p
}

func (e *env) feedIDs(t *testing.T, user string) []string {
	t.Helper()
	posts, err := e.posts.FeedFor(context.Background(), user, 0, 0)
	require.NoError(t, err)
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func (e *env) notificationsFor(recipient string) []*models.Notification {
	var out []*models.Notification
	for _, n := range (memNotifications{e.db}).all() {
		if n.RecipientID == recipient {
			out = append(out, n)
		}
	}
	return out
}

var errTest = errors.New("test failure")
