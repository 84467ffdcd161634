package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/photofeed/internal/dbx"
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
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Posts(db dbx.DBTX) posts.Repository
	Follows(db dbx.DBTX) follows.Repository
	Feeds(db dbx.DBTX) feeds.Repository
	Likes(db dbx.DBTX) likes.Repository
	Hashtags(db dbx.DBTX) hashtags.Repository
	Notifications(db dbx.DBTX) notifications.Repository
	Comments(db dbx.DBTX) comments.Repository
	Messages(db dbx.DBTX) messages.Repository
	PasswordResets(db dbx.DBTX) passwordresets.Repository
}
