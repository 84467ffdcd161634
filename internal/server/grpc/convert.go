package grpc

import (
	"github.com/dmitrijs2005/photofeed/internal/api"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

// toUser hides the email of anyone but the caller.
func toUser(u *models.User, self bool) api.User {
	out := api.User{
		ID:              u.ID,
		FullName:        u.FullName,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
	if self {
		out.Email = u.Email
	}
	return out
}

func toUsers(us []*models.User) []api.User {
	out := make([]api.User, 0, len(us))
	for _, u := range us {
		out = append(out, toUser(u, false))
	}
	return out
}

func toPost(p *models.Post) api.Post {
	return api.Post{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		ImageURL:  p.ImageURL,
		Caption:   p.Caption,
		Likes:     p.Likes,
		Hashtags:  p.Hashtags,
		CreatedAt: p.CreatedAt,
	}
}

func toPosts(ps []*models.Post) []api.Post {
	out := make([]api.Post, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPost(p))
	}
	return out
}

func toNotifications(ns []*models.Notification) []api.Notification {
	out := make([]api.Notification, 0, len(ns))
	for _, n := range ns {
		out = append(out, api.Notification{
			ID:        n.ID,
			ActorID:   n.ActorID,
			Type:      string(n.Type),
			PostID:    n.PostID,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

func toComment(c *models.Comment) api.Comment {
	return api.Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func toComments(cs []*models.Comment) []api.Comment {
	out := make([]api.Comment, 0, len(cs))
	for _, c := range cs {
		out = append(out, toComment(c))
	}
	return out
}

func toMessage(m *models.Message) api.Message {
	return api.Message{
		ID:        m.ID,
		FromID:    m.FromID,
		ToID:      m.ToID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func toMessages(ms []*models.Message) []api.Message {
	out := make([]api.Message, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMessage(m))
	}
	return out
}
