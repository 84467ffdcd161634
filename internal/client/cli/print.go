package cli

import (
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/photofeed/internal/api"
)

const timeLayout = "2006-01-02 15:04"

// readImage loads an image file and sniffs its content type.
func readImage(path string) ([]byte, string, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

func (a *App) printUser(u *api.User) {
	fmt.Fprintf(a.out, "@%s  %s  (%s)\n", u.Username, u.FullName, u.ID)
	if u.Email != "" {
		fmt.Fprintf(a.out, "email:    %s\n", u.Email)
	}
	if u.ProfileImageURL != "" {
		fmt.Fprintf(a.out, "image:    %s\n", u.ProfileImageURL)
	}
	if u.Stats != nil {
		fmt.Fprintf(a.out, "posts: %d  followers: %d  following: %d\n", u.Stats.Posts, u.Stats.Followers, u.Stats.Following)
	}
	fmt.Fprintf(a.out, "joined:   %s\n", u.CreatedAt.Local().Format(timeLayout))
}

func (a *App) printUsers(us []api.User) {
	if len(us) == 0 {
		fmt.Fprintln(a.out, "(no users)")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 2, 2, ' ', 0)
	for _, u := range us {
		fmt.Fprintf(w, "%s\t@%s\t%s\n", u.ID, u.Username, u.FullName)
	}
	w.Flush()
}

func (a *App) printIDs(ids []string) {
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "(none)")
		return
	}
	for _, id := range ids {
		fmt.Fprintln(a.out, id)
	}
}

func (a *App) printPosts(ps []api.Post) {
	if len(ps) == 0 {
		fmt.Fprintln(a.out, "(no posts)")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOWNER\tLIKES\tCREATED\tCAPTION")
	for _, p := range ps {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", p.ID, p.OwnerID, p.Likes, p.CreatedAt.Local().Format(timeLayout), oneLine(p.Caption))
	}
	w.Flush()
}

func (a *App) printNotifications(ns []api.Notification) {
	if len(ns) == 0 {
		fmt.Fprintln(a.out, "(inbox is empty)")
		return
	}
	for _, n := range ns {
		line := fmt.Sprintf("%s  %s  %s", n.CreatedAt.Local().Format(timeLayout), n.Type, n.ActorID)
		if n.PostID != "" {
			line += "  post " + n.PostID
		}
		fmt.Fprintln(a.out, line)
	}
}

func (a *App) printComments(cs []api.Comment) {
	if len(cs) == 0 {
		fmt.Fprintln(a.out, "(no comments)")
		return
	}
	for _, c := range cs {
		fmt.Fprintf(a.out, "%s  %s: %s\n", c.CreatedAt.Local().Format(timeLayout), c.AuthorID, oneLine(c.Text))
	}
}

// printMessages takes a newest-first page and prints it the way a chat
// reads, oldest at the top.
func (a *App) printMessages(ms []api.Message) {
	if len(ms) == 0 {
		fmt.Fprintln(a.out, "(no messages)")
		return
	}
	for i := len(ms) - 1; i >= 0; i-- {
		m := ms[i]
		fmt.Fprintf(a.out, "%s  %s: %s\n", m.CreatedAt.Local().Format(timeLayout), m.FromID, m.Text)
	}
}

func (a *App) printConversations(cs []api.Conversation) {
	if len(cs) == 0 {
		fmt.Fprintln(a.out, "(no conversations)")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "WITH\tLAST\tFROM\tTEXT")
	for _, c := range cs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.PartnerID, c.Last.CreatedAt.Local().Format(timeLayout), c.Last.FromID, oneLine(c.Last.Text))
	}
	w.Flush()
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}

