// Package api defines the photofeed wire contract shared by the gRPC server
// and its clients: the service and method names and the JSON request and
// response messages.
package api

import "time"

const ServiceName = "photofeed.v1.PhotoFeed"

const (
	MethodPing           = "Ping"
	MethodRegister       = "Register"
	MethodLogin          = "Login"
	MethodRefreshToken   = "RefreshToken"
	MethodLogout         = "Logout"
	MethodGetUser        = "GetUser"
	MethodUpdateProfile  = "UpdateProfile"
	MethodSearchUsers    = "SearchUsers"
	MethodRegisterDevice = "RegisterDevice"

	MethodRequestPasswordReset = "RequestPasswordReset"
	MethodResetPassword        = "ResetPassword"

	MethodFollow      = "Follow"
	MethodUnfollow    = "Unfollow"
	MethodIsFollowing = "IsFollowing"
	MethodFollowers   = "Followers"
	MethodFollowing   = "Following"

	MethodCreatePost = "CreatePost"
	MethodGetPost    = "GetPost"
	MethodDeletePost = "DeletePost"
	MethodUserPosts  = "UserPosts"
	MethodLike       = "Like"
	MethodUnlike     = "Unlike"
	MethodIsLiked    = "IsLiked"
	MethodLikers     = "Likers"
	MethodLikedPosts = "LikedPosts"
	MethodFeed       = "Feed"
	MethodHashtag    = "Hashtag"

	MethodInbox      = "Inbox"
	MethodAddComment = "AddComment"
	MethodComments   = "Comments"

	MethodSendMessage   = "SendMessage"
	MethodConversation  = "Conversation"
	MethodConversations = "Conversations"
)

// FullMethod returns the gRPC path of method, e.g. /photofeed.v1.PhotoFeed/Login.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// --- identity ---

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	ProfileImage []byte `json:"profile_image,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Posts     int64 `json:"posts"`
}

type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email,omitempty"`
	FullName        string     `json:"full_name"`
	Username        string     `json:"username"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	Stats           *UserStats `json:"stats,omitempty"`
}

type UserResponse struct {
	User User `json:"user"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

type UserRequest struct {
	UserID string `json:"user_id"`
}

// UpdateProfileRequest leaves nil fields unchanged.
type UpdateProfileRequest struct {
	FullName     *string `json:"full_name,omitempty"`
	Username     *string `json:"username,omitempty"`
	ProfileImage []byte  `json:"profile_image,omitempty"`
	ContentType  string  `json:"content_type,omitempty"`
}

type SearchUsersRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit,omitempty"`
}

type RegisterDeviceRequest struct {
	DeviceToken string `json:"device_token"`
}

// --- graph ---

type IsFollowingResponse struct {
	Following bool `json:"following"`
}

type UserIDsResponse struct {
	UserIDs []string `json:"user_ids"`
}

// --- posts ---

type Post struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption"`
	Likes     int64     `json:"likes"`
	Hashtags  []string  `json:"hashtags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePostRequest struct {
	Image       []byte `json:"image"`
	ContentType string `json:"content_type,omitempty"`
	Caption     string `json:"caption"`
}

type PostRequest struct {
	PostID string `json:"post_id"`
}

type PostResponse struct {
	Post Post `json:"post"`
}

type PostsResponse struct {
	Posts []Post `json:"posts"`
}

type LikeResponse struct {
	Likes int64 `json:"likes"`
}

type IsLikedResponse struct {
	Liked bool `json:"liked"`
}

type FeedRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type HashtagRequest struct {
	Tag string `json:"tag"`
}

// --- notifications and comments ---

type Notification struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Type      string    `json:"type"`
	PostID    string    `json:"post_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type InboxRequest struct {
	Limit int `json:"limit,omitempty"`
}

type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type AddCommentRequest struct {
	PostID string `json:"post_id"`
	Text   string `json:"text"`
}

type CommentResponse struct {
	Comment Comment `json:"comment"`
}

type CommentsResponse struct {
	Comments []Comment `json:"comments"`
}

// --- direct messages ---

type Message struct {
	ID        string    `json:"id"`
	FromID    string    `json:"from_id"`
	ToID      string    `json:"to_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	ToID string `json:"to_id"`
	Text string `json:"text"`
}

type MessageResponse struct {
	Message Message `json:"message"`
}

type ConversationRequest struct {
	PartnerID string `json:"partner_id"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
}

type ConversationsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type Conversation struct {
	PartnerID string  `json:"partner_id"`
	Last      Message `json:"last"`
}

type ConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
}
