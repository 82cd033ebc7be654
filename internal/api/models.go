package api

import "trailblog/internal/core/domain"

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// PostPage is one page of posts as returned by GET /posts/.
type PostPage struct {
	Posts   []domain.Post `json:"posts"`
	Total   int           `json:"total"`
	HasMore bool          `json:"has_more"`
}

type commentListResponse struct {
	Comments []domain.Comment `json:"comments"`
}

type postListResponse struct {
	Posts []domain.Post `json:"posts"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

type createPostRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Tags        string `json:"tags,omitempty"`
}

type createCommentRequest struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type suggestTitleRequest struct {
	Content string `json:"content"`
}

type suggestTitleResponse struct {
	Titles []string `json:"titles"`
}

type generateDescriptionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type generateDescriptionResponse struct {
	Description string `json:"description"`
}

type generateTagsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type generateTagsResponse struct {
	Tags []string `json:"tags"`
}

type improveContentRequest struct {
	Content string `json:"content"`
}

type improveContentResponse struct {
	ImprovedContent string `json:"improved_content"`
}

type moderateContentRequest struct {
	Content string `json:"content"`
}

// Moderation is the verdict of POST /ai/moderate-content.
type Moderation struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason,omitempty"`
}

type similarPostsRequest struct {
	PostID int `json:"post_id"`
	Limit  int `json:"limit"`
}

type insightsRequest struct {
	Destination string `json:"destination"`
}

type travelInsightsResponse struct {
	Insights string `json:"insights"`
}

type weatherInsightsResponse struct {
	Summary string `json:"summary"`
}

type aiHealthResponse struct {
	Status string `json:"status"`
}
