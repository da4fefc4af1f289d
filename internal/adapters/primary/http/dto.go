package http

import (
	"time"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

// DTOs de sortie : le domaine ne porte pas de tags JSON, la forme du wire
// appartient à l'adapter.

type userDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Gender         string `json:"gender,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

type profileDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type postDTO struct {
	ID        string `json:"id"`
	AuthorID  string `json:"authorId"`
	Caption   string `json:"caption,omitempty"`
	ImageURL  string `json:"image,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type commentDTO struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	AuthorID  string `json:"authorId"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type feedCommentDTO struct {
	commentDTO
	Author profileDTO `json:"author"`
}

type feedPostDTO struct {
	postDTO
	Author   profileDTO       `json:"author"`
	Likes    []string         `json:"likes"`
	Comments []feedCommentDTO `json:"comments"`
}

type messageDTO struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	ReceiverID     string `json:"receiverId"`
	Message        string `json:"message"`
	CreatedAt      string `json:"createdAt"`
}

// --- MAPPERS ---

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		Gender:         string(u.Gender),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []*domain.User) []userDTO {
	out := make([]userDTO, len(users))
	for i, u := range users {
		out[i] = toUserDTO(u)
	}
	return out
}

func toProfileDTO(p domain.Profile) profileDTO {
	return profileDTO{ID: p.ID, Username: p.Username, ProfilePicture: p.ProfilePicture}
}

func toPostDTO(p *domain.Post) postDTO {
	return postDTO{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Caption:   p.Caption,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func toCommentDTO(c domain.Comment) commentDTO {
	return commentDTO{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toCommentDTOs(comments []domain.Comment) []commentDTO {
	out := make([]commentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentDTO(c))
	}
	return out
}

func toFeedPostDTO(fp *domain.FeedPost) feedPostDTO {
	dto := feedPostDTO{
		postDTO: toPostDTO(&fp.Post),
		Author:  toProfileDTO(fp.Author),
		Likes:   fp.Likes,
	}
	if dto.Likes == nil {
		dto.Likes = []string{}
	}
	dto.Comments = make([]feedCommentDTO, 0, len(fp.Comments))
	for _, c := range fp.Comments {
		dto.Comments = append(dto.Comments, feedCommentDTO{
			commentDTO: toCommentDTO(c.Comment),
			Author:     toProfileDTO(c.Author),
		})
	}
	return dto
}

func toFeedPostDTOs(feed []*domain.FeedPost) []feedPostDTO {
	out := make([]feedPostDTO, len(feed))
	for i, fp := range feed {
		out[i] = toFeedPostDTO(fp)
	}
	return out
}

func toMessageDTO(m *domain.Message) messageDTO {
	return messageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Message:        m.Text,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

func toMessageDTOs(messages []domain.Message) []messageDTO {
	out := make([]messageDTO, 0, len(messages))
	for i := range messages {
		out = append(out, toMessageDTO(&messages[i]))
	}
	return out
}
