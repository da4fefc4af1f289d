package domain

// ToggleState est l'état résultant d'un toggle, tel qu'exposé à la frontière.
type ToggleState string

const (
	StateFollowed     ToggleState = "followed"
	StateUnfollowed   ToggleState = "unfollowed"
	StateLiked        ToggleState = "liked"
	StateUnliked      ToggleState = "unliked"
	StateBookmarked   ToggleState = "bookmarked"
	StateUnbookmarked ToggleState = "unbookmarked"
)

// RelationStatus décrit l'arête dans les deux sens (pour l'UI profil).
type RelationStatus struct {
	IsFollowing  bool // actor suit target
	IsFollowedBy bool // target suit actor
}

// FeedPost est un post hydraté pour l'affichage : projection minimale de
// l'auteur, likes, et commentaires eux-mêmes hydratés.
type FeedPost struct {
	Post
	Author   Profile
	Likes    []string // ids des utilisateurs ayant liké
	Comments []FeedComment
}

type FeedComment struct {
	Comment
	Author Profile
}
