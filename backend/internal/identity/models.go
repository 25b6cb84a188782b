package identity

import (
	"time"

	"github.com/lib/pq"
)

// Person is the identity record of record: profile attributes plus the
// denormalized relationship-membership lists. The subscribers/following
// lists hold opaque person IDs and mirror the directed edge set kept in the
// relationship graph.
type Person struct {
	ID          string         `json:"id" gorm:"primaryKey;type:text"`
	FirstName   string         `json:"firstName" gorm:"type:text"`
	LastName    string         `json:"lastName" gorm:"type:text"`
	Email       string         `json:"email" gorm:"type:text;uniqueIndex"`
	Password    string         `json:"-" gorm:"type:text"`
	Interests   pq.StringArray `json:"interests" gorm:"type:text[]"`
	Subscribers pq.StringArray `json:"subscribers" gorm:"type:text[]"`
	Following   pq.StringArray `json:"following" gorm:"type:text[]"`
	CDate       time.Time      `json:"cdate" gorm:"autoCreateTime"`
	MDate       time.Time      `json:"mdate" gorm:"autoUpdateTime"`
}

// DisplayName returns the derived "First Last" string shown in feeds and
// stored as a graph node attribute.
func (p *Person) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

// IsFollowing reports whether the cached following list contains id
func (p *Person) IsFollowing(id string) bool {
	return contains(p.Following, id)
}

// HasSubscriber reports whether the cached subscribers list contains id
func (p *Person) HasSubscriber(id string) bool {
	return contains(p.Subscribers, id)
}

// Comment is an inline comment on a post
type Comment struct {
	UserID string `json:"author"`
	Text   string `json:"text"`
}

// Post is a user post with inline likes and comments. Posts never touch the
// relationship graph.
type Post struct {
	ID       string         `json:"id" gorm:"primaryKey;type:text"`
	UserID   string         `json:"author" gorm:"type:text;index"`
	Title    string         `json:"title" gorm:"type:text"`
	PostDate time.Time      `json:"date"`
	Likes    pq.StringArray `json:"likes" gorm:"type:text[]"`
	Comments []Comment      `json:"comments" gorm:"type:jsonb;serializer:json"`
}

// HasLikeFrom reports whether the post is already liked by personID
func (p *Post) HasLikeFrom(personID string) bool {
	return contains(p.Likes, personID)
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
