package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email     string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	FirstName string    `gorm:"type:varchar(150)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(150)" json:"last_name"`
	Password  string    `json:"-"`
	Role      string    `gorm:"type:varchar(16);default:'user'" json:"role"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID"`
	Timestamp
}

// Subscription links a follower to the author they follow.
type Subscription struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SubscriberID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_subscribed_to" json:"subscriber_id"`
	SubscribedToID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_subscribed_to;index" json:"subscribed_to_id"`
	CreatedAt      time.Time `gorm:"type:timestamp with time zone" json:"created_at"`

	Subscriber   *User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
	SubscribedTo *User `gorm:"foreignKey:SubscribedToID;constraint:OnDelete:CASCADE"`
}
