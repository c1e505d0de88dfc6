package models

import "time"

const PurchaseCompleted = "completed"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:120;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:190;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the profile shape exposed to other users. The password hash
// never leaves the users table.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:190;not null" json:"name"`
	Type      string    `gorm:"size:120" json:"type"`
	Price     float64   `gorm:"not null" json:"price"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Conversation is a direct-message thread between two users. Participants are
// stored in canonical order (UserOneID < UserTwoID) and the pair is unique, so
// concurrent ensure calls cannot create a second thread for the same two
// users. UpdatedAt is bumped on every message.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserOneID uint      `gorm:"uniqueIndex:idx_conversation_pair;not null" json:"user_one_id"`
	UserTwoID uint      `gorm:"uniqueIndex:idx_conversation_pair;not null" json:"user_two_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Conversation) HasParticipant(userID uint) bool {
	return c.UserOneID == userID || c.UserTwoID == userID
}

// Counterpart returns the other participant's id.
func (c Conversation) Counterpart(userID uint) uint {
	if c.UserOneID == userID {
		return c.UserTwoID
	}
	return c.UserOneID
}

type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversation_id"`
	SenderID       uint      `gorm:"index;not null" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// Purchase records a completed sale. Amount is a snapshot of the product's
// price at purchase time; later price edits don't rewrite history.
type Purchase struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BuyerID   uint      `gorm:"index;not null" json:"buyer_id"`
	SellerID  uint      `gorm:"index;not null" json:"seller_id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationSummary is a conversation annotated with the counterpart's
// public profile, as returned by the conversation list endpoint.
type ConversationSummary struct {
	Conversation
	Counterpart PublicUser `json:"counterpart"`
}

// MessageView is a message annotated with the sender's username.
type MessageView struct {
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversation_id"`
	SenderID       uint      `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	SenderUsername string    `json:"sender_username"`
}

// PurchaseView is a purchase annotated with product and participant names for
// the history listing. Product fields are empty if the listing was deleted
// after the sale.
type PurchaseView struct {
	ID             uint      `json:"id"`
	BuyerID        uint      `json:"buyer_id"`
	SellerID       uint      `json:"seller_id"`
	ProductID      uint      `json:"product_id"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	ProductName    string    `json:"product_name"`
	ProductType    string    `json:"product_type"`
	BuyerUsername  string    `json:"buyer_username"`
	SellerUsername string    `json:"seller_username"`
}
