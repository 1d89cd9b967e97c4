package models

import "time"

// HandoffPayload is the queued-dispatch task payload: the memory snapshot
// travels with the task so a retry renders the summary the visitor agreed
// to, not whatever the session holds by then.
type HandoffPayload struct {
	Token  string `json:"token"`
	Memory string `json:"memory"`
}

// HandoffRecord is a dispatched booking summary persisted for the shop's
// back office.
type HandoffRecord struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	SessionToken string    `bson:"session_token" json:"sessionToken"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone" json:"phone"`
	Location     string    `bson:"location" json:"location"`
	Artist       string    `bson:"artist" json:"artist"`
	PriceRange   string    `bson:"price_range" json:"priceRange"`
	Description  string    `bson:"description" json:"description"`
	Date         string    `bson:"date" json:"date"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
