package models

import "time"

// Presence states.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// User is a user profile document in the content store. The engine only
// reads profile fields and shrinks the destination set; device
// registration adds tokens through a separate pathway.
type User struct {
	ID        string   `bson:"_id" json:"id"`
	FullName  string   `bson:"fullName" json:"fullName"`
	FCMTokens []string `bson:"fcmTokens" json:"fcmTokens"`
	// FCMToken is the legacy single-device field still written by older
	// clients.
	FCMToken string     `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"`
	Status   string     `bson:"status,omitempty" json:"status,omitempty"`
	LastSeen *time.Time `bson:"lastSeen,omitempty" json:"lastSeen,omitempty"`
}

// Destinations returns the user's current delivery destinations: the
// token set unioned with the legacy single token.
func (u *User) Destinations() []string {
	tokens := make([]string, 0, len(u.FCMTokens)+1)
	seen := make(map[string]struct{}, len(u.FCMTokens)+1)
	for _, t := range u.FCMTokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	if u.FCMToken != "" {
		if _, ok := seen[u.FCMToken]; !ok {
			tokens = append(tokens, u.FCMToken)
		}
	}
	return tokens
}

// Project is a project document in the content store.
type Project struct {
	ID        string `bson:"_id" json:"id"`
	Title     string `bson:"title" json:"title"`
	CreatedBy string `bson:"createdBy" json:"createdBy"`
}

// Chat is a chat document in the content store. Two participants are
// assumed.
type Chat struct {
	ID           string   `bson:"_id" json:"id"`
	Participants []string `bson:"participants" json:"participants"`
}

// PresenceUpdate is the next presence state a heartbeat change implies.
// LastSeen is set only for offline transitions.
type PresenceUpdate struct {
	Status   string
	LastSeen *time.Time
}
