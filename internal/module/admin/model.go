package admin

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SignupWindowDays is how many days the signup chart covers
const SignupWindowDays = 30

// ErrBroadcastTooLong is returned for a broadcast message over the size limit
var ErrBroadcastTooLong = errors.New("broadcast message too long")

// Stats is the admin overview across all users.
type Stats struct {
	TotalUsers        int   `json:"total_users"`
	TotalCoins        int64 `json:"total_coins"`
	TotalTransactions int   `json:"total_transactions"`
}

// SignupChart holds daily signup counts, oldest day first.
type SignupChart struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// Overview is the response of the admin stats view
type Overview struct {
	Stats     Stats       `json:"stats"`
	ChartData SignupChart `json:"chart_data"`
}

// UserSummary is one row of the admin user list
type UserSummary struct {
	UserID      uuid.UUID  `json:"user_id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	Balance     int64      `json:"balance"`
	TxnCount    int        `json:"txn_count"`
	LastUpdated *time.Time `json:"last_updated"`
}

// Broadcast is the banner shown to every user
type Broadcast struct {
	Message string     `json:"message"`
	SetBy   string     `json:"set_by,omitempty"`
	SetAt   *time.Time `json:"set_at,omitempty"`
}
