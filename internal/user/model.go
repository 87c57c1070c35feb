package user

import "time"

// User represents an account that can join groups, pay for expenses and
// settle debts.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
