package schema

// UsersTable represents the 'public.users' table
type UsersTable struct {
	Table       string
	ID          string
	Email       string
	CreatedAt   string
	LastLoginAt string
}

// Users is the schema definition for public.users
var Users = UsersTable{
	Table:       "users",
	ID:          "id",
	Email:       "email",
	CreatedAt:   "created_at",
	LastLoginAt: "last_login_at",
}
