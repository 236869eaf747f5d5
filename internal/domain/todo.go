package domain

// Todo is a single todo item. The id is generated by the application
// at creation time, not by the database.
type Todo struct {
	ID        string `db:"id" json:"id"`
	UserEmail string `db:"user_email" json:"user_email"`
	Title     string `db:"title" json:"title"`
	Progress  string `db:"progress" json:"progress"`
	Date      string `db:"date" json:"date"`
}
