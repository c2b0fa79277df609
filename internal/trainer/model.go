package trainer

// Trainer is the catalog view of a user with the trainer role.
type Trainer struct {
	ID   int    `db:"id" json:"trainer_id"`
	Name string `db:"name" json:"name"`
}
