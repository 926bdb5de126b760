package model

import "time"

type Family struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	JoinCode  string    `db:"join_code"`
	CreatorID string    `db:"creator_id"`
	CreatedAt time.Time `db:"created_at"`
}

// FamilySummary is the family projection shown to members. It never
// carries the join code.
type FamilySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreatedFamily is returned once, to the creator, and is the only
// projection that includes the join code.
type CreatedFamily struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JoinCode string `json:"joinCode"`
}

type Member struct {
	ID        string    `db:"id" json:"id"`
	Name      *string   `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email"`
	Image     *string   `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Roster lists a family's members, oldest membership first.
type Roster struct {
	Members   []*Member `json:"members"`
	CreatorID string    `json:"creatorId"`
}

func (r *Roster) IsCreator(userID string) bool {
	return r != nil && r.CreatorID == userID
}

func (f *Family) Summary() *FamilySummary {
	return &FamilySummary{ID: f.ID, Name: f.Name}
}
