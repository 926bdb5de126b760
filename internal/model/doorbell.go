package model

import "time"

const (
	DoorbellModelA = "model-a"
	DoorbellModelB = "model-b"
	DoorbellModelC = "model-c"
)

// DoorbellModels lists the selectable hardware models in display order.
var DoorbellModels = []string{DoorbellModelA, DoorbellModelB, DoorbellModelC}

type Doorbell struct {
	ID        string    `db:"id" json:"id"`
	FamilyID  string    `db:"family_id" json:"familyId"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	Model     string    `db:"model" json:"model"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func IsDoorbellModel(model string) bool {
	for _, m := range DoorbellModels {
		if m == model {
			return true
		}
	}
	return false
}
