package models

// Review is a rating left by one party of a delivered load for the other
type Review struct {
	Base
	LoadID     string `json:"loadId" gorm:"uniqueIndex:idx_review_load_reviewer;not null"`
	ReviewerID string `json:"reviewerId" gorm:"uniqueIndex:idx_review_load_reviewer;not null"`
	RevieweeID string `json:"revieweeId" gorm:"index;not null"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
}
