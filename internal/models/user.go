package models

// User describes a registered forum member. Accounts start unverified and
// unlock the rest of the API once the email OTP is confirmed.
type User struct {
	BaseModel

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	IsVerified bool `gorm:"default:false" json:"is_verified"`

	QuestionsAsked    int `gorm:"default:0" json:"questions_asked"`
	QuestionsAnswered int `gorm:"default:0" json:"questions_answered"`
	Reputation        int `gorm:"default:0" json:"reputation"`

	OTP *EmailOTP `gorm:"foreignKey:UserID" json:"-"`
}
